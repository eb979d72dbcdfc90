package panel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/oshokin/security-panel/internal/logger"
)

// submitFunc hands one code to the submitter.
type submitFunc func(ctx context.Context, code string)

// readCodes submits every input line as a code until ctx ends. Lines have no
// length limit. End of input does not close the panel: it keeps showing the
// polled status.
func readCodes(ctx context.Context, in io.Reader, submit submitFunc) error {
	var (
		lines   = make(chan string)
		readErr = make(chan error, 1)
	)

	go func() {
		defer close(lines)

		reader := bufio.NewReader(in)

		for {
			line, err := reader.ReadString('\n')
			if line != "" || err == nil {
				select {
				case lines <- strings.TrimSuffix(line, "\n"):
				case <-ctx.Done():
					readErr <- nil
					return
				}
			}

			if err == nil {
				continue
			}

			if errors.Is(err, io.EOF) {
				err = nil
			}

			readErr <- err

			return
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if ok {
				// Any string is a valid attempt, including an empty one.
				submit(ctx, strings.TrimSuffix(line, "\r"))
				continue
			}

			if err := <-readErr; err != nil {
				return fmt.Errorf("read codes: %w", err)
			}

			logger.Info(ctx, "Input closed, panel keeps polling until interrupted")
			<-ctx.Done()

			return nil
		}
	}
}
