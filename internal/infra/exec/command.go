package exec

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ExitError carries the exit status and combined output of a failed command.
type ExitError struct {
	Command string
	Code    int
	Output  string
}

func (e *ExitError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Command, e.Code, out)
}

// Run executes name in dir with a timeout and returns the combined output.
// A non-zero exit is reported as *ExitError.
func Run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("%s is not installed or not in PATH: %w", name, err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return output, fmt.Errorf("%s %s timed out after %v", name, strings.Join(args, " "), timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return output, &ExitError{
				Command: name + " " + strings.Join(args, " "),
				Code:    exitErr.ExitCode(),
				Output:  string(output),
			}
		}
		return output, fmt.Errorf("%s failed: %w", name, err)
	}
	return output, nil
}
