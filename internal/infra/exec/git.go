package exec

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Git runs git subcommands inside a working tree.
type Git struct {
	Dir     string
	Timeout time.Duration // per command
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	out, err := Run(ctx, g.Dir, g.Timeout, "git", args...)
	return string(out), err
}

// HasChanges reports whether path has modified or untracked files.
func (g *Git) HasChanges(ctx context.Context, path string) (bool, error) {
	_, err := g.run(ctx, "diff", "--quiet", "HEAD", "--", path)
	var exitErr *ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr) && exitErr.Code == 1:
		return true, nil
	default:
		return false, fmt.Errorf("git diff: %w", err)
	}

	untracked, err := g.run(ctx, "ls-files", "--others", "--exclude-standard", "--", path)
	if err != nil {
		return false, fmt.Errorf("git ls-files: %w", err)
	}
	return strings.TrimSpace(untracked) != "", nil
}

func (g *Git) Add(ctx context.Context, paths ...string) error {
	if _, err := g.run(ctx, append([]string{"add", "--"}, paths...)...); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	return nil
}

func (g *Git) Commit(ctx context.Context, message string) error {
	if _, err := g.run(ctx, "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	return nil
}

func (g *Git) Push(ctx context.Context) error {
	if _, err := g.run(ctx, "push"); err != nil {
		return fmt.Errorf("git push: %w", err)
	}
	return nil
}
