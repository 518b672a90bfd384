package tracker

import (
	"context"
	"fmt"

	"fdf-monitor/internal/infra/exec"
	logging "fdf-monitor/internal/infra/log"

	"go.uber.org/zap"
)

// Publisher commits and pushes the data directory after a run.
type Publisher struct {
	Git     *exec.Git
	Path    string
	Message string
}

// Publish returns false when Path had nothing to commit.
func (p *Publisher) Publish(ctx context.Context) (bool, error) {
	changed, err := p.Git.HasChanges(ctx, p.Path)
	if err != nil {
		return false, err
	}
	if !changed {
		logging.LogInfo("No data changes to publish", zap.String("path", p.Path))
		return false, nil
	}

	if err := p.Git.Add(ctx, p.Path); err != nil {
		return false, err
	}
	if err := p.Git.Commit(ctx, p.Message); err != nil {
		return false, err
	}
	if err := p.Git.Push(ctx); err != nil {
		return false, fmt.Errorf("data committed locally but not pushed: %w", err)
	}
	logging.LogSuccess("Data published", zap.String("path", p.Path))
	return true, nil
}
