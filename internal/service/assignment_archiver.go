package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type completedArchiver interface {
	ArchiveCompleted(ctx context.Context, olderThan time.Duration) (int64, error)
}

// AssignmentArchiver periodically archives completed assignments.
type AssignmentArchiver struct {
	archiver completedArchiver
	schedule string
	after    time.Duration
	loc      *time.Location
	logger   *zap.Logger
}

// NewAssignmentArchiver constructs the scheduler. Schedules use the standard
// five-field cron syntax interpreted in loc.
func NewAssignmentArchiver(archiver completedArchiver, schedule string, after time.Duration, loc *time.Location, logger *zap.Logger) *AssignmentArchiver {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentArchiver{archiver: archiver, schedule: schedule, after: after, loc: loc, logger: logger}
}

// Run blocks until ctx is cancelled, archiving on every schedule tick.
func (a *AssignmentArchiver) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(a.loc))
	if _, err := c.AddFunc(a.schedule, func() { a.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule assignment archiver %q: %w", a.schedule, err)
	}

	c.Start()
	a.logger.Info("assignment archiver started", zap.String("schedule", a.schedule), zap.Duration("after", a.after))

	<-ctx.Done()

	<-c.Stop().Done()
	a.logger.Info("assignment archiver stopped")
	return nil
}

// RunOnce performs a single archiving pass.
func (a *AssignmentArchiver) RunOnce(ctx context.Context) {
	if _, err := a.archiver.ArchiveCompleted(ctx, a.after); err != nil {
		a.logger.Error("failed to archive assignments", zap.Error(err))
	}
}
