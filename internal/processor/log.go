package processor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/notifyhub/assignment-queue/internal/domain"
)

// Log is the default processor: one structured log line per consumed
// assignment and no other side effect.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Process(_ context.Context, a domain.Assignment) error {
	l.logger.Info("consumed",
		zap.String("assignment_id", a.ID().String()),
		zap.String("description", a.Description()),
		zap.String("due_date", a.DueDate().Format(time.RFC3339)),
		zap.Stringer("priority", a.Priority()),
	)
	return nil
}

var _ Processor = (*Log)(nil)
