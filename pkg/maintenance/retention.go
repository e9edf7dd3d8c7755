// Package maintenance runs scheduled housekeeping jobs.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/manishsingh1309/ai-planet/pkg/persistence"
)

// Daily, off-peak.
const retentionSchedule = "0 3 * * *"

// Retention purges chat history entries older than the configured window.
// A non-positive window disables the sweep.
type Retention struct {
	persistence persistence.ChatRepository
	days        int
	cron        *cron.Cron
	logger      *slog.Logger
}

func NewRetention(p persistence.ChatRepository, days int, logger *slog.Logger) *Retention {
	return &Retention{
		persistence: p,
		days:        days,
		cron:        cron.New(),
		logger:      logger.With("module", "retention"),
	}
}

// Start schedules the daily sweep. Returns immediately.
func (r *Retention) Start() error {
	if r.days <= 0 {
		r.logger.Info("Chat retention sweep disabled")

		return nil
	}

	_, err := r.cron.AddFunc(retentionSchedule, r.sweep)
	if err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Info("Chat retention sweep scheduled", "days", r.days)

	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (r *Retention) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Retention) sweep() {
	ctx := context.Background()
	cutoff := time.Now().UTC().AddDate(0, 0, -r.days)

	purged, err := r.persistence.PurgeChatHistoryBefore(ctx, cutoff)
	if err != nil {
		r.logger.ErrorContext(ctx, "Chat retention sweep failed", "error", err)

		return
	}

	r.logger.InfoContext(ctx, "Chat retention sweep completed", "purged", purged, "cutoff", cutoff)
}
