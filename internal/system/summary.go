package system

import (
	"context"
	"time"

	"github.com/deadtide/server/internal/core/event"
	coresys "github.com/deadtide/server/internal/core/system"
	"github.com/deadtide/server/internal/persist"
	"go.uber.org/zap"
)

// Summary records each completed run to the database. It listens for the
// end-of-run event off the bus, so the write happens one tick after the
// death sequence, in the persist phase, off the behavior path. A nil repo
// (no database configured) turns it into a no-op.
type Summary struct {
	repo *persist.RunRepo
	log  *zap.Logger

	pending []persist.RunRow
}

func NewSummary(bus *event.Bus, repo *persist.RunRepo, serverName string, log *zap.Logger) *Summary {
	s := &Summary{repo: repo, log: log}
	event.Subscribe(bus, func(e event.RunEnded) {
		s.pending = append(s.pending, persist.RunRow{
			ServerName:    serverName,
			Score:         e.Score,
			Kills:         e.Kills,
			SurvivalTicks: e.SurvivalTicks,
		})
	})
	return s
}

func (s *Summary) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *Summary) Update(tick int64) {
	if len(s.pending) == 0 {
		return
	}
	rows := s.pending
	s.pending = nil
	if s.repo == nil {
		return
	}
	for i := range rows {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := s.repo.Insert(ctx, &rows[i])
		cancel()
		if err != nil {
			s.log.Error("record run", zap.Error(err))
			continue
		}
		s.log.Info("run recorded",
			zap.Int64("run_id", rows[i].ID),
			zap.Int("score", rows[i].Score))
	}
}
