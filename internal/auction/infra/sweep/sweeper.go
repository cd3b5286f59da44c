package sweep

import (
	"context"
	"time"

	"github.com/topbid/auction-api/internal/auction/application"
	"github.com/topbid/auction-api/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Sweeper periodically triggers the start/finish sweeps. The scheduling is
// deliberately dumb: the eligibility decisions live in the aggregate, this
// just supplies the heartbeat.
type Sweeper struct {
	service  application.AuctionService
	interval time.Duration
}

func NewSweeper(service application.AuctionService, interval time.Duration) *Sweeper {
	return &Sweeper{service: service, interval: interval}
}

// Run blocks until the context is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	log.Info("Auction sweeper started", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Auction sweeper stopped")
			return
		case <-ticker.C:
			if err := s.service.StartEligibleAuctions(ctx); err != nil {
				log.Error("Start sweep failed", zap.Error(err))
			}
			if err := s.service.FinishEligibleAuctions(ctx); err != nil {
				log.Error("Finish sweep failed", zap.Error(err))
			}
		}
	}
}
