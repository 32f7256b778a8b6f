package services

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/dboots/bg-broadcast/pkg/logger"
)

const DefaultCloseSpec = "@every 1m"

// CronAuctionCloser periodically closes auctions whose end date has passed.
type CronAuctionCloser struct {
	cron       *cron.Cron
	spec       string
	auctionSvc *AuctionService
	log        logger.Logger
}

func NewCronAuctionCloser(spec string, auctionSvc *AuctionService, log logger.Logger) *CronAuctionCloser {
	if spec == "" {
		spec = DefaultCloseSpec
	}
	return &CronAuctionCloser{
		cron:       cron.New(cron.WithSeconds()),
		spec:       spec,
		auctionSvc: auctionSvc,
		log:        log,
	}
}

func (s *CronAuctionCloser) Start(ctx context.Context) error {
	s.log.Info("Starting auction closer", "spec", s.spec)

	_, err := s.cron.AddFunc(s.spec, func() {
		s.closeExpired(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for a running pass to finish.
func (s *CronAuctionCloser) Stop() {
	s.log.Info("Stopping auction closer")
	<-s.cron.Stop().Done()
}

func (s *CronAuctionCloser) closeExpired(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	closed, err := s.auctionSvc.CloseExpired(ctx)
	if err != nil {
		s.log.Error("Failed to close expired auctions", "error", err)
		return
	}
	if closed > 0 {
		s.log.Info("Closed expired auctions", "count", closed)
	}
}
