package service

import (
	"context"
	"time"

	"github.com/kitworks/kitops-backend/pkg/logger"
)

// LowStockScanner periodically re-checks inventory against minimum stock
// levels. Stock moves raise alerts inline; the scanner catches drift from
// edits to minimum levels and manual database changes.
type LowStockScanner struct {
	service  *OperationsService
	interval time.Duration
	logger   *logger.Logger
	cancel   context.CancelFunc
}

// NewLowStockScanner creates a new low-stock scanner
func NewLowStockScanner(service *OperationsService, interval time.Duration, log *logger.Logger) *LowStockScanner {
	return &LowStockScanner{
		service:  service,
		interval: interval,
		logger:   log.WithComponent("low-stock-scanner"),
	}
}

// Start starts the scanner in a background goroutine
func (s *LowStockScanner) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		s.logger.Info().Dur("interval", s.interval).Msg("low stock scanner started")

		// Run an initial scan immediately
		s.runScan(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("low stock scanner stopped")
				return
			case <-ticker.C:
				s.runScan(ctx)
			}
		}
	}()
}

// Stop stops the scanner goroutine
func (s *LowStockScanner) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *LowStockScanner) runScan(ctx context.Context) {
	start := time.Now()

	items, err := s.service.ScanLowStock(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("low stock scan failed")
		return
	}

	s.logger.Debug().
		Int("low_stock_count", len(items)).
		Dur("duration", time.Since(start)).
		Msg("low stock scan complete")
}
