package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"CandlePulse/internal/model"
	"CandlePulse/internal/server"
)

// Scheduler triggers periodic pipeline refreshes. Each tick is its own
// isolated refresh; ticks never share state with user-triggered ones.
type Scheduler struct {
	Cron   *cron.Cron
	Server *server.Server
	Ctx    context.Context

	market string
	iv     model.Interval
	count  int
}

// NewScheduler creates a new Scheduler bound to the configured market.
func NewScheduler(ctx context.Context, srv *server.Server, market string, iv model.Interval, count int) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Server: srv,
		Ctx:    ctx,
		market: market,
		iv:     iv,
		count:  count,
	}
}

// Register adds the periodic refresh task. An empty spec disables it.
func (s *Scheduler) Register(refreshCron string) error {
	if refreshCron == "" {
		log.Println("[INFO] periodic refresh disabled")
		return nil
	}
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes one refresh immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	ctx, cancel := context.WithTimeout(s.Ctx, 30*time.Second)
	defer cancel()

	snap, err := s.Server.Refresh(ctx, s.market, s.iv, s.count)
	if err != nil {
		log.Printf("[ERROR] scheduled refresh: %v", err)
		return
	}
	log.Printf("[INFO] scheduled refresh: %s", server.FormatStatus(snap))
}
