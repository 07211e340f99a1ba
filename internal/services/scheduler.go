package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reindexer reconstruit l'index de recherche.
type Reindexer interface {
	ReindexProducts(ctx context.Context) (int, error)
}

// ReindexScheduler lance la réindexation des produits selon une expression cron
// ("@every 1h", "0 3 * * *"...).
type ReindexScheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

func NewReindexScheduler(schedule string, r Reindexer, timeout time.Duration) (*ReindexScheduler, error) {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	s := &ReindexScheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: timeout,
	}
	_, err := s.cron.AddFunc(schedule, func() { s.run(r) })
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ReindexScheduler) run(r Reindexer) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	n, err := r.ReindexProducts(ctx)
	if err != nil {
		zap.S().Errorw("❌ Réindexation planifiée échouée", "error", err)
		return
	}
	zap.S().Infow("⏰ Réindexation planifiée terminée", "count", n)
}

func (s *ReindexScheduler) Start() {
	s.cron.Start()
}

// Stop arrête le planificateur et attend la fin d'une réindexation en cours.
func (s *ReindexScheduler) Stop() {
	<-s.cron.Stop().Done()
}
