package workers

import (
	"context"
	"time"

	"footwork_backend/internal/logger"
	"footwork_backend/internal/repositories"

	"gorm.io/gorm"
)

// MembershipWorker runs the periodic expiry sweep: active memberships whose
// renewal date has passed are flipped to expired. The webhook path never
// expires anything, so this sweep is the only source of that transition.
type MembershipWorker struct {
	db             *gorm.DB
	membershipRepo repositories.MembershipRepository
	interval       time.Duration
}

func NewMembershipWorker(db *gorm.DB, membershipRepo repositories.MembershipRepository) *MembershipWorker {
	return &MembershipWorker{
		db:             db,
		membershipRepo: membershipRepo,
		interval:       6 * time.Hour,
	}
}

func (w *MembershipWorker) Start(ctx context.Context) {
	go w.sweepExpired(ctx)
}

func (w *MembershipWorker) sweepExpired(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("membership worker stopped")
			return
		case <-ticker.C:
			w.runSweep()
		}
	}
}

func (w *MembershipWorker) runSweep() {
	expired, err := w.membershipRepo.ExpireDue(w.db, time.Now())
	if err != nil {
		logger.WorkerLog("membership", "expire_sweep", err)
		return
	}
	if expired > 0 {
		logger.Info("memberships expired by sweep", "count", expired)
	}
}
