package roles

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"astegni_backend/internal/models"
)

// Reaper permanently deletes profile rows whose grace period has
// elapsed, together with the rows they own (campaigns) and the rows
// that reference them (connections, sessions). Deletion here is
// physical; after a sweep the profile data is unrecoverable.
type Reaper struct {
	db       *gorm.DB
	interval time.Duration
	now      func() time.Time
}

func NewReaper(db *gorm.DB, interval time.Duration) *Reaper {
	return &Reaper{db: db, interval: interval, now: time.Now}
}

// Run sweeps on a ticker until the context is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.Sweep()
			if err != nil {
				logrus.WithError(err).Error("reaper sweep failed")
			} else if n > 0 {
				logrus.WithField("profiles", n).Info("reaper removed expired profiles")
			}
		}
	}
}

// Sweep runs one pass over every role table and returns how many
// profile rows it removed.
func (r *Reaper) Sweep() (int, error) {
	deadline := r.now()
	total := 0
	for _, kind := range Kinds() {
		n, err := r.sweepKind(kind, deadline)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (r *Reaper) sweepKind(kind Kind, deadline time.Time) (int, error) {
	e := registry[kind]
	var removed int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var rows []profileRow
		err := tx.Table(e.table).
			Where("scheduled_deletion_at IS NOT NULL AND scheduled_deletion_at <= ?", deadline).
			Find(&rows).Error
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		ids := make([]uint, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}

		if err := r.cascade(tx, kind, ids); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM "+e.table+" WHERE id IN ?", ids).Error; err != nil {
			return err
		}
		removed = len(ids)
		return nil
	})
	return removed, err
}

// cascade removes the role-owned data before the profile rows go, so
// no orphaned references survive the sweep.
func (r *Reaper) cascade(tx *gorm.DB, kind Kind, ids []uint) error {
	err := tx.Unscoped().
		Where("(requester_role = ? AND requester_id IN ?) OR (target_role = ? AND target_id IN ?)",
			string(kind), ids, string(kind), ids).
		Delete(&models.Connection{}).Error
	if err != nil {
		return err
	}

	switch kind {
	case Tutor:
		err = tx.Unscoped().Where("tutor_profile_id IN ?", ids).Delete(&models.Session{}).Error
	case Student:
		err = tx.Unscoped().Where("student_profile_id IN ?", ids).Delete(&models.Session{}).Error
	case Advertiser:
		err = tx.Unscoped().Where("advertiser_profile_id IN ?", ids).Delete(&models.Campaign{}).Error
	}
	return err
}
