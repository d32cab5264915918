package domain

import (
	"fmt"
	"sync/atomic"
	"time"
)

var manualSeq atomic.Uint64

// BackupID produces the canonical identifier for a tier/instant pair.
// Daily, weekly and monthly ids are pure functions of the calendar unit the
// instant falls in, so a second backup attempt in the same unit reuses the
// same id and overwrites instead of duplicating. Manual ids carry a
// process-monotonic counter so rapid successive triggers never collide.
func BackupID(tier Tier, t time.Time) string {
	switch tier {
	case TierDaily:
		return fmt.Sprintf("daily-%s", t.Format("2006-01-02"))
	case TierWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("weekly-%d-W%02d", year, week)
	case TierMonthly:
		return fmt.Sprintf("monthly-%s", t.Format("2006-01"))
	default:
		return fmt.Sprintf("manual-%s-%d", t.Format("20060102-150405"), manualSeq.Add(1))
	}
}

// BackupFilename derives the stored filename for one database inside a
// backup. Ids never repeat across tiers and database names are unique within
// a record, so the pair is collision-free.
func BackupFilename(backupID, database string) string {
	return fmt.Sprintf("%s-%s.db", backupID, database)
}
