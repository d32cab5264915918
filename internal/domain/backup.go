package domain

import (
	"time"
)

// Tier is the retention bucket a backup belongs to. Each tier maps to a
// subdirectory of the backup root and has its own retention policy.
type Tier string

const (
	TierDaily   Tier = "daily"
	TierWeekly  Tier = "weekly"
	TierMonthly Tier = "monthly"
	TierManual  Tier = "manual"
)

// AllTiers lists every tier in promotion order (manual last, it never rotates).
var AllTiers = []Tier{TierDaily, TierWeekly, TierMonthly, TierManual}

func (t Tier) Valid() bool {
	switch t {
	case TierDaily, TierWeekly, TierMonthly, TierManual:
		return true
	}
	return false
}

func (t Tier) String() string {
	return string(t)
}

// ParseTier converts a config/CLI string into a Tier.
func ParseTier(s string) (Tier, bool) {
	t := Tier(s)
	return t, t.Valid()
}

// DatabaseFile describes one tracked database's stored copy inside a backup.
type DatabaseFile struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

// BackupRecord is one durable snapshot event: every tracked database copied
// as a unit. Records are immutable; tier promotion is modeled as delete-old
// plus create-new, never an in-place mutation.
type BackupRecord struct {
	ID           string                  `json:"id"`
	Tier         Tier                    `json:"tier"`
	CreatedAt    time.Time               `json:"created_at"`
	Databases    map[string]DatabaseFile `json:"databases"`
	PromotedFrom string                  `json:"promoted_from,omitempty"`
	CreatedBy    string                  `json:"created_by"`
}

// TotalSize sums the stored sizes of every database in the record.
func (r *BackupRecord) TotalSize() int64 {
	var total int64
	for _, db := range r.Databases {
		total += db.SizeBytes
	}
	return total
}

// BackupListItem is a record plus its aggregate size, the shape list
// consumers want.
type BackupListItem struct {
	BackupRecord
	TotalSizeBytes int64 `json:"total_size_bytes"`
}

// Promotion records one successful tier move during rotation.
type Promotion struct {
	ID    string `json:"id"`
	From  Tier   `json:"from"`
	To    Tier   `json:"to"`
	NewID string `json:"new_id"`
}

// RotationSummary reports everything a rotation pass did. Per-item failures
// land in Errors; rotation itself never fails as a whole.
type RotationSummary struct {
	Promoted []Promotion `json:"promoted"`
	Deleted  []string    `json:"deleted"`
	Errors   []string    `json:"errors"`
}

// DatabaseCheck is the verification outcome for a single database file.
// A missing file reports Actual == "" rather than an error.
type DatabaseCheck struct {
	Valid    bool   `json:"valid"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// VerificationResult aggregates per-database checksum checks.
type VerificationResult struct {
	Valid     bool                     `json:"valid"`
	Databases map[string]DatabaseCheck `json:"databases"`
}

// StorageUsage summarizes catalog-visible disk consumption.
type StorageUsage struct {
	TotalBytes  int64          `json:"total_bytes"`
	ByTier      map[Tier]int64 `json:"by_tier"`
	CountByTier map[Tier]int   `json:"count_by_tier"`
}
