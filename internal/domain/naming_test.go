package domain

import (
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBackupID(t *testing.T) {
	Convey("Given a fixed instant", t, func() {
		// 2024-06-01 is a Saturday in ISO week 22.
		instant := time.Date(2024, 6, 1, 14, 30, 45, 0, time.UTC)

		Convey("Daily ids are date-based", func() {
			So(BackupID(TierDaily, instant), ShouldEqual, "daily-2024-06-01")
		})

		Convey("Weekly ids are ISO-week-based", func() {
			So(BackupID(TierWeekly, instant), ShouldEqual, "weekly-2024-W22")
		})

		Convey("Monthly ids are year-month-based", func() {
			So(BackupID(TierMonthly, instant), ShouldEqual, "monthly-2024-06")
		})

		Convey("Two instants in the same calendar unit yield the same id", func() {
			later := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
			So(BackupID(TierDaily, later), ShouldEqual, BackupID(TierDaily, instant))
			So(BackupID(TierWeekly, later), ShouldEqual, BackupID(TierWeekly, instant))
			So(BackupID(TierMonthly, later), ShouldEqual, BackupID(TierMonthly, instant))
		})

		Convey("An ISO week spanning a year boundary uses the ISO year", func() {
			// 2024-12-30 falls in ISO week 1 of 2025.
			newYearsWeek := time.Date(2024, 12, 30, 8, 0, 0, 0, time.UTC)
			So(BackupID(TierWeekly, newYearsWeek), ShouldEqual, "weekly-2025-W01")
		})

		Convey("Manual ids never collide, even in the same second", func() {
			first := BackupID(TierManual, instant)
			second := BackupID(TierManual, instant)

			So(first, ShouldStartWith, "manual-20240601-143045-")
			So(second, ShouldNotEqual, first)
		})
	})
}

func TestBackupFilename(t *testing.T) {
	Convey("Filenames combine id and database name", t, func() {
		name := BackupFilename("daily-2024-06-01", "primary")
		So(name, ShouldEqual, "daily-2024-06-01-primary.db")

		Convey("Distinct databases never collide", func() {
			other := BackupFilename("daily-2024-06-01", "auth")
			So(other, ShouldNotEqual, name)
		})
	})
}

func TestParseTier(t *testing.T) {
	Convey("ParseTier accepts the four tiers and rejects everything else", t, func() {
		for _, tier := range AllTiers {
			parsed, ok := ParseTier(tier.String())
			So(ok, ShouldBeTrue)
			So(parsed, ShouldEqual, tier)
		}

		_, ok := ParseTier("hourly")
		So(ok, ShouldBeFalse)

		_, ok = ParseTier(strings.ToUpper("daily"))
		So(ok, ShouldBeFalse)
	})
}
