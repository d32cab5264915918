package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/semmidev/arsip/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Infof(template string, args ...interface{}) {}
func (nopLogger) Warnf(template string, args ...interface{}) {}

func testRecord(id string, tier domain.Tier) domain.BackupRecord {
	return domain.BackupRecord{
		ID:        id,
		Tier:      tier,
		CreatedAt: time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC),
		Databases: map[string]domain.DatabaseFile{
			"primary": {Filename: id + "-primary.db", SizeBytes: 42, Checksum: "abc"},
		},
		CreatedBy: "system",
	}
}

func TestFileCatalog(t *testing.T) {
	Convey("Given a file catalog in a temp directory", t, func() {
		tempDir, err := os.MkdirTemp("", "catalog_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		path := filepath.Join(tempDir, "metadata.json")

		cat, err := NewFile(path, nopLogger{})
		So(err, ShouldBeNil)

		Convey("Get on an empty catalog returns not found", func() {
			_, err := cat.Get("daily-2024-06-01")
			So(err, ShouldEqual, domain.ErrNotFound)
		})

		Convey("AddOrReplace then Get round-trips the record", func() {
			record := testRecord("daily-2024-06-01", domain.TierDaily)
			So(cat.AddOrReplace(record), ShouldBeNil)

			got, err := cat.Get(record.ID)
			So(err, ShouldBeNil)
			So(got.Tier, ShouldEqual, domain.TierDaily)
			So(got.Databases["primary"].Checksum, ShouldEqual, "abc")

			Convey("And the record survives a reopen", func() {
				reopened, err := NewFile(path, nopLogger{})
				So(err, ShouldBeNil)

				got, err := reopened.Get(record.ID)
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, record.ID)
			})

			Convey("And AddOrReplace with the same id overwrites", func() {
				record.CreatedBy = "admin@example.com"
				So(cat.AddOrReplace(record), ShouldBeNil)

				got, err := cat.Get(record.ID)
				So(err, ShouldBeNil)
				So(got.CreatedBy, ShouldEqual, "admin@example.com")

				all, err := cat.ListAll()
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 1)
			})
		})

		Convey("Remove is idempotent", func() {
			record := testRecord("daily-2024-06-02", domain.TierDaily)
			So(cat.AddOrReplace(record), ShouldBeNil)

			So(cat.Remove(record.ID), ShouldBeNil)
			So(cat.Remove(record.ID), ShouldBeNil)

			_, err := cat.Get(record.ID)
			So(err, ShouldEqual, domain.ErrNotFound)
		})

		Convey("ListByTier filters", func() {
			So(cat.AddOrReplace(testRecord("daily-2024-06-01", domain.TierDaily)), ShouldBeNil)
			So(cat.AddOrReplace(testRecord("daily-2024-06-02", domain.TierDaily)), ShouldBeNil)
			So(cat.AddOrReplace(testRecord("weekly-2024-W22", domain.TierWeekly)), ShouldBeNil)

			daily, err := cat.ListByTier(domain.TierDaily)
			So(err, ShouldBeNil)
			So(daily, ShouldHaveLength, 2)

			monthly, err := cat.ListByTier(domain.TierMonthly)
			So(err, ShouldBeNil)
			So(monthly, ShouldBeEmpty)
		})

		Convey("A corrupt catalog file is treated as empty", func() {
			So(os.WriteFile(path, []byte("{not json"), 0644), ShouldBeNil)

			corrupt, err := NewFile(path, nopLogger{})
			So(err, ShouldBeNil)

			all, err := corrupt.ListAll()
			So(err, ShouldBeNil)
			So(all, ShouldBeEmpty)
		})
	})
}
