package catalog

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/semmidev/arsip/internal/domain"
)

func TestBadgerCatalog(t *testing.T) {
	Convey("Given a badger catalog in a temp directory", t, func() {
		tempDir, err := os.MkdirTemp("", "badger_catalog_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		cat, err := NewBadger(tempDir)
		So(err, ShouldBeNil)
		defer cat.Close()

		Convey("Get on an empty catalog returns not found", func() {
			_, err := cat.Get("daily-2024-06-01")
			So(err, ShouldEqual, domain.ErrNotFound)
		})

		Convey("AddOrReplace, Get, ListAll and Remove behave like the file backend", func() {
			So(cat.AddOrReplace(testRecord("daily-2024-06-01", domain.TierDaily)), ShouldBeNil)
			So(cat.AddOrReplace(testRecord("weekly-2024-W22", domain.TierWeekly)), ShouldBeNil)

			got, err := cat.Get("daily-2024-06-01")
			So(err, ShouldBeNil)
			So(got.Databases["primary"].SizeBytes, ShouldEqual, 42)

			all, err := cat.ListAll()
			So(err, ShouldBeNil)
			So(all, ShouldHaveLength, 2)

			weekly, err := cat.ListByTier(domain.TierWeekly)
			So(err, ShouldBeNil)
			So(weekly, ShouldHaveLength, 1)
			So(weekly[0].ID, ShouldEqual, "weekly-2024-W22")

			So(cat.Remove("daily-2024-06-01"), ShouldBeNil)
			So(cat.Remove("daily-2024-06-01"), ShouldBeNil)

			_, err = cat.Get("daily-2024-06-01")
			So(err, ShouldEqual, domain.ErrNotFound)
		})
	})
}
