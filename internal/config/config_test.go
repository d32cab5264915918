package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const validYAML = `
app:
  name: arsip
  log_level: debug

databases:
  - name: primary
    path: /var/lib/presensi/primary.db
  - name: auth
    path: /var/lib/presensi/auth.db

backup:
  directory: /var/lib/presensi/backups
  retain_daily: 7
  retain_weekly: 4
  retain_monthly: 12
`

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	Convey("Given a config file", t, func() {
		tempDir, err := os.MkdirTemp("", "config_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		Convey("When it is valid", func() {
			cfg, err := Load(writeConfig(t, tempDir, validYAML))

			Convey("It should load with defaults applied", func() {
				So(err, ShouldBeNil)
				So(cfg.App.Name, ShouldEqual, "arsip")
				So(cfg.Backup.Enabled, ShouldBeTrue)
				So(cfg.Backup.ScheduleHour, ShouldEqual, 2)
				So(cfg.Backup.CatalogBackend, ShouldEqual, "file")
				So(cfg.Backup.RetainDaily, ShouldEqual, 7)

				tracked := cfg.TrackedDatabases()
				So(tracked, ShouldHaveLength, 2)
				So(tracked["auth"], ShouldEqual, "/var/lib/presensi/auth.db")
			})
		})

		Convey("When no databases are configured", func() {
			_, err := Load(writeConfig(t, tempDir, `
backup:
  directory: /tmp/backups
`))

			Convey("It should be rejected", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "tracked database")
			})
		})

		Convey("When database names repeat", func() {
			_, err := Load(writeConfig(t, tempDir, `
databases:
  - name: primary
    path: /a.db
  - name: primary
    path: /b.db
backup:
  directory: /tmp/backups
`))

			Convey("It should be rejected", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "duplicate")
			})
		})

		Convey("When the catalog backend is unknown", func() {
			_, err := Load(writeConfig(t, tempDir, `
databases:
  - name: primary
    path: /a.db
backup:
  directory: /tmp/backups
  catalog_backend: sqlite
`))

			Convey("It should be rejected", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "catalog_backend")
			})
		})

		Convey("When the schedule is out of range", func() {
			_, err := Load(writeConfig(t, tempDir, `
databases:
  - name: primary
    path: /a.db
backup:
  directory: /tmp/backups
  schedule_hour: 24
`))

			Convey("It should be rejected", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "schedule_hour")
			})
		})
	})
}
