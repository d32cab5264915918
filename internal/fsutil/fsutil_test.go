package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCopyFile(t *testing.T) {
	Convey("Given a source file", t, func() {
		tempDir, err := os.MkdirTemp("", "fsutil_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		source := filepath.Join(tempDir, "source.db")
		So(os.WriteFile(source, []byte("attendance data"), 0644), ShouldBeNil)

		Convey("When copying to a valid destination", func() {
			dest := filepath.Join(tempDir, "dest.db")
			err := CopyFile(source, dest)

			Convey("The destination should be byte-identical", func() {
				So(err, ShouldBeNil)

				data, err := os.ReadFile(dest)
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "attendance data")
			})
		})

		Convey("When the source does not exist", func() {
			err := CopyFile(filepath.Join(tempDir, "missing.db"), filepath.Join(tempDir, "dest.db"))

			Convey("It should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the destination directory does not exist", func() {
			err := CopyFile(source, filepath.Join(tempDir, "no", "such", "dir", "dest.db"))

			Convey("It should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestChecksum(t *testing.T) {
	Convey("Given a file with known contents", t, func() {
		tempDir, err := os.MkdirTemp("", "fsutil_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		path := filepath.Join(tempDir, "data.db")
		So(os.WriteFile(path, []byte("hello backups"), 0644), ShouldBeNil)

		Convey("Hashing the same bytes twice yields the same digest", func() {
			first, err := Checksum(path)
			So(err, ShouldBeNil)

			second, err := Checksum(path)
			So(err, ShouldBeNil)

			So(first, ShouldEqual, second)
			So(first, ShouldHaveLength, 64)
		})

		Convey("Corrupting one byte changes the digest", func() {
			before, err := Checksum(path)
			So(err, ShouldBeNil)

			So(os.WriteFile(path, []byte("hello backupz"), 0644), ShouldBeNil)

			after, err := Checksum(path)
			So(err, ShouldBeNil)
			So(after, ShouldNotEqual, before)
		})

		Convey("Hashing a missing file fails", func() {
			_, err := Checksum(filepath.Join(tempDir, "missing.db"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestExistsAndSize(t *testing.T) {
	Convey("Given files and directories", t, func() {
		tempDir, err := os.MkdirTemp("", "fsutil_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		path := filepath.Join(tempDir, "present.db")
		So(os.WriteFile(path, []byte("12345"), 0644), ShouldBeNil)

		Convey("Exists is true for a regular file", func() {
			So(Exists(path), ShouldBeTrue)
		})

		Convey("Exists is false for a missing path", func() {
			So(Exists(filepath.Join(tempDir, "gone.db")), ShouldBeFalse)
		})

		Convey("Exists is false for a directory", func() {
			So(Exists(tempDir), ShouldBeFalse)
		})

		Convey("Size reports the byte count", func() {
			size, err := Size(path)
			So(err, ShouldBeNil)
			So(size, ShouldEqual, 5)
		})
	})
}

func TestEnsureDir(t *testing.T) {
	Convey("Given a nested path", t, func() {
		tempDir, err := os.MkdirTemp("", "fsutil_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		nested := filepath.Join(tempDir, "a", "b", "c")

		Convey("EnsureDir creates it", func() {
			So(EnsureDir(nested), ShouldBeNil)

			info, err := os.Stat(nested)
			So(err, ShouldBeNil)
			So(info.IsDir(), ShouldBeTrue)

			Convey("And calling it again is not an error", func() {
				So(EnsureDir(nested), ShouldBeNil)
			})
		})
	})
}
