package persistence

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOpenGorm(t *testing.T) {
	Convey("Given a sqlite path in a directory that does not exist yet", t, func() {
		path := filepath.Join(t.TempDir(), "nested", "data", "flights.db")

		db, err := OpenGorm("sqlite", path)
		So(err, ShouldBeNil)
		defer CloseGorm(db)

		Convey("The directory is created and the database is usable", func() {
			_, statErr := os.Stat(filepath.Dir(path))
			So(statErr, ShouldBeNil)

			var one int
			So(db.Raw("SELECT 1").Scan(&one).Error, ShouldBeNil)
			So(one, ShouldEqual, 1)
		})
	})

	Convey("An unknown driver is rejected", t, func() {
		_, err := OpenGorm("oracle", "whatever")
		So(err, ShouldNotBeNil)
	})
}
