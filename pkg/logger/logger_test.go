package logger

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	Convey("Given textual log levels", t, func() {
		So(parseLevel("debug"), ShouldEqual, zapcore.DebugLevel)
		So(parseLevel(" WARNING "), ShouldEqual, zapcore.WarnLevel)
		So(parseLevel("error"), ShouldEqual, zapcore.ErrorLevel)

		Convey("Unknown or empty levels fall back to info", func() {
			So(parseLevel(""), ShouldEqual, zapcore.InfoLevel)
			So(parseLevel("verbose"), ShouldEqual, zapcore.InfoLevel)
		})
	})
}

func TestWith(t *testing.T) {
	Convey("With returns a derived logger", t, func() {
		l := NewNopLogger()
		child := l.With("runId", "abc")
		So(child, ShouldNotBeNil)
		So(func() { child.Info("hello", "k", 1) }, ShouldNotPanic)
	})
}
