package utils

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompressJSON(t *testing.T) {
	Convey("Given a pretty printed JSON document", t, func() {
		raw := []byte("{\n  \"total\": 0,\n  \"fares\": []\n}")

		compressed, err := CompressJSON(raw)
		So(err, ShouldBeNil)

		Convey("Decompressing yields the compact form", func() {
			out, err := DecompressJSON(compressed)
			So(err, ShouldBeNil)
			So(string(out), ShouldEqual, `{"total":0,"fares":[]}`)
		})
	})

	Convey("Invalid JSON is rejected", t, func() {
		_, err := CompressJSON([]byte("{not json"))
		So(err, ShouldNotBeNil)
	})

	Convey("Garbage is not a gzip payload", t, func() {
		_, err := DecompressJSON([]byte("plain"))
		So(err, ShouldNotBeNil)
	})
}

func TestHashJSON(t *testing.T) {
	Convey("Given a payload", t, func() {
		payload := []byte(`{"total": 1, "fares": [{"outbound": {"price": {"value": 45.99}}}]}`)

		h1, err := HashJSON(payload, "2026-03-20T10:00:00.000000")
		So(err, ShouldBeNil)
		So(len(h1), ShouldEqual, 64)

		Convey("The same payload and timestamp hash identically", func() {
			h2, err := HashJSON(payload, "2026-03-20T10:00:00.000000")
			So(err, ShouldBeNil)
			So(h2, ShouldEqual, h1)
		})

		Convey("Key order and whitespace do not matter", func() {
			reordered := []byte(`{"fares":[{"outbound":{"price":{"value":45.99}}}],"total":1}`)
			h2, err := HashJSON(reordered, "2026-03-20T10:00:00.000000")
			So(err, ShouldBeNil)
			So(h2, ShouldEqual, h1)
		})

		Convey("A different timestamp changes the hash", func() {
			h2, err := HashJSON(payload, "2026-03-20T10:00:00.000001")
			So(err, ShouldBeNil)
			So(h2, ShouldNotEqual, h1)
		})
	})
}
