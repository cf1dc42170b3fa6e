package types_test

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"
	types "github.com/sureshchouksey8/MOVIERATINGS/internal/domain/types"
)

func TestSearchResponse(t *testing.T) {
	Convey("Given a search response", t, func() {
		Convey("When it has no results", func() {
			b, err := json.Marshal(types.SearchResponse{Results: []model.SearchResult{}})

			Convey("Then results encode as an empty array, not null", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `{"results":[]}`)
			})
		})

		Convey("When a result has no poster", func() {
			b, err := json.Marshal(types.SearchResponse{Results: []model.SearchResult{{CatalogID: 278, Title: "Heat", Year: "—"}}})

			Convey("Then the poster is null and the id uses the catalog key", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldContainSubstring, `"tmdbId":278`)
				So(string(b), ShouldContainSubstring, `"poster":null`)
			})
		})
	})
}

func TestErrorResponse(t *testing.T) {
	Convey("Given an error body from the wire", t, func() {
		var got types.ErrorResponse
		err := json.Unmarshal([]byte(`{"code":"rate_limited","message":"api.search: rate limit exceeded"}`), &got)

		Convey("Then code and message decode", func() {
			So(err, ShouldBeNil)
			So(got.Code, ShouldEqual, "rate_limited")
			So(got.Message, ShouldContainSubstring, "rate limit")
		})
	})
}
