package omdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/httpx"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/adapters/omdb"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/ratings"
)

var _ ratings.Client = (*omdb.Client)(nil)

func newServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apikey") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Invalid API key!"}`))
			return
		}
		switch {
		case q.Get("i") == "tt0111161" && q.Get("plot") == "short":
			_, _ = w.Write([]byte(`{"Title":"The Shawshank Redemption","Year":"1994","imdbID":"tt0111161","imdbRating":"9.3",
				"Ratings":[{"Source":"Internet Movie Database","Value":"9.3/10"},{"Source":"Rotten Tomatoes","Value":"91%"}],"Response":"True"}`))
		case q.Get("t") == "Param Sundari" && q.Get("y") == "2021" && q.Get("type") == "movie":
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
		case q.Get("s") == "Param Sundari":
			_, _ = w.Write([]byte(`{"Search":[{"Title":"Param Sundari","Year":"2020","imdbID":"tt1","Type":"movie"},
				{"Title":"Param Sundari","Year":"2022","imdbID":"tt2","Type":"movie"},{"Title":"Broken","Year":"2020","imdbID":""}],"Response":"True"}`))
		case q.Get("s") != "":
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
}

func TestClient(t *testing.T) {
	Convey("Given a ratings client", t, func() {
		srv := newServer()
		defer srv.Close()
		ctx := context.Background()
		c := omdb.New("k", srv.URL+"/", httpx.New("omdb", httpx.WithRetry(0, 0)))

		Convey("When fetching by identifier", func() {
			rec, err := c.FetchByCrossRefID(ctx, "tt0111161")

			Convey("Then the record carries both scores", func() {
				So(err, ShouldBeNil)
				So(rec.Success, ShouldBeTrue)
				So(rec.NumericScore, ShouldEqual, "9.3")
				So(rec.MatchedCrossRefID, ShouldEqual, "tt0111161")
				So(len(rec.Sources), ShouldEqual, 2)
				So(rec.Sources[1].Value, ShouldEqual, "91%")
			})
		})

		Convey("When an exact title lookup finds nothing", func() {
			rec, err := c.FetchByTitleExact(ctx, "Param Sundari", "2021")

			Convey("Then it is an unsuccessful record, not an error", func() {
				So(err, ShouldBeNil)
				So(rec.Success, ShouldBeFalse)
			})
		})

		Convey("When searching", func() {
			hits, err := c.SearchByTitle(ctx, "Param Sundari")
			So(err, ShouldBeNil)
			So(len(hits), ShouldEqual, 2)
			So(hits[0].ID, ShouldEqual, "tt1")
			So(hits[1].Year, ShouldEqual, "2022")

			none, err := c.SearchByTitle(ctx, "zzzz")
			So(err, ShouldBeNil)
			So(none, ShouldBeEmpty)
		})

		Convey("When the key is wrong", func() {
			bad := omdb.New("nope", srv.URL, httpx.New("omdb", httpx.WithRetry(0, 0)))
			_, err := bad.FetchByCrossRefID(ctx, "tt0111161")
			So(httpx.StatusOf(err), ShouldEqual, http.StatusUnauthorized)
		})

		Convey("When no key is configured", func() {
			_, err := omdb.New("", srv.URL, nil).SearchByTitle(ctx, "x")
			So(errors.Is(err, omdb.ErrNoKey), ShouldBeTrue)
		})
	})
}
