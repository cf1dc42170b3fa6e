package ratings_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/ratings"
)

var errUpstream = errors.New("upstream unavailable")

type fakeClient struct {
	mu     sync.Mutex
	byID   map[string]model.RatingRecord
	exact  map[string]model.RatingRecord
	search map[string][]model.SearchHit
	fail   bool
	calls  []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		byID:   map[string]model.RatingRecord{},
		exact:  map[string]model.RatingRecord{},
		search: map[string][]model.SearchHit{},
	}
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeClient) FetchByCrossRefID(_ context.Context, id string) (model.RatingRecord, error) {
	f.record("id:" + id)
	if f.fail {
		return model.RatingRecord{}, errUpstream
	}
	return f.byID[id], nil
}

func (f *fakeClient) FetchByTitleExact(_ context.Context, title, year string) (model.RatingRecord, error) {
	f.record("exact:" + title + "|" + year)
	if f.fail {
		return model.RatingRecord{}, errUpstream
	}
	return f.exact[title+"|"+year], nil
}

func (f *fakeClient) SearchByTitle(_ context.Context, title string) ([]model.SearchHit, error) {
	f.record("search:" + title)
	if f.fail {
		return nil, errUpstream
	}
	return f.search[title], nil
}

func (f *fakeClient) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

type fakeScrape struct {
	value string
	ok    bool
	calls int
}

func (s *fakeScrape) FetchNumericScore(_ context.Context, _ string) (string, bool) {
	s.calls++
	return s.value, s.ok
}

func deref(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func TestResolveByCrossRef(t *testing.T) {
	Convey("Given a catalog record with a known identifier", t, func() {
		client := newFakeClient()
		scrape := &fakeScrape{}
		r := ratings.NewResolver(client, ratings.WithScrapeFallback(scrape))
		rec := model.CatalogRecord{CatalogID: 278, CrossRefID: "tt0111161", PrimaryTitle: "The Shawshank Redemption", ReleaseYear: "1994"}

		Convey("When the provider has both scores", func() {
			client.byID["tt0111161"] = model.RatingRecord{
				Success:      true,
				NumericScore: "9.3",
				Sources: []model.SourceRating{
					{Source: "Internet Movie Database", Value: "9.3/10"},
					{Source: "Rotten Tomatoes", Value: "91%"},
				},
			}

			got := r.Resolve(context.Background(), rec)

			Convey("Then the first tier answers everything", func() {
				So(deref(got.NumericScore), ShouldEqual, "9.3/10")
				So(deref(got.PercentScore), ShouldEqual, "91%")
				So(deref(got.ResolvedCrossRefID), ShouldEqual, "tt0111161")
				So(scrape.calls, ShouldEqual, 0)
				So(client.count("exact:"), ShouldEqual, 0)
				So(client.count("search:"), ShouldEqual, 0)
			})
		})

		Convey("When the dedicated field is N/A but the mapping list has a score", func() {
			client.byID["tt0111161"] = model.RatingRecord{
				Success:      true,
				NumericScore: "N/A",
				Sources:      []model.SourceRating{{Source: "Internet Movie Database", Value: "8.1/10"}},
			}

			got := r.Resolve(context.Background(), rec)

			Convey("Then the raw mapping-list value is kept and the scrape is skipped", func() {
				So(deref(got.NumericScore), ShouldEqual, "8.1/10")
				So(got.PercentScore, ShouldBeNil)
				So(scrape.calls, ShouldEqual, 0)
				So(client.count("exact:"), ShouldEqual, 0)
			})
		})

		Convey("When only the percentage is known and the scrape finds the score", func() {
			client.byID["tt0111161"] = model.RatingRecord{
				Success: true,
				Sources: []model.SourceRating{{Source: "Rotten Tomatoes", Value: "88%"}},
			}
			scrape.value, scrape.ok = "8.7", true

			got := r.Resolve(context.Background(), rec)

			Convey("Then the scrape fills the numeric score", func() {
				So(deref(got.NumericScore), ShouldEqual, "8.7/10")
				So(deref(got.PercentScore), ShouldEqual, "88%")
				So(scrape.calls, ShouldEqual, 1)
			})
		})

		Convey("When the provider fails and the scrape returns 7.8", func() {
			client.fail = true
			scrape.value, scrape.ok = "7.8", true

			got := r.Resolve(context.Background(), rec)

			Convey("Then only the numeric score is resolved", func() {
				So(deref(got.NumericScore), ShouldEqual, "7.8/10")
				So(got.PercentScore, ShouldBeNil)
				So(deref(got.ResolvedCrossRefID), ShouldEqual, "tt0111161")
				So(client.count("exact:"), ShouldEqual, 0)
				So(client.count("search:"), ShouldEqual, 0)
			})
		})

		Convey("When the first two tiers find nothing", func() {
			client.byID["tt0111161"] = model.RatingRecord{Success: false}
			client.exact["The Shawshank Redemption|1994"] = model.RatingRecord{
				Success:           true,
				NumericScore:      "9.2",
				MatchedCrossRefID: "tt9999999",
				Sources:           []model.SourceRating{{Source: "Rotten Tomatoes", Value: "90%"}},
			}

			got := r.Resolve(context.Background(), rec)

			Convey("Then title matching fills the scores but not the identifier", func() {
				So(scrape.calls, ShouldEqual, 1)
				So(deref(got.NumericScore), ShouldEqual, "9.2/10")
				So(deref(got.PercentScore), ShouldEqual, "90%")
				So(deref(got.ResolvedCrossRefID), ShouldEqual, "tt0111161")
			})
		})
	})
}

func TestResolveByTitle(t *testing.T) {
	Convey("Given a catalog record without an identifier", t, func() {
		client := newFakeClient()
		scrape := &fakeScrape{value: "1.0", ok: true}
		r := ratings.NewResolver(client, ratings.WithScrapeFallback(scrape))

		Convey("When two search hits are equally far from the release year", func() {
			rec := model.CatalogRecord{CatalogID: 1, PrimaryTitle: "Param Sundari", ReleaseYear: "2021"}
			client.search["Param Sundari"] = []model.SearchHit{
				{ID: "tt1000001", Year: "2020"},
				{ID: "tt1000002", Year: "2022"},
			}
			client.byID["tt1000001"] = model.RatingRecord{
				Success:      true,
				NumericScore: "6.1",
			}
			client.byID["tt1000002"] = model.RatingRecord{Success: true, NumericScore: "4.0"}

			got := r.Resolve(context.Background(), rec)

			Convey("Then the earlier hit is chosen after every exact lookup failed", func() {
				So(client.count("exact:"), ShouldEqual, 2) // "Param Sundari" and "param sundari"
				So(client.count("id:tt1000001"), ShouldEqual, 1)
				So(client.count("id:tt1000002"), ShouldEqual, 0)
				So(deref(got.NumericScore), ShouldEqual, "6.1/10")
				So(deref(got.ResolvedCrossRefID), ShouldEqual, "tt1000001")
				So(scrape.calls, ShouldEqual, 0)
			})
		})

		Convey("When an exact lookup succeeds for a later candidate", func() {
			rec := model.CatalogRecord{CatalogID: 2, PrimaryTitle: "Pathaan", AlternateTitle: "पठान", ReleaseYear: "2023"}
			client.exact["पठान|2023"] = model.RatingRecord{
				Success:           true,
				NumericScore:      "5.9",
				MatchedCrossRefID: "tt12844910",
				Sources:           []model.SourceRating{{Source: "Rotten Tomatoes", Value: "86%"}},
			}

			got := r.Resolve(context.Background(), rec)

			Convey("Then search is never used and the identifier is adopted", func() {
				So(client.count("search:"), ShouldEqual, 0)
				So(deref(got.NumericScore), ShouldEqual, "5.9/10")
				So(deref(got.PercentScore), ShouldEqual, "86%")
				So(deref(got.ResolvedCrossRefID), ShouldEqual, "tt12844910")
			})
		})

		Convey("When the accepted search record lacks its own identifier", func() {
			rec := model.CatalogRecord{CatalogID: 3, PrimaryTitle: "Dangal"}
			client.search["Dangal"] = []model.SearchHit{{ID: "tt5074352", Year: "2016"}}
			client.byID["tt5074352"] = model.RatingRecord{Success: true, NumericScore: "8.3"}

			got := r.Resolve(context.Background(), rec)

			Convey("Then the hit identifier is used", func() {
				So(deref(got.ResolvedCrossRefID), ShouldEqual, "tt5074352")
			})
		})

		Convey("When every collaborator fails", func() {
			client.fail = true
			rec := model.CatalogRecord{CatalogID: 4, PrimaryTitle: "Nothing Found", Tagline: "Still nothing"}

			got := r.Resolve(context.Background(), rec)

			Convey("Then everything stays unresolved without panicking", func() {
				So(got.NumericScore, ShouldBeNil)
				So(got.PercentScore, ShouldBeNil)
				So(got.ResolvedCrossRefID, ShouldBeNil)
				So(scrape.calls, ShouldEqual, 0)
				So(client.count("exact:"), ShouldBeGreaterThan, 0)
				So(client.count("search:"), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			got := r.Resolve(ctx, model.CatalogRecord{PrimaryTitle: "Sholay"})

			Convey("Then no title lookups are attempted", func() {
				So(client.count(""), ShouldEqual, 0)
				So(got.NumericScore, ShouldBeNil)
			})
		})
	})
}

func TestResolveWithoutClient(t *testing.T) {
	Convey("Given a resolver without a ratings client", t, func() {
		scrape := &fakeScrape{value: "7.0", ok: true}
		r := ratings.NewResolver(nil, ratings.WithScrapeFallback(scrape), ratings.WithLogger(nil))

		Convey("When the identifier is known", func() {
			got := r.Resolve(context.Background(), model.CatalogRecord{CrossRefID: "tt0000001", PrimaryTitle: "Film"})

			Convey("Then only the scrape contributes", func() {
				So(deref(got.NumericScore), ShouldEqual, "7.0/10")
				So(got.PercentScore, ShouldBeNil)
			})
		})

		Convey("When nothing identifies the movie", func() {
			got := r.Resolve(context.Background(), model.CatalogRecord{PrimaryTitle: "Film"})
			So(got.NumericScore, ShouldBeNil)
			So(scrape.calls, ShouldEqual, 0)
		})
	})
}

func TestResolveIsMonotonic(t *testing.T) {
	Convey("Given tiers that disagree", t, func() {
		client := newFakeClient()
		client.byID["tt1"] = model.RatingRecord{
			Success: true,
			Sources: []model.SourceRating{{Source: "Rotten Tomatoes", Value: "50%"}},
		}
		client.exact["Film|2000"] = model.RatingRecord{
			Success:      true,
			NumericScore: "9.9",
			Sources:      []model.SourceRating{{Source: "Rotten Tomatoes", Value: "99%"}},
		}
		r := ratings.NewResolver(client, ratings.WithScrapeFallback(&fakeScrape{}))

		got := r.Resolve(context.Background(), model.CatalogRecord{CrossRefID: "tt1", PrimaryTitle: "Film", ReleaseYear: "2000"})

		Convey("Then a later tier never replaces an earlier value", func() {
			So(deref(got.PercentScore), ShouldEqual, "50%")
			So(got.NumericScore, ShouldBeNil) // percent was known, so title matching did not run
			So(client.count("exact:"), ShouldEqual, 0)
		})
	})
}

func TestClosestHit(t *testing.T) {
	Convey("Given search hits", t, func() {
		hits := []model.SearchHit{
			{ID: "a", Year: "N/A"},
			{ID: "b", Year: "2019–2021"},
			{ID: "c", Year: "2015"},
		}

		Convey("When a target year is known", func() {
			So(ratings.ClosestHit(hits, "2018").ID, ShouldEqual, "b")
			So(ratings.ClosestHit(hits, "2014").ID, ShouldEqual, "c")
		})

		Convey("When the target year is missing", func() {
			So(ratings.ClosestHit(hits, "").ID, ShouldEqual, "a")
		})

		Convey("When no hit has a readable year", func() {
			So(ratings.ClosestHit([]model.SearchHit{{ID: "x"}, {ID: "y"}}, "2000").ID, ShouldEqual, "x")
		})
	})
}

func TestSourceValue(t *testing.T) {
	Convey("Given a mapping list", t, func() {
		sources := []model.SourceRating{
			{Source: "Internet Movie Database", Value: "7.4/10"},
			{Source: "Rotten Tomatoes", Value: "83%"},
			{Source: "Metacritic", Value: "70/100"},
		}

		So(func() { ratings.SourceValue(nil, "rotten") }, ShouldNotPanic)
		v, ok := ratings.SourceValue(sources, "ROTTEN")
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, "83%")
		v, ok = ratings.SourceValue(sources, ratings.NumericSource)
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, "7.4/10")
		_, ok = ratings.SourceValue(sources, "letterboxd")
		So(ok, ShouldBeFalse)
	})
}
