package config_test

import (
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.TMDBBaseURL, convey.ShouldEqual, "https://api.themoviedb.org/3")
			convey.So(cfg.OMDbBaseURL, convey.ShouldEqual, "https://www.omdbapi.com/")
			convey.So(cfg.SearchLimit, convey.ShouldEqual, 10)
			convey.So(cfg.CacheSize, convey.ShouldEqual, 500)
			convey.So(cfg.RateLimitPerMinute, convey.ShouldEqual, 120)
			convey.So(cfg.ScrapeFallback, convey.ShouldBeTrue)
			convey.So(cfg.PrefetchTopN, convey.ShouldEqual, 0)
			convey.So(cfg.ImageProxyHosts, convey.ShouldContain, "image.tmdb.org")
		})

		convey.Convey("Then duration helpers convert units", func() {
			convey.So(cfg.UpstreamTimeout(), convey.ShouldEqual, 8*time.Second)
			convey.So(cfg.DetailsTimeout(), convey.ShouldEqual, 20*time.Second)
			convey.So(cfg.SearchCacheTTL(), convey.ShouldEqual, 5*time.Minute)
			convey.So(cfg.DetailsCacheTTL(), convey.ShouldEqual, time.Hour)
		})

		convey.Convey("Then defaults validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
