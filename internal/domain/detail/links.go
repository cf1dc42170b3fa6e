package detail

import (
	"net/url"
	"strings"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/trailer"
)

// Default link roots.
const (
	DefaultImageBaseURL  = "https://image.tmdb.org/t/p"
	DefaultTitleBaseURL  = "https://www.imdb.com/title/"
	DefaultReviewBaseURL = "https://www.rottentomatoes.com/search?search="

	PosterSize      = "w500"
	SearchThumbSize = "w342"
)

// ImageURL joins an image CDN root, a size bucket and a poster path. It
// returns "" when path is empty.
func ImageURL(base, size, path string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + "/" + size + path
}

// TitleURL is the public title page for a ratings-provider identifier.
func TitleURL(id string) string {
	if strings.TrimSpace(id) == "" {
		return ""
	}
	return DefaultTitleBaseURL + url.PathEscape(id) + "/"
}

// ReviewSearchURL is the review aggregator's search page for a title.
func ReviewSearchURL(title string) string {
	return DefaultReviewBaseURL + trailer.EscapeComponent(title)
}
