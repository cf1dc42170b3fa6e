// Package detail merges a catalog record, its resolved ratings and its
// trailer into the record shown to users.
package detail

import (
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"
)

// Placeholder is shown for a missing title or year.
const Placeholder = "—"

// Option applies a configuration option to the Assembler.
type Option func(*Assembler)

// WithImageBaseURL sets the poster CDN root.
func WithImageBaseURL(base string) Option {
	return func(a *Assembler) {
		if base != "" {
			a.imageBaseURL = base
		}
	}
}

// Assembler builds DetailRecords. It holds no mutable state.
type Assembler struct {
	imageBaseURL string
}

// NewAssembler creates an Assembler.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{imageBaseURL: DefaultImageBaseURL}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble is pure: the same inputs always produce the same record.
func (a *Assembler) Assemble(rec model.CatalogRecord, ratings model.ResolvedRatings, t model.SelectedTrailer) model.DetailRecord {
	title := rec.DisplayTitle()
	if title == "" {
		title = Placeholder
	}
	year := rec.ReleaseYear
	if year == "" {
		year = Placeholder
	}
	genres := make([]string, 0, len(rec.Genres))
	genres = append(genres, rec.Genres...)

	out := model.DetailRecord{
		CatalogID:    rec.CatalogID,
		CrossRefID:   ratings.ResolvedCrossRefID,
		Title:        title,
		Year:         year,
		Genres:       genres,
		Poster:       optional(ImageURL(a.imageBaseURL, PosterSize, rec.PosterPath)),
		Plot:         optional(rec.Overview),
		NumericScore: ratings.NumericScore,
		PercentScore: ratings.PercentScore,
		Trailer:      t,
		Links: model.Links{
			ReviewSearch: ReviewSearchURL(title),
		},
	}
	if ratings.ResolvedCrossRefID != nil {
		out.Links.TitlePage = TitleURL(*ratings.ResolvedCrossRefID)
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
