// Package ratings resolves the numeric (x/10) and percentage scores for a
// catalog record by walking a fixed chain of sources: lookup by identifier,
// title page scrape, then title matching. Each step only fills fields the
// previous steps left empty.
package ratings

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"
	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/titles"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/logger"
	"github.com/sureshchouksey8/MOVIERATINGS/pkg/metrics"
)

// Tier names used in logs and metrics.
const (
	TierCrossRef    = "crossref"
	TierScrape      = "scrape"
	TierTitleExact  = "title_exact"
	TierTitleSearch = "title_search"
)

// Field names used in metrics.
const (
	fieldNumeric  = "numeric"
	fieldPercent  = "percent"
	fieldCrossRef = "crossref"
)

// Client is the ratings provider.
type Client interface {
	FetchByCrossRefID(ctx context.Context, crossRefID string) (model.RatingRecord, error)
	FetchByTitleExact(ctx context.Context, title, year string) (model.RatingRecord, error)
	SearchByTitle(ctx context.Context, title string) ([]model.SearchHit, error)
}

// ScrapeFallback extracts a numeric score from the public title page. It
// reports false instead of failing.
type ScrapeFallback interface {
	FetchNumericScore(ctx context.Context, crossRefID string) (string, bool)
}

// Resolver merges ratings from its collaborators. It is safe for concurrent
// use as long as the collaborators are.
type Resolver struct {
	client Client
	scrape ScrapeFallback
	log    logger.Logger
}

// NewResolver creates a Resolver. A nil client disables the identifier and
// title tiers.
func NewResolver(client Client, opts ...Option) *Resolver {
	r := &Resolver{
		client: client,
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve never fails: a collaborator error only means that tier had no data.
// Cancelling ctx stops the walk and returns whatever was resolved so far.
func (r *Resolver) Resolve(ctx context.Context, rec model.CatalogRecord) model.ResolvedRatings {
	var out model.ResolvedRatings

	crossRef := strings.TrimSpace(rec.CrossRefID)
	if crossRef != "" {
		out.ResolvedCrossRefID = &crossRef
		if got, ok := r.fetchByID(ctx, TierCrossRef, crossRef); ok {
			r.merge(&out, got, TierCrossRef)
		}
	}

	if out.NumericScore == nil && crossRef != "" && r.scrape != nil && ctx.Err() == nil {
		if v, ok := r.scrape.FetchNumericScore(ctx, crossRef); ok {
			s := v + "/10"
			out.NumericScore = &s
			metrics.RecordRatingResolved(TierScrape, fieldNumeric)
		}
	}

	if crossRef == "" || (out.NumericScore == nil && out.PercentScore == nil) {
		r.byTitle(ctx, rec, &out)
	}

	if out.NumericScore == nil {
		metrics.RecordRatingUnresolved(fieldNumeric)
	}
	if out.PercentScore == nil {
		metrics.RecordRatingUnresolved(fieldPercent)
	}
	return out
}

// byTitle tries exact title+year lookups for every candidate first and only
// then falls back to keyword search.
func (r *Resolver) byTitle(ctx context.Context, rec model.CatalogRecord, out *model.ResolvedRatings) {
	if r.client == nil {
		return
	}
	candidates := titles.Candidates(rec.PrimaryTitle, rec.AlternateTitle, rec.Tagline)

	for _, c := range candidates {
		if ctx.Err() != nil {
			return
		}
		got, err := r.client.FetchByTitleExact(ctx, c, rec.ReleaseYear)
		if err != nil {
			r.swallow(ctx, TierTitleExact, c, err)
			continue
		}
		if got.Success {
			r.accept(out, got, got.MatchedCrossRefID, TierTitleExact)
			return
		}
	}

	for _, c := range candidates {
		if ctx.Err() != nil {
			return
		}
		hits, err := r.client.SearchByTitle(ctx, c)
		if err != nil {
			r.swallow(ctx, TierTitleSearch, c, err)
			continue
		}
		if len(hits) == 0 {
			continue
		}
		hit := ClosestHit(hits, rec.ReleaseYear)
		got, ok := r.fetchByID(ctx, TierTitleSearch, hit.ID)
		if !ok {
			continue
		}
		id := got.MatchedCrossRefID
		if id == "" {
			id = hit.ID
		}
		r.accept(out, got, id, TierTitleSearch)
		return
	}
}

func (r *Resolver) fetchByID(ctx context.Context, tier, id string) (model.RatingRecord, bool) {
	if r.client == nil || id == "" {
		return model.RatingRecord{}, false
	}
	got, err := r.client.FetchByCrossRefID(ctx, id)
	if err != nil {
		r.swallow(ctx, tier, id, err)
		return model.RatingRecord{}, false
	}
	return got, got.Success
}

func (r *Resolver) accept(out *model.ResolvedRatings, got model.RatingRecord, id, tier string) {
	r.merge(out, got, tier)
	if out.ResolvedCrossRefID == nil && id != "" {
		out.ResolvedCrossRefID = &id
		metrics.RecordRatingResolved(tier, fieldCrossRef)
	}
}

// merge fills only the fields that are still nil.
func (r *Resolver) merge(out *model.ResolvedRatings, got model.RatingRecord, tier string) {
	if out.NumericScore == nil {
		if v, ok := numericFrom(got); ok {
			out.NumericScore = &v
			metrics.RecordRatingResolved(tier, fieldNumeric)
		}
	}
	if out.PercentScore == nil {
		if v, ok := percentFrom(got); ok {
			out.PercentScore = &v
			metrics.RecordRatingResolved(tier, fieldPercent)
		}
	}
}

func (r *Resolver) swallow(ctx context.Context, tier, subject string, err error) {
	r.log.Debug(ctx, "ratings tier had no data",
		logger.String("tier", tier),
		logger.String("subject", subject),
		logger.Error(err),
	)
	metrics.RecordErrorByComponent("ratings", tier)
}

// ClosestHit picks the hit whose year is nearest to year. Ties keep the
// earlier hit, and hits with an unreadable year never beat a readable one.
// Without a usable target year the first hit wins.
func ClosestHit(hits []model.SearchHit, year string) model.SearchHit {
	target, ok := leadingYear(year)
	if !ok {
		return hits[0]
	}
	best, bestDiff := 0, math.MaxInt
	for i, h := range hits {
		y, ok := leadingYear(h.Year)
		if !ok {
			continue
		}
		diff := y - target
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return hits[best]
}

// leadingYear reads the first four digits, so "2019–2021" is 2019.
func leadingYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0, false
	}
	return y, true
}
