// Package titles derives alternative title spellings used to query the
// ratings provider when no identifier is known.
package titles

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// minLength is exclusive: candidates must be longer than this.
const minLength = 2

var (
	bracketed   = regexp.MustCompile(`[\(\[\{][^\)\]\}]*[\)\]\}]`)
	quotedFrom  = regexp.MustCompile(`(?i)\bfrom\s+(?:'([^']+)'|"([^"]+)")`)
	separators  = regexp.MustCompile(`[-–—:]`)
	noiseWords  = regexp.MustCompile(`(?i)\b(?:official|full|video|song|lyric|lyrical|audio|remix|trailer|teaser|promo|4k|hdr)\b|\b(?:feat|ft)\b\.?`)
	spaceRunner = regexp.MustCompile(`\s+`)
)

// Candidates returns an insertion-ordered, duplicate-free list of title
// spellings for the given titles. Empty inputs are skipped and no candidate
// is shorter than three characters.
func Candidates(titles ...string) []string {
	set := newOrderedSet()
	for _, t := range titles {
		if strings.TrimSpace(t) == "" {
			continue
		}
		for _, c := range variants(t) {
			set.add(c)
		}
	}
	return set.items
}

func variants(title string) []string {
	out := []string{strings.TrimSpace(title)}

	out = append(out, collapse(bracketed.ReplaceAllString(title, " ")))

	for _, m := range quotedFrom.FindAllStringSubmatch(title, -1) {
		if m[1] != "" {
			out = append(out, strings.TrimSpace(m[1]))
		} else {
			out = append(out, strings.TrimSpace(m[2]))
		}
	}

	for _, part := range separators.Split(title, -1) {
		out = append(out, strings.TrimSpace(part))
	}

	out = append(out, collapse(noiseWords.ReplaceAllString(strings.ToLower(title), " ")))
	return out
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRunner.ReplaceAllString(s, " "))
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), items: []string{}}
}

func (s *orderedSet) add(v string) {
	if utf8.RuneCountInString(v) <= minLength {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
