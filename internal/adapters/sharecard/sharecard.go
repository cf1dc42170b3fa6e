// Package sharecard renders the 1200x630 PNG used as a social preview for a
// lookup result.
package sharecard

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Card geometry and copy.
const (
	Width        = 1200
	Height       = 630
	DefaultTitle = "Movie Ratings Finder"
	Tagline      = "Only the ratings that matter"

	// MaxTitleRunes bounds the title that reaches layout; longer input
	// is clipped before wrapping.
	MaxTitleRunes = 200
	maxScoreRunes = 32

	padding      = 60
	titleSize    = 64
	subtitleSize = 28
	taglineSize  = 28
	maxTitleRows = 3
)

var (
	bgFrom     = color.RGBA{0x0f, 0x17, 0x2a, 0xff}
	bgTo       = color.RGBA{0x0b, 0x10, 0x20, 0xff}
	titleColor = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	subColor   = color.RGBA{0xcb, 0xd5, 0xe1, 0xff}
	tagColor   = color.RGBA{0xf5, 0x9e, 0x0b, 0xff}
)

// Card is what gets drawn. Empty scores are left out of the subtitle.
type Card struct {
	Title   string
	Numeric string
	Percent string
}

// Subtitle joins the present scores, e.g. "IMDb: 9.3/10 • Rotten Tomatoes: 91%".
func (c Card) Subtitle() string {
	parts := make([]string, 0, 2)
	if v := strings.TrimSpace(c.Numeric); v != "" {
		parts = append(parts, "IMDb: "+v)
	}
	if v := strings.TrimSpace(c.Percent); v != "" {
		parts = append(parts, "Rotten Tomatoes: "+v)
	}
	return strings.Join(parts, " • ")
}

// Renderer holds the parsed fonts. It is safe for concurrent use; faces are
// created per render.
type Renderer struct {
	regular *opentype.Font
	bold    *opentype.Font
}

// NewRenderer parses the embedded Go fonts.
func NewRenderer() (*Renderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("%w: regular: %w", ErrFont, err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("%w: bold: %w", ErrFont, err)
	}
	return &Renderer{regular: regular, bold: bold}, nil
}

// Render draws c and writes it to w as PNG.
func (r *Renderer) Render(w io.Writer, c Card) error {
	img, err := r.Draw(c)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Draw returns the card as an image.
func (r *Renderer) Draw(c Card) (*image.RGBA, error) {
	titleFace, err := face(r.bold, titleSize)
	if err != nil {
		return nil, err
	}
	defer titleFace.Close()
	subFace, err := face(r.regular, subtitleSize)
	if err != nil {
		return nil, err
	}
	defer subFace.Close()
	tagFace, err := face(r.bold, taglineSize)
	if err != nil {
		return nil, err
	}
	defer tagFace.Close()

	title := strings.TrimSpace(clip(c.Title, MaxTitleRunes))
	if title == "" {
		title = DefaultTitle
	}
	rows := Wrap(titleFace, title, Width-2*padding, maxTitleRows)
	subtitle := Card{Numeric: clip(c.Numeric, maxScoreRunes), Percent: clip(c.Percent, maxScoreRunes)}.Subtitle()

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	paintBackground(img)

	titleLine := titleSize * 11 / 10
	block := len(rows) * titleLine
	if subtitle != "" {
		block += 18 + subtitleSize
	}
	block += 36 + taglineSize

	y := (Height-block)/2 + titleSize
	for _, row := range rows {
		drawText(img, titleFace, titleColor, padding, y, row)
		y += titleLine
	}
	y -= titleLine - titleSize
	if subtitle != "" {
		y += 18 + subtitleSize
		drawText(img, subFace, subColor, padding, y, subtitle)
	}
	y += 36 + taglineSize
	drawText(img, tagFace, tagColor, padding, y, Tagline)
	return img, nil
}

// Wrap breaks s into at most maxRows rows no wider than maxWidth pixels. The
// last row gets an ellipsis when text was cut.
func Wrap(f font.Face, s string, maxWidth, maxRows int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	limit := fixed.I(maxWidth)

	var rows []string
	current := ""
	for i, word := range words {
		next := word
		if current != "" {
			next = current + " " + word
		}
		if current == "" || font.MeasureString(f, next) <= limit {
			current = next
			continue
		}
		rows = append(rows, current)
		current = word
		if len(rows) == maxRows {
			rows[maxRows-1] = ellipsize(f, rows[maxRows-1]+" "+strings.Join(words[i:], " "), limit)
			return rows
		}
	}
	rows = append(rows, current)
	if font.MeasureString(f, rows[len(rows)-1]) > limit {
		rows[len(rows)-1] = ellipsize(f, rows[len(rows)-1], limit)
	}
	return rows
}

// ellipsize keeps the longest prefix of s that fits limit with an ellipsis.
// Wider prefixes never measure narrower, so the cut is found by bisection.
func ellipsize(f font.Face, s string, limit fixed.Int26_6) string {
	const dots = "…"
	runes := []rune(s)
	fits := func(n int) bool {
		return font.MeasureString(f, strings.TrimSpace(string(runes[:n]))+dots) <= limit
	}

	lo, hi := 0, len(runes)
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		if fits(mid) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if lo == 0 {
		return dots
	}
	return strings.TrimSpace(string(runes[:lo])) + dots
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func face(f *opentype.Font, size float64) (font.Face, error) {
	ff, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("%w: face: %w", ErrFont, err)
	}
	return ff, nil
}

func drawText(dst draw.Image, f font.Face, c color.Color, x, y int, s string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: f,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// paintBackground fills a diagonal gradient.
func paintBackground(img *image.RGBA) {
	span := Width + Height
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			t := float64(x+y) / float64(span)
			img.SetRGBA(x, y, color.RGBA{
				R: lerp(bgFrom.R, bgTo.R, t),
				G: lerp(bgFrom.G, bgTo.G, t),
				B: lerp(bgFrom.B, bgTo.B, t),
				A: 0xff,
			})
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}
