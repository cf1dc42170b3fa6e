package sharecard

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/image/font"
)

func TestSubtitle(t *testing.T) {
	Convey("Given cards with different scores", t, func() {
		So(Card{Numeric: "9.3/10", Percent: "91%"}.Subtitle(), ShouldEqual, "IMDb: 9.3/10 • Rotten Tomatoes: 91%")
		So(Card{Numeric: "7.8/10"}.Subtitle(), ShouldEqual, "IMDb: 7.8/10")
		So(Card{Percent: " 45% "}.Subtitle(), ShouldEqual, "Rotten Tomatoes: 45%")
		So(Card{}.Subtitle(), ShouldBeEmpty)
	})
}

func TestRender(t *testing.T) {
	Convey("Given a renderer", t, func() {
		r, err := NewRenderer()
		So(err, ShouldBeNil)

		Convey("When rendering a card", func() {
			var buf bytes.Buffer
			err := r.Render(&buf, Card{Title: "The Shawshank Redemption", Numeric: "9.3/10", Percent: "91%"})

			Convey("Then a 1200x630 PNG is produced", func() {
				So(err, ShouldBeNil)
				cfg, err := png.DecodeConfig(&buf)
				So(err, ShouldBeNil)
				So(cfg.Width, ShouldEqual, Width)
				So(cfg.Height, ShouldEqual, Height)
			})
		})

		Convey("When the title is enormous", func() {
			start := time.Now()
			var buf bytes.Buffer
			err := r.Render(&buf, Card{Title: strings.Repeat("W", 100_000), Numeric: strings.Repeat("9", 10_000)})

			Convey("Then the card still renders promptly", func() {
				So(err, ShouldBeNil)
				So(time.Since(start), ShouldBeLessThan, 5*time.Second)
				So(clip(strings.Repeat("é", 500), MaxTitleRunes), ShouldEqual, strings.Repeat("é", MaxTitleRunes))
			})
		})

		Convey("When the title is empty", func() {
			img, err := r.Draw(Card{})

			Convey("Then the default title is drawn over the background", func() {
				So(err, ShouldBeNil)
				So(img.Bounds().Dx(), ShouldEqual, Width)
				corner := img.RGBAAt(0, 0)
				So(corner, ShouldResemble, bgFrom)
			})
		})
	})
}

func TestWrap(t *testing.T) {
	Convey("Given the title face", t, func() {
		r, err := NewRenderer()
		So(err, ShouldBeNil)
		f, err := face(r.bold, titleSize)
		So(err, ShouldBeNil)
		defer f.Close()

		Convey("When the text fits on one row", func() {
			So(Wrap(f, "Heat", 1080, 3), ShouldResemble, []string{"Heat"})
		})

		Convey("When the text is long", func() {
			long := strings.Repeat("Dr. Strangelove or How I Learned to Stop Worrying ", 6)
			rows := Wrap(f, long, 1080, 3)

			Convey("Then it is capped and every row fits", func() {
				So(len(rows), ShouldEqual, 3)
				So(rows[2], ShouldEndWith, "…")
				for _, row := range rows {
					So(font.MeasureString(f, row).Ceil(), ShouldBeLessThanOrEqualTo, 1080)
				}
			})
		})

		Convey("When a single word is far wider than a row", func() {
			start := time.Now()
			rows := Wrap(f, strings.Repeat("W", 100_000), 1080, 3)

			Convey("Then it is cut to one ellipsized row quickly", func() {
				So(time.Since(start), ShouldBeLessThan, 3*time.Second)
				So(len(rows), ShouldEqual, 1)
				So(rows[0], ShouldEndWith, "…")
				So(font.MeasureString(f, rows[0]).Ceil(), ShouldBeLessThanOrEqualTo, 1080)
			})
		})

		Convey("When there is nothing to wrap", func() {
			So(Wrap(f, "   ", 1080, 3), ShouldBeEmpty)
		})
	})
}
