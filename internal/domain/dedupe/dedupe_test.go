package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/dedupe"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new deduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3), dedupe.WithWindow(time.Minute))

		Convey("When a key is new", func() {
			seen := d.SeenAndRecord(ctx, "278")

			Convey("Then it is recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, int64(1))
			})
		})

		Convey("When a key repeats", func() {
			d.SeenAndRecord(ctx, "278")
			seen := d.SeenAndRecord(ctx, "278")

			Convey("Then it is reported as seen", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, int64(1))
			})
		})

		Convey("When a key is unrecorded", func() {
			d.SeenAndRecord(ctx, "278")
			d.Unrecord(ctx, "278")

			Convey("Then it can be recorded again", func() {
				So(d.SeenAndRecord(ctx, "278"), ShouldBeFalse)
			})
		})

		Convey("When more keys than the bound arrive", func() {
			for i := 0; i < 5; i++ {
				d.SeenAndRecord(ctx, fmt.Sprint(i))
			}

			Convey("Then the oldest are forgotten", func() {
				So(d.Size(), ShouldEqual, int64(3))
				So(d.SeenAndRecord(ctx, "0"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "4"), ShouldBeTrue)
			})
		})

		Convey("When many goroutines race on one key", func() {
			var fresh atomic.Int32
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if !d.SeenAndRecord(ctx, "race") {
						fresh.Add(1)
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one wins", func() {
				So(fresh.Load(), ShouldEqual, int32(1))
			})
		})
	})

	Convey("Given a deduper with a short window", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithWindow(20 * time.Millisecond))
		d.SeenAndRecord(context.Background(), "k")
		time.Sleep(60 * time.Millisecond)

		So(d.SeenAndRecord(context.Background(), "k"), ShouldBeFalse)
	})
}
