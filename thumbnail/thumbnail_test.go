package thumbnail

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type fakeRenderer struct {
	duration time.Duration
	fail     map[time.Duration]bool

	mu    sync.Mutex
	calls int
}

func (f *fakeRenderer) Probe(ctx context.Context, location string) (time.Duration, error) {
	if f.duration == 0 {
		return 0, errors.New("no duration")
	}
	return f.duration, nil
}

func (f *fakeRenderer) Render(ctx context.Context, location string, at time.Duration) (image.Image, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	// Later frames finish first.
	time.Sleep(time.Duration(f.duration-at) / 1000)

	if f.fail[at] {
		return nil, errors.New("broken frame")
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func TestTimestamps(t *testing.T) {
	Convey("Timestamps", t, func() {
		Convey("Caps the count at max", func() {
			times := Timestamps(10*time.Second, 100)
			So(times, ShouldHaveLength, 100)
			So(times[0], ShouldEqual, 0)
			So(times[1], ShouldEqual, 100*time.Millisecond)
			So(times[99], ShouldEqual, 9900*time.Millisecond)
		})

		Convey("Keeps samples at least 10ms apart", func() {
			times := Timestamps(50*time.Millisecond, 100)
			So(times, ShouldHaveLength, 5)
			So(times[4], ShouldEqual, 40*time.Millisecond)
		})

		Convey("Yields nothing for tiny or unknown durations", func() {
			So(Timestamps(5*time.Millisecond, 100), ShouldBeEmpty)
			So(Timestamps(0, 100), ShouldBeEmpty)
			So(Timestamps(time.Second, 0), ShouldBeEmpty)
		})
	})
}

func TestStrip(t *testing.T) {
	Convey("Given an empty strip", t, func() {
		s := NewStrip(3)

		Convey("Out of order frames wait for earlier ones", func() {
			So(s.Put(Frame{Index: 2}), ShouldEqual, 0)
			So(s.Put(Frame{Index: 1}), ShouldEqual, 0)
			So(s.Len(), ShouldEqual, 0)

			So(s.Put(Frame{Index: 0}), ShouldEqual, 3)
			for i, f := range s.Frames() {
				So(f.Index, ShouldEqual, i)
			}
		})

		Convey("Skipped indices release later frames", func() {
			So(s.Put(Frame{Index: 1}), ShouldEqual, 0)
			So(s.Skip(0), ShouldEqual, 1)

			f, ok := s.At(0)
			So(ok, ShouldBeTrue)
			So(f.Index, ShouldEqual, 1)
		})

		Convey("Frames past capacity are dropped", func() {
			for i := 0; i < 5; i++ {
				s.Put(Frame{Index: i})
			}
			So(s.Len(), ShouldEqual, 3)

			_, ok := s.At(3)
			So(ok, ShouldBeFalse)
		})

		Convey("Duplicates of flushed indices are ignored", func() {
			s.Put(Frame{Index: 0})
			So(s.Put(Frame{Index: 0}), ShouldEqual, 0)
			So(s.Len(), ShouldEqual, 1)
		})
	})
}

func TestGenerate(t *testing.T) {
	Convey("Given a renderer with one broken frame", t, func() {
		r := &fakeRenderer{
			duration: time.Second,
			fail:     map[time.Duration]bool{300 * time.Millisecond: true},
		}
		strip := NewStrip(10)

		Convey("Frames land in request order without the broken one", func() {
			var mu sync.Mutex
			var grown []int
			err := Generate(context.Background(), r, "clip.mp4", strip, Options{
				Max:     10,
				Workers: 4,
				OnGrow: func(n int) {
					mu.Lock()
					grown = append(grown, n)
					mu.Unlock()
				},
			})
			So(err, ShouldBeNil)
			So(strip.Len(), ShouldEqual, 9)

			frames := strip.Frames()
			for i := 1; i < len(frames); i++ {
				So(frames[i].At, ShouldBeGreaterThan, frames[i-1].At)
			}
			for _, f := range frames {
				So(f.At, ShouldNotEqual, 300*time.Millisecond)
			}

			mu.Lock()
			So(grown[len(grown)-1], ShouldEqual, 9)
			mu.Unlock()
		})

		Convey("A known duration skips probing", func() {
			r.duration = 0
			err := Generate(context.Background(), r, "clip.mp4", strip, Options{Max: 2, Duration: time.Second})
			So(err, ShouldBeNil)
			So(strip.Len(), ShouldEqual, 2)
		})

		Convey("Probe failures are returned", func() {
			r.duration = 0
			err := Generate(context.Background(), r, "clip.mp4", strip, Options{})
			So(err, ShouldNotBeNil)
		})

		Convey("A cancelled context stops early", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := Generate(ctx, r, "clip.mp4", strip, Options{Max: 10})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestScale(t *testing.T) {
	Convey("scale", t, func() {
		img := image.NewRGBA(image.Rect(0, 0, 320, 180))
		img.Set(0, 0, color.White)

		So(scale(img, 160).Bounds().Dx(), ShouldEqual, 160)
		So(scale(img, 160).Bounds().Dy(), ShouldEqual, 90)
		So(scale(img, 640), ShouldEqual, img)
		So(scale(img, 0), ShouldEqual, img)
	})
}

func TestArgs(t *testing.T) {
	Convey("ffmpeg arguments", t, func() {
		args := renderArgs("clip.mp4", 1500*time.Millisecond)
		So(args, ShouldContain, "1.500")
		So(args, ShouldContain, "clip.mp4")
		So(args[len(args)-1], ShouldEqual, "pipe:1")

		So(probeArgs("clip.mp4")[len(probeArgs("clip.mp4"))-1], ShouldEqual, "clip.mp4")
	})
}
