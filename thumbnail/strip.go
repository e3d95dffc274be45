package thumbnail

import (
	"image"
	"sync"
	"time"
)

// Frame is one rendered preview.
type Frame struct {
	// Index is the position in the original sampling request.
	Index int
	At    time.Duration
	Image image.Image
}

// Strip holds the frames of one item in request order. Renders finish in
// any order, so completed frames wait in a reorder buffer until every
// earlier index has either arrived or been skipped.
//
// One goroutine writes, any number read.
type Strip struct {
	mu     sync.RWMutex
	max    int
	frames []Frame

	next    int
	pending map[int]*Frame
}

// NewStrip returns an empty strip holding at most max frames.
func NewStrip(max int) *Strip {
	return &Strip{
		max:     max,
		pending: make(map[int]*Frame),
	}
}

// Put records the frame for its request index and returns how many frames
// became visible.
func (s *Strip) Put(f Frame) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.Index < s.next {
		return 0
	}
	s.pending[f.Index] = &f
	return s.flush()
}

// Skip marks a request index as failed so later frames are not held back.
func (s *Strip) Skip(index int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < s.next {
		return 0
	}
	s.pending[index] = nil
	return s.flush()
}

func (s *Strip) flush() int {
	added := 0
	for {
		f, ok := s.pending[s.next]
		if !ok {
			return added
		}
		delete(s.pending, s.next)
		s.next++

		if f != nil && len(s.frames) < s.max {
			s.frames = append(s.frames, *f)
			added++
		}
	}
}

func (s *Strip) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.frames)
}

// At returns the i-th visible frame.
func (s *Strip) At(i int) (Frame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i < 0 || i >= len(s.frames) {
		return Frame{}, false
	}
	return s.frames[i], true
}

// Frames returns a copy of the visible frames.
func (s *Strip) Frames() []Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Frame(nil), s.frames...)
}

// Max returns the capacity of the strip.
func (s *Strip) Max() int {
	return s.max
}
