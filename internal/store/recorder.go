package store

import (
	"errors"
	"sync"

	"github.com/ayusman/leapointer/internal/device"
)

// DefaultBatchSize is the number of frames buffered before a write.
const DefaultBatchSize = 64

// ErrRecorderClosed is returned by Record after Close.
var ErrRecorderClosed = errors.New("recorder closed")

// Recorder appends frames to a new session in batches.
type Recorder struct {
	mu      sync.Mutex
	store   *Store
	session *Session
	buf     []device.Frame
	next    int
	batch   int
	closed  bool
}

// NewRecorder creates a session and returns a Recorder writing to it.
// A non-positive batch uses DefaultBatchSize.
func NewRecorder(s *Store, source, pointer string, batch int) (*Recorder, error) {
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	sess, err := s.Sessions().Create(source, pointer)
	if err != nil {
		return nil, err
	}
	return &Recorder{
		store:   s,
		session: sess,
		buf:     make([]device.Frame, 0, batch),
		batch:   batch,
	}, nil
}

// SessionID returns the ID of the session being recorded.
func (r *Recorder) SessionID() string {
	return r.session.ID
}

// Record buffers f and writes the buffer once it is full.
func (r *Recorder) Record(f device.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRecorderClosed
	}
	r.buf = append(r.buf, f)
	if len(r.buf) < r.batch {
		return nil
	}
	return r.flushLocked()
}

// Flush writes any buffered frames.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked()
}

// Close flushes and ends the session. It is safe to call more than once.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if err := r.flushLocked(); err != nil {
		return err
	}
	return r.store.Sessions().End(r.session.ID)
}

func (r *Recorder) flushLocked() error {
	if len(r.buf) == 0 {
		return nil
	}
	if err := r.store.Frames().Append(r.session.ID, r.next, r.buf); err != nil {
		return err
	}
	r.next += len(r.buf)
	r.buf = r.buf[:0]
	return nil
}
