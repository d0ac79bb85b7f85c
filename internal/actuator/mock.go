package actuator

import "sync"

// Point is a screen position.
type Point struct {
	X, Y int
}

// MockSink records commands instead of moving the pointer. Moves are
// rounded like the real backends and update the reported position.
type MockSink struct {
	mu     sync.Mutex
	pos    Point
	moves  []Point
	clicks []Point
	err    error
	closed bool
}

// NewMockSink creates a MockSink positioned at (x, y).
func NewMockSink(x, y int) *MockSink {
	return &MockSink{pos: Point{X: x, Y: y}}
}

func (m *MockSink) Position() (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, 0, m.err
	}
	return m.pos.X, m.pos.Y, nil
}

func (m *MockSink) MoveRelative(dx, dy float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	d := Point{X: Round(dx), Y: Round(dy)}
	m.moves = append(m.moves, d)
	m.pos.X += d.X
	m.pos.Y += d.Y
	return nil
}

func (m *MockSink) ClickAt(x, y int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.clicks = append(m.clicks, Point{X: x, Y: y})
	return nil
}

func (m *MockSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SetError makes every following call fail with err. Pass nil to clear it.
func (m *MockSink) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Moves returns the rounded relative moves received so far.
func (m *MockSink) Moves() []Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Point(nil), m.moves...)
}

// Clicks returns the click positions received so far.
func (m *MockSink) Clicks() []Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Point(nil), m.clicks...)
}

// Closed reports whether Close was called.
func (m *MockSink) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
