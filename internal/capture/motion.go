package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

const (
	// BlurSize is the Gaussian kernel applied before differencing.
	BlurSize = 21
	// PixelThreshold is the per-pixel difference counted as change.
	PixelThreshold = 25
	// DefaultHold keeps the gate open after the last motion.
	DefaultHold = 2 * time.Second
)

// MotionGate decides whether a frame is worth running landmark detection
// on. It compares each frame with the previous one and stays open for Hold
// after the last frame whose changed-pixel share exceeded the threshold.
type MotionGate struct {
	mu         sync.Mutex
	threshold  float64
	hold       time.Duration
	prev       gocv.Mat
	primed     bool
	lastMotion time.Time
}

// NewMotionGate returns a gate that opens when more than threshold percent
// of pixels change. A non-positive hold uses DefaultHold.
func NewMotionGate(threshold float64, hold time.Duration) *MotionGate {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &MotionGate{
		threshold: threshold,
		hold:      hold,
		prev:      gocv.NewMat(),
	}
}

// Check compares frame with the previous one and reports whether the gate is
// open at now, along with the percentage of changed pixels. The first frame
// only primes the gate.
func (g *MotionGate) Check(frame *gocv.Mat, now time.Time) (open bool, changed float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return g.openLocked(now), 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: BlurSize, Y: BlurSize}, 0, 0, gocv.BorderDefault)

	if !g.primed {
		blurred.CopyTo(&g.prev)
		g.primed = true
		return g.openLocked(now), 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prev, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, PixelThreshold, 255, gocv.ThresholdBinary)

	changed = float64(gocv.CountNonZero(mask)) / float64(mask.Rows()*mask.Cols()) * 100
	blurred.CopyTo(&g.prev)

	if changed > g.threshold {
		g.lastMotion = now
	}
	return g.openLocked(now), changed
}

func (g *MotionGate) openLocked(now time.Time) bool {
	return !g.lastMotion.IsZero() && now.Sub(g.lastMotion) < g.hold
}

// Reset forgets the previous frame and the last motion.
func (g *MotionGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
}

// Close releases the stored frame.
func (g *MotionGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
}

func (g *MotionGate) reset() {
	if !g.prev.Empty() {
		g.prev.Close()
		g.prev = gocv.NewMat()
	}
	g.primed = false
	g.lastMotion = time.Time{}
}
