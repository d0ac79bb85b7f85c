package motion

// DefaultMinTapPeriod is the shortest interval between accepted taps, in seconds.
const DefaultMinTapPeriod = 0.2

// TapDebouncer accepts at most one tap per minimum period.
type TapDebouncer struct {
	minPeriod float64
	lastTap   float64
	tapped    bool
}

// NewTapDebouncer creates a TapDebouncer. Negative periods are treated as zero.
func NewTapDebouncer(minPeriod float64) *TapDebouncer {
	if minPeriod < 0 {
		minPeriod = 0
	}
	return &TapDebouncer{minPeriod: minPeriod}
}

// Accept reports whether a tap seen at timestamp should produce a click,
// and records it if so. The first tap is always accepted; later ones need
// timestamp - lastTap >= the minimum period.
//
// Starting from "no tap yet" rather than a last tap at time 0 means a tap
// within the first minimum period of device time still clicks. Device
// clocks start at an arbitrary origin, so time 0 is not a real tap.
func (d *TapDebouncer) Accept(timestamp float64, tapped bool) bool {
	if !tapped {
		return false
	}
	if d.tapped && timestamp-d.lastTap < d.minPeriod {
		return false
	}
	d.lastTap = timestamp
	d.tapped = true
	return true
}

// LastTap returns the timestamp of the last accepted tap and whether one was accepted.
func (d *TapDebouncer) LastTap() (float64, bool) {
	return d.lastTap, d.tapped
}

// Reset forgets the last accepted tap.
func (d *TapDebouncer) Reset() {
	d.lastTap = 0
	d.tapped = false
}
