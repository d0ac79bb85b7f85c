package detector

import "gocv.io/x/gocv"

// Detector finds hands in a video frame.
type Detector interface {
	// Detect returns the landmarks of every hand in frame, or an empty
	// slice when there is none.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config configures the MediaPipe detector service.
type Config struct {
	// MaxHands is the maximum number of hands to report.
	MaxHands int

	// MinConfidence drops hands scored below it (0.0-1.0).
	MinConfidence float64

	// Python runs Script. Empty looks for a virtualenv, then python3.
	Python string

	// Script is the landmark service. Empty searches the usual locations.
	Script string
}

// DefaultConfig returns the detector defaults. Pointer control only ever
// follows one hand.
func DefaultConfig() Config {
	return Config{
		MaxHands:      1,
		MinConfidence: 0.5,
	}
}
