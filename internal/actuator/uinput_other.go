//go:build !linux

package actuator

import "fmt"

// Uinput is only available on Linux.
type Uinput struct{}

// NewUinput always fails outside Linux.
func NewUinput(originX, originY int) (*Uinput, error) {
	return nil, fmt.Errorf("%w: uinput requires linux", ErrUnavailable)
}

func (u *Uinput) Position() (int, int, error)       { return 0, 0, ErrUnavailable }
func (u *Uinput) MoveRelative(dx, dy float64) error { return ErrUnavailable }
func (u *Uinput) ClickAt(x, y int) error            { return ErrUnavailable }
func (u *Uinput) Close() error                      { return nil }
