//go:build linux

package actuator

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// UinputPath is the kernel uinput device node.
const UinputPath = "/dev/uinput"

const (
	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02

	synReport = 0x00
	relX      = 0x00
	relY      = 0x01
	btnLeft   = 0x110

	busVirtual = 0x06
)

// ioctl request encoding (Linux _IOC macro)
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocNone  = 0
	iocWrite = 1
)

func ioc(dir, typ, nr, size uint32) uint {
	return uint((dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift))
}

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type uinputSetup struct {
	ID           inputID
	Name         [80]byte
	FFEffectsMax uint32
}

type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

var (
	uiDevCreate  = ioc(iocNone, 'U', 1, 0)
	uiDevDestroy = ioc(iocNone, 'U', 2, 0)
	uiDevSetup   = ioc(iocWrite, 'U', 3, uint32(unsafe.Sizeof(uinputSetup{})))
	uiSetEvBit   = ioc(iocWrite, 'U', 100, uint32(unsafe.Sizeof(int32(0))))
	uiSetKeyBit  = ioc(iocWrite, 'U', 101, uint32(unsafe.Sizeof(int32(0))))
	uiSetRelBit  = ioc(iocWrite, 'U', 102, uint32(unsafe.Sizeof(int32(0))))
)

// Uinput is a virtual relative mouse created through /dev/uinput. The
// kernel offers no way to read the real pointer back, so Position reports
// a position tracked from the configured origin.
type Uinput struct {
	mu     sync.Mutex
	fd     int
	x, y   int
	closed bool
}

// NewUinput creates the virtual mouse. The caller needs write access to
// UinputPath.
func NewUinput(originX, originY int) (*Uinput, error) {
	fd, err := unix.Open(UinputPath, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, UinputPath, err)
	}

	if err := setupMouse(fd); err != nil {
		unix.Close(fd)
		return nil, err
	}

	return &Uinput{fd: fd, x: originX, y: originY}, nil
}

func setupMouse(fd int) error {
	bits := []struct {
		req   uint
		value int
	}{
		{uiSetEvBit, evKey},
		{uiSetKeyBit, btnLeft},
		{uiSetEvBit, evRel},
		{uiSetRelBit, relX},
		{uiSetRelBit, relY},
	}
	for _, b := range bits {
		if err := unix.IoctlSetInt(fd, b.req, b.value); err != nil {
			return fmt.Errorf("uinput set bit %d: %w", b.value, err)
		}
	}

	setup := uinputSetup{ID: inputID{Bustype: busVirtual, Vendor: 0x1d6b, Product: 0x0104, Version: 1}}
	copy(setup.Name[:], "leapointer virtual mouse")
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(uiDevSetup), uintptr(unsafe.Pointer(&setup))); errno != 0 {
		return fmt.Errorf("uinput setup: %w", errno)
	}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(uiDevCreate), 0); errno != 0 {
		return fmt.Errorf("uinput create: %w", errno)
	}
	return nil
}

// Position returns the tracked pointer position.
func (u *Uinput) Position() (int, int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return 0, 0, ErrClosed
	}
	return u.x, u.y, nil
}

// MoveRelative emits one REL_X/REL_Y report with the rounded offset.
func (u *Uinput) MoveRelative(dx, dy float64) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.moveLocked(Round(dx), Round(dy))
}

// ClickAt moves to (x, y) if the tracked position differs, then clicks.
func (u *Uinput) ClickAt(x, y int) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.moveLocked(x-u.x, y-u.y); err != nil {
		return err
	}
	return u.write(encodeClick())
}

// Close destroys the virtual device.
func (u *Uinput) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return nil
	}
	u.closed = true

	var destroyErr error
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(u.fd), uintptr(uiDevDestroy), 0); errno != 0 {
		destroyErr = fmt.Errorf("destroy uinput device: %w", errno)
	}
	return errors.Join(destroyErr, unix.Close(u.fd))
}

func (u *Uinput) moveLocked(dx, dy int) error {
	if u.closed {
		return ErrClosed
	}
	if dx == 0 && dy == 0 {
		return nil
	}
	if err := u.write(encodeMove(dx, dy)); err != nil {
		return err
	}
	u.x += dx
	u.y += dy
	return nil
}

func (u *Uinput) write(b []byte) error {
	if u.closed {
		return ErrClosed
	}
	if _, err := unix.Write(u.fd, b); err != nil {
		return fmt.Errorf("uinput write: %w", err)
	}
	return nil
}

func encodeMove(dx, dy int) []byte {
	var events []inputEvent
	if dx != 0 {
		events = append(events, inputEvent{Type: evRel, Code: relX, Value: int32(dx)})
	}
	if dy != 0 {
		events = append(events, inputEvent{Type: evRel, Code: relY, Value: int32(dy)})
	}
	events = append(events, inputEvent{Type: evSyn, Code: synReport})
	return encodeEvents(events)
}

func encodeClick() []byte {
	return encodeEvents([]inputEvent{
		{Type: evKey, Code: btnLeft, Value: 1},
		{Type: evSyn, Code: synReport},
		{Type: evKey, Code: btnLeft, Value: 0},
		{Type: evSyn, Code: synReport},
	})
}

func encodeEvents(events []inputEvent) []byte {
	var buf bytes.Buffer
	for _, ev := range events {
		// Writes to a bytes.Buffer of fixed-size values cannot fail.
		_ = binary.Write(&buf, binary.NativeEndian, ev)
	}
	return buf.Bytes()
}
