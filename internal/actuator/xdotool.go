package actuator

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Xdotool drives the X11 pointer through the xdotool command.
type Xdotool struct {
	binary    string
	timeoutMs int

	mu     sync.Mutex
	closed bool
}

// NewXdotool locates binary on PATH. A non-positive timeout uses DefaultTimeoutMs.
func NewXdotool(binary string, timeoutMs int) (*Xdotool, error) {
	if binary == "" {
		binary = "xdotool"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if timeoutMs <= 0 {
		timeoutMs = DefaultTimeoutMs
	}
	return &Xdotool{binary: path, timeoutMs: timeoutMs}, nil
}

// Position returns the pointer location from getmouselocation.
func (x *Xdotool) Position() (int, int, error) {
	out, err := x.run("getmouselocation", "--shell")
	if err != nil {
		return 0, 0, err
	}
	return parseLocation(out)
}

// MoveRelative moves the pointer by the rounded offset. A move that rounds
// to zero is not sent.
func (x *Xdotool) MoveRelative(dx, dy float64) error {
	ix, iy := Round(dx), Round(dy)
	if ix == 0 && iy == 0 {
		return nil
	}
	_, err := x.run("mousemove_relative", "--", strconv.Itoa(ix), strconv.Itoa(iy))
	return err
}

// ClickAt presses and releases the left button at (px, py).
func (x *Xdotool) ClickAt(px, py int) error {
	_, err := x.run("mousemove", "--", strconv.Itoa(px), strconv.Itoa(py), "click", "1")
	return err
}

// Close marks the sink closed. Xdotool holds no resources.
func (x *Xdotool) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.closed = true
	return nil
}

func (x *Xdotool) run(args ...string) ([]byte, error) {
	x.mu.Lock()
	closed := x.closed
	x.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(x.timeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, x.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("xdotool %s: timeout after %dms", args[0], x.timeoutMs)
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("xdotool %s: %w, stderr: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("xdotool %s: %w", args[0], err)
	}

	return stdout.Bytes(), nil
}

// parseLocation reads the X= and Y= lines of getmouselocation --shell.
func parseLocation(out []byte) (int, int, error) {
	var x, y int
	var haveX, haveY bool

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		switch key {
		case "X":
			x, haveX = n, true
		case "Y":
			y, haveY = n, true
		}
	}
	if err := sc.Err(); err != nil {
		return 0, 0, err
	}
	if !haveX || !haveY {
		return 0, 0, fmt.Errorf("unexpected getmouselocation output: %q", out)
	}
	return x, y, nil
}
