package leap

import (
	"encoding/json"
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/ayusman/leapointer/internal/device"
)

// ProtocolVersion is the Leap WebSocket JSON protocol spoken by this client.
const ProtocolVersion = 6

// MessageKind classifies a decoded service message.
type MessageKind int

const (
	KindUnknown MessageKind = iota
	KindVersion
	KindDeviceEvent
	KindFrame
)

// Message is one decoded service message. Only the fields matching Kind
// are set.
type Message struct {
	Kind MessageKind

	ServiceVersion string
	Version        int

	// Attached and Streaming describe the device for KindDeviceEvent.
	Attached  bool
	Streaming bool

	Frame device.Frame
}

type vec [3]float64

func (v vec) r3() r3.Vector { return r3.Vector{X: v[0], Y: v[1], Z: v[2]} }

type wireHand struct {
	ID           int64 `json:"id"`
	PalmPosition vec   `json:"palmPosition"`
	PalmNormal   vec   `json:"palmNormal"`
	Direction    vec   `json:"direction"`
}

type wirePointable struct {
	ID          int64 `json:"id"`
	HandID      int64 `json:"handId"`
	TipPosition vec   `json:"tipPosition"`
	Tool        bool  `json:"tool"`
	Extended    *bool `json:"extended"`
}

type wireGesture struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	State string `json:"state"`
}

type wireEvent struct {
	Type  string `json:"type"`
	State struct {
		Attached  bool `json:"attached"`
		Streaming bool `json:"streaming"`
	} `json:"state"`
}

type wireMessage struct {
	ServiceVersion string     `json:"serviceVersion"`
	Version        int        `json:"version"`
	Event          *wireEvent `json:"event"`

	ID         int64           `json:"id"`
	Timestamp  *int64          `json:"timestamp"`
	Hands      []wireHand      `json:"hands"`
	Pointables []wirePointable `json:"pointables"`
	Gestures   []wireGesture   `json:"gestures"`
}

// Decode parses one service message.
func Decode(data []byte) (Message, error) {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return Message{}, fmt.Errorf("decode leap message: %w", err)
	}

	switch {
	case w.Event != nil:
		if w.Event.Type != "deviceEvent" {
			return Message{Kind: KindUnknown}, nil
		}
		return Message{
			Kind:      KindDeviceEvent,
			Attached:  w.Event.State.Attached,
			Streaming: w.Event.State.Streaming,
		}, nil
	case w.Timestamp != nil:
		return Message{Kind: KindFrame, Frame: w.frame()}, nil
	case w.Version != 0:
		return Message{Kind: KindVersion, ServiceVersion: w.ServiceVersion, Version: w.Version}, nil
	default:
		return Message{Kind: KindUnknown}, nil
	}
}

// frame maps the wire frame to a device.Frame. Fingers are the extended,
// non-tool pointables attached to each hand, in wire order.
func (w *wireMessage) frame() device.Frame {
	f := device.Frame{
		ID:        w.ID,
		Timestamp: *w.Timestamp,
	}

	for _, h := range w.Hands {
		hand := device.Hand{
			ID:           h.ID,
			PalmPosition: h.PalmPosition.r3(),
			PalmNormal:   h.PalmNormal.r3(),
			Direction:    h.Direction.r3(),
		}
		for _, p := range w.Pointables {
			if p.HandID != h.ID || p.Tool {
				continue
			}
			if p.Extended != nil && !*p.Extended {
				continue
			}
			hand.Fingers = append(hand.Fingers, device.Finger{ID: p.ID, TipPosition: p.TipPosition.r3()})
		}
		f.Hands = append(f.Hands, hand)
	}

	for _, g := range w.Gestures {
		f.Gestures = append(f.Gestures, device.Gesture{
			ID:    g.ID,
			Type:  device.GestureType(g.Type),
			State: device.GestureState(g.State),
		})
	}

	return f
}

// controlMessage is sent from the client to the service.
type controlMessage struct {
	EnableGestures *bool `json:"enableGestures,omitempty"`
	Background     *bool `json:"background,omitempty"`
	Focused        *bool `json:"focused,omitempty"`
}
