package testdata

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
)

//go:embed leap/*.jsonl
var leapFS embed.FS

// LoadLeapMessages loads a recorded Leap service stream by name. Each
// element is one WebSocket text message, in the order it was received.
func LoadLeapMessages(name string) ([][]byte, error) {
	data, err := leapFS.ReadFile("leap/" + name)
	if err != nil {
		return nil, fmt.Errorf("load leap stream %s: %w", name, err)
	}

	var messages [][]byte
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		messages = append(messages, append([]byte(nil), line...))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read leap stream %s: %w", name, err)
	}

	return messages, nil
}

// MoveTap is a stream with a 40 mm move, a key tap, a dropped hand and a
// device detach at the end.
const MoveTap = "move_tap.jsonl"
