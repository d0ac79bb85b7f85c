package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ayusman/leapointer/internal/device"
)

// FrameRepository stores raw device frames for a session.
type FrameRepository struct {
	db *sql.DB
}

// Frames returns the frame repository for this store.
func (s *Store) Frames() *FrameRepository {
	return &FrameRepository{db: s.db}
}

// Append inserts frames in a single transaction, numbering them from
// firstSequence upward.
func (r *FrameRepository) Append(sessionID string, firstSequence int, frames []device.Frame) error {
	if len(frames) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO frames (session_id, sequence, timestamp_us, data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, f := range frames {
		data, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("encode frame %d: %w", f.ID, err)
		}
		if _, err := stmt.Exec(sessionID, firstSequence+i, f.Timestamp, string(data)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// BySession retrieves all frames of a session in recorded order.
func (r *FrameRepository) BySession(sessionID string) ([]device.Frame, error) {
	rows, err := r.db.Query(
		`SELECT data FROM frames WHERE session_id = ? ORDER BY sequence`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []device.Frame
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var f device.Frame
		if err := json.Unmarshal([]byte(data), &f); err != nil {
			return nil, fmt.Errorf("decode frame: %w", err)
		}
		frames = append(frames, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return frames, nil
}

// Count returns the number of frames stored for a session.
func (r *FrameRepository) Count(sessionID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM frames WHERE session_id = ?`, sessionID).Scan(&n)
	return n, err
}
