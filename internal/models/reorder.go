package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// PositionUpdate is one (id, position) pair of a reorder batch
type PositionUpdate struct {
	ID       int
	Position int
}

// ReorderRequest is a batch of position updates keyed by row ID.
// Pairs keep the order in which they appeared in the JSON object.
type ReorderRequest struct {
	Updates []PositionUpdate
}

// UnmarshalJSON decodes {"<id>": <position>, ...} keeping key order
func (r *ReorderRequest) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: reorder payload must be a JSON object", ErrValidation)
	}

	r.Updates = r.Updates[:0]
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		key, _ := keyTok.(string)
		id, err := strconv.Atoi(key)
		if err != nil || id < 0 {
			return fmt.Errorf("%w: id %q must be a non-negative integer", ErrValidation, key)
		}

		valTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return fmt.Errorf("%w: position for id %d must be a number", ErrValidation, id)
		}
		position, err := strconv.Atoi(num.String())
		if err != nil || position < 0 || int64(position) > MaxPosition {
			return fmt.Errorf("%w: position for id %d must be an integer between 0 and %d", ErrValidation, id, int64(MaxPosition))
		}

		r.Updates = append(r.Updates, PositionUpdate{ID: id, Position: position})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// MarshalJSON encodes the batch back into its object form
func (r ReorderRequest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, u := range r.Updates {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%d", strconv.Itoa(u.ID), u.Position)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ReorderResult reports how a reorder batch was applied
type ReorderResult struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
}
