package persist

import (
	"encoding/json"
	"errors"
	"fmt"

	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
)

// Codec errors. All of them cause the caller to discard the stored value
// and reseed defaults; none is surfaced to the user.
var (
	ErrNotArray  = errors.New("persist: stored layout is not an array")
	ErrMissingID = errors.New("persist: stored record missing id")
)

// record is the durable shape of one widget instance. Older schema versions
// stored explicit card dimensions; those fields are accepted on read and
// stripped unconditionally, never written back.
type record struct {
	ID     string        `json:"id"`
	Type   string        `json:"type"`
	Config *board.Config `json:"config,omitempty"`

	// Legacy fixed-size layout fields. Read-only; dropped on encode.
	Width  json.RawMessage `json:"width,omitempty"`
	Height json.RawMessage `json:"height,omitempty"`
}

// EncodeLayout serializes a widget sequence into the durable JSON form.
// Legacy width/height fields are never emitted, so encoding the result of
// DecodeLayout is a fixed point of the migration.
func EncodeLayout(seq []board.Instance) ([]byte, error) {
	records := make([]record, len(seq))
	for i, in := range seq {
		records[i] = record{ID: in.ID, Type: string(in.Kind)}
		if !in.Config.IsZero() {
			c := in.Config.Clone()
			records[i].Config = &c
		}
	}
	return json.Marshal(records)
}

// DecodeLayout parses durable bytes back into a widget sequence,
// migrating legacy records along the way. The whole value is rejected if
// it is not valid JSON, not an array, or contains any record without a
// string id and a known widget type — no partial recovery of malformed
// entries.
func DecodeLayout(data []byte) ([]board.Instance, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		// Distinguish "valid JSON, wrong shape" for the log line.
		var probe any
		if json.Unmarshal(data, &probe) == nil {
			return nil, fmt.Errorf("%w", ErrNotArray)
		}
		return nil, fmt.Errorf("persist: invalid layout JSON: %w", err)
	}

	seq := make([]board.Instance, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("%w (record %d)", ErrMissingID, i)
		}
		kind, err := board.ParseKind(r.Type)
		if err != nil {
			return nil, fmt.Errorf("persist: record %d: %w", i, err)
		}
		in := board.Instance{ID: r.ID, Kind: kind}
		if r.Config != nil {
			in.Config = r.Config.Clone()
		}
		seq[i] = in
	}
	return seq, nil
}

// MinimizeLayout projects each instance down to id, type, and the smallest
// config worth keeping, for the quota-exceeded retry path.
func MinimizeLayout(seq []board.Instance) []board.Instance {
	out := make([]board.Instance, len(seq))
	for i, in := range seq {
		out[i] = board.Instance{ID: in.ID, Kind: in.Kind, Config: in.Config.Minimal()}
	}
	return out
}
