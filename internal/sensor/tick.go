package sensor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/banshee-data/irpointer/internal/pointing"
)

// ErrNotTick is returned by ParseTick for lines that are not JSON objects,
// such as bridge boot banners.
var ErrNotTick = errors.New("line is not a tick record")

// TickRecord is the line format emitted by the bridge.
type TickRecord struct {
	Seq    uint64                  `json:"seq"`
	Points []pointing.TrackedPoint `json:"points"`
}

// NewTickRecord builds a record from a PointSet, listing every slot.
func NewTickRecord(seq uint64, ps pointing.PointSet) TickRecord {
	return TickRecord{Seq: seq, Points: ps[:]}
}

// Encode returns the record as a single JSON line without a trailing newline.
func (r TickRecord) Encode() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PointSet arranges the record's points by raw slot. Slots the record does
// not mention are invalid. Points outside sensor space are kept but marked
// invalid; structural problems are errors.
func (r TickRecord) PointSet() (pointing.PointSet, error) {
	var ps pointing.PointSet
	for i := range ps {
		ps[i].Slot = pointing.SlotIndex(i)
	}

	if len(r.Points) > pointing.NumPoints {
		return ps, fmt.Errorf("tick %d: %d points, at most %d allowed", r.Seq, len(r.Points), pointing.NumPoints)
	}

	var seen [pointing.NumPoints]bool
	for _, p := range r.Points {
		if p.Slot >= pointing.NumPoints {
			return ps, fmt.Errorf("tick %d: slot %d out of range", r.Seq, p.Slot)
		}
		if seen[p.Slot] {
			return ps, fmt.Errorf("tick %d: duplicate slot %d", r.Seq, p.Slot)
		}
		seen[p.Slot] = true

		if err := p.Validate(); err != nil {
			logf("tick %d: dropping point: %v", r.Seq, err)
			p.Valid = false
		}
		ps[p.Slot] = p
	}
	return ps, nil
}

// ParseTick decodes one bridge line into a PointSet.
func ParseTick(line string) (TickRecord, pointing.PointSet, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "{") {
		return TickRecord{}, pointing.PointSet{}, ErrNotTick
	}

	var rec TickRecord
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return TickRecord{}, pointing.PointSet{}, fmt.Errorf("failed to unmarshal tick: %w", err)
	}

	ps, err := rec.PointSet()
	if err != nil {
		return rec, pointing.PointSet{}, err
	}
	return rec, ps, nil
}
