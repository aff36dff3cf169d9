package sticker

import (
	"encoding/json"
	"math"
	"sort"
	"time"
)

// snapshotVersion is bumped when the record layout changes incompatibly.
// Hydrate tolerates unknown fields, so additive changes don't bump it.
const snapshotVersion = 1

// Snapshot is a plain, serializable copy of every PlacedSticker record,
// captured after each committed mutation and restored at startup.
type Snapshot struct {
	Version  int             `json:"version"`
	SavedAt  time.Time       `json:"savedAt"`
	Stickers []PlacedSticker `json:"stickers"`
}

// Snapshot captures the current store state. The result is a deep copy and
// safe to hand to another goroutine (the async persistence writer).
// Stickers are ordered by context, then ZIndex, so encodings are stable.
func (st *Store) Snapshot() Snapshot {
	list := make([]PlacedSticker, 0, len(st.stickers))
	for _, s := range st.stickers {
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := &list[i], &list[j]
		if a.ViewMode != b.ViewMode {
			return a.ViewMode < b.ViewMode
		}
		if a.ProjectID != b.ProjectID {
			return a.ProjectID < b.ProjectID
		}
		return a.ZIndex < b.ZIndex
	})
	return Snapshot{
		Version:  snapshotVersion,
		SavedAt:  time.Now(),
		Stickers: list,
	}
}

// Hydrate replaces the store contents with the snapshot's records. Restore
// is forward-degrading: individually invalid records are skipped (and
// logged) rather than aborting the whole restore. This is the only place
// partial failure is tolerated. Returns the number of stickers restored.
//
// ZIndex uniqueness within each context is re-established on the way in:
// colliding records keep their relative order and are renumbered upward.
func (st *Store) Hydrate(snap Snapshot) int {
	st.stickers = make(map[ID]*PlacedSticker, len(snap.Stickers))
	topZ := make(map[Context]int)

	restored := 0
	for i := range snap.Stickers {
		s := snap.Stickers[i] // copy
		if reason := validateRecord(&s); reason != "" {
			st.logger.Warn("skipping invalid sticker record",
				"id", s.ID, "reason", reason)
			continue
		}
		if _, dup := st.stickers[s.ID]; dup {
			st.logger.Warn("skipping duplicate sticker record", "id", s.ID)
			continue
		}
		if s.ZIndex <= topZ[s.Context] {
			s.ZIndex = topZ[s.Context] + 1
		}
		topZ[s.Context] = s.ZIndex
		st.stickers[s.ID] = &s
		restored++
	}
	st.logger.Debug("hydrated store",
		"restored", restored, "skipped", len(snap.Stickers)-restored)
	return restored
}

// validateRecord returns a non-empty reason when the record cannot be
// restored safely. Repairable oddities (opacity out of range, zero scale)
// are fixed in place instead of rejected.
func validateRecord(s *PlacedSticker) string {
	if s.ID == "" {
		return "missing id"
	}
	if s.AssetID == "" {
		return "missing asset id"
	}
	if badNumber(s.X, s.Y, s.OffsetX, s.OffsetY, s.Width, s.Height,
		s.Rotation, s.Scale, s.Opacity) {
		return "non-finite numeric field"
	}
	if !s.Attached() && (s.OffsetX != 0 || s.OffsetY != 0) {
		// Canonical floating form has zero offsets; repair rather than
		// reject, the offsets carry no meaning while floating.
		s.OffsetX = 0
		s.OffsetY = 0
	}
	s.Opacity = clamp01(s.Opacity)
	if s.Scale <= 0 {
		s.Scale = 1
	}
	return ""
}

func badNumber(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// EncodeSnapshot serializes a snapshot to JSON.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

// DecodeSnapshot parses a JSON snapshot. A malformed document is an error;
// individually malformed records inside a well-formed document are dealt
// with by Hydrate.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
