package sticker

import "fmt"

// Menu is the context-menu action dispatcher. It is opened by
// secondary-click or long-press on a sticker and maps discrete commands 1:1
// onto Store operations.
//
// Exactly one menu instance is ever open: opening it for a different sticker
// closes the previous one. There is nothing to lose in that close: every
// slider and toggle change is applied to the store immediately, never
// buffered. Opening the menu implicitly selects the sticker (the front end
// shows resize/rotate handles for the selection), even without a prior
// primary click.
type Menu struct {
	store   *Store
	openFor ID // "" = closed
}

// NewMenu creates a closed menu dispatching to store.
func NewMenu(store *Store) *Menu {
	return &Menu{store: store}
}

// Open opens the menu for the given sticker, closing any previously open
// instance. Locked stickers are valid targets: every menu command except
// drag works on them.
func (m *Menu) Open(id ID) error {
	if _, ok := m.store.Get(id); !ok {
		m.openFor = ""
		return fmt.Errorf("menu: sticker %q: %w", id, ErrNotFound)
	}
	m.openFor = id
	return nil
}

// Close closes the menu (Escape, outside-click, or action selection).
func (m *Menu) Close() {
	m.openFor = ""
}

// Target returns the sticker the menu is open for. The open target is also
// the implicit selection.
func (m *Menu) Target() (ID, bool) {
	return m.openFor, m.openFor != ""
}

// IsOpen reports whether the menu is currently open.
func (m *Menu) IsOpen() bool {
	return m.openFor != ""
}

// --- Commands ---
//
// Each command routes to the open target. Commands on a closed menu are
// no-ops returning nil; the front end cannot invoke them without an open
// menu, so a stale call is not an error worth surfacing.

// Duplicate clones the target sticker and closes the menu.
func (m *Menu) Duplicate() (*PlacedSticker, error) {
	if m.openFor == "" {
		return nil, nil
	}
	id := m.openFor
	m.Close()
	return m.store.Duplicate(id)
}

// Delete removes the target sticker and closes the menu.
func (m *Menu) Delete() error {
	if m.openFor == "" {
		return nil
	}
	id := m.openFor
	m.Close()
	return m.store.Remove(id)
}

// ToggleLock flips the target's locked flag. The menu stays open so the
// label can flip between Lock and Unlock.
func (m *Menu) ToggleLock() error {
	id, ok := m.Target()
	if !ok {
		return nil
	}
	s, found := m.store.Get(id)
	if !found {
		return m.store.SetLocked(id, true) // surfaces NotFound
	}
	return m.store.SetLocked(id, !s.Locked)
}

// BringToFront raises the target above its context siblings.
func (m *Menu) BringToFront() error {
	if m.openFor == "" {
		return nil
	}
	return m.store.BringToFront(m.openFor)
}

// SetSize applies a size edit live.
func (m *Menu) SetSize(width, height float64) error {
	if m.openFor == "" {
		return nil
	}
	return m.store.SetTransform(m.openFor, TransformPatch{
		Width:  &width,
		Height: &height,
	})
}

// SetScale applies a scale edit live.
func (m *Menu) SetScale(scale float64) error {
	if m.openFor == "" {
		return nil
	}
	return m.store.SetTransform(m.openFor, TransformPatch{Scale: &scale})
}

// SetRotation applies a rotation edit (degrees) live.
func (m *Menu) SetRotation(degrees float64) error {
	if m.openFor == "" {
		return nil
	}
	return m.store.SetTransform(m.openFor, TransformPatch{Rotation: &degrees})
}

// FlipHorizontal toggles the horizontal mirror.
func (m *Menu) FlipHorizontal() error {
	return m.flip(func(s *PlacedSticker) TransformPatch {
		v := !s.FlipX
		return TransformPatch{FlipX: &v}
	})
}

// FlipVertical toggles the vertical mirror.
func (m *Menu) FlipVertical() error {
	return m.flip(func(s *PlacedSticker) TransformPatch {
		v := !s.FlipY
		return TransformPatch{FlipY: &v}
	})
}

// SetOpacity applies an opacity edit live. Values outside [0, 1] are
// clamped by the store.
func (m *Menu) SetOpacity(opacity float64) error {
	if m.openFor == "" {
		return nil
	}
	return m.store.SetTransform(m.openFor, TransformPatch{Opacity: &opacity})
}

func (m *Menu) flip(patch func(*PlacedSticker) TransformPatch) error {
	id, ok := m.Target()
	if !ok {
		return nil
	}
	s, found := m.store.Get(id)
	if !found {
		return m.store.SetTransform(id, TransformPatch{}) // surfaces NotFound
	}
	return m.store.SetTransform(id, patch(s))
}
