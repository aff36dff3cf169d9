package sticker

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Options tunes gesture and placement behavior. Zero values are not usable;
// start from DefaultOptions or LoadOptions.
type Options struct {
	// DragDeadZone is the pointer travel in canvas units before a press
	// becomes a drag.
	DragDeadZone float64

	// DuplicateOffset is the nudge applied to a duplicated sticker's stored
	// position so it never exactly overlaps the original.
	DuplicateOffset float64

	// DoubleClickWindow is the maximum interval between two presses on the
	// same sticker to count as a double click.
	DoubleClickWindow time.Duration

	// DefaultWidth and DefaultHeight size newly placed stickers until the
	// front end applies the asset's own dimensions.
	DefaultWidth  float64
	DefaultHeight float64
}

// DefaultOptions returns the engine's tuning defaults.
func DefaultOptions() Options {
	return Options{
		DragDeadZone:      3,
		DuplicateOffset:   16,
		DoubleClickWindow: 350 * time.Millisecond,
		DefaultWidth:      64,
		DefaultHeight:     64,
	}
}

// optionsFile is the TOML form. Pointer fields distinguish "absent" from
// zero so a partial file only overrides what it names. The double-click
// window is expressed in milliseconds.
type optionsFile struct {
	DragDeadZone    *float64 `toml:"drag_dead_zone"`
	DuplicateOffset *float64 `toml:"duplicate_offset"`
	DoubleClickMs   *int     `toml:"double_click_ms"`
	DefaultWidth    *float64 `toml:"default_width"`
	DefaultHeight   *float64 `toml:"default_height"`
}

// LoadOptions reads a TOML file over the defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	var file optionsFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return opts, fmt.Errorf("load options: %w", err)
	}
	if file.DragDeadZone != nil {
		opts.DragDeadZone = *file.DragDeadZone
	}
	if file.DuplicateOffset != nil {
		opts.DuplicateOffset = *file.DuplicateOffset
	}
	if file.DoubleClickMs != nil {
		opts.DoubleClickWindow = time.Duration(*file.DoubleClickMs) * time.Millisecond
	}
	if file.DefaultWidth != nil {
		opts.DefaultWidth = *file.DefaultWidth
	}
	if file.DefaultHeight != nil {
		opts.DefaultHeight = *file.DefaultHeight
	}
	if err := opts.validate(); err != nil {
		return DefaultOptions(), fmt.Errorf("load options %s: %w", path, err)
	}
	return opts, nil
}

func (o Options) validate() error {
	if o.DragDeadZone < 0 {
		return fmt.Errorf("drag_dead_zone must be >= 0, got %v", o.DragDeadZone)
	}
	if o.DoubleClickWindow <= 0 {
		return fmt.Errorf("double_click_ms must be positive, got %v", o.DoubleClickWindow)
	}
	if o.DefaultWidth <= 0 || o.DefaultHeight <= 0 {
		return fmt.Errorf("default sticker size must be positive, got %vx%v",
			o.DefaultWidth, o.DefaultHeight)
	}
	return nil
}
