package sticker

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/peterbourgon/diskv/v3"
)

// SnapshotKeeper is the persistence collaborator: it stores the latest
// snapshot durably and loads it back at startup. Save is invoked from a
// background writer; implementations must be safe for use from a single
// goroutine other than the UI thread.
type SnapshotKeeper interface {
	Save(snap Snapshot) error
	Load() (Snapshot, error)
}

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// --- diskv-backed keeper ---

const snapshotKey = "stickers-current"

// DiskKeeper persists snapshots as JSON documents in a diskv store rooted at
// a base directory.
type DiskKeeper struct {
	d *diskv.Diskv
}

// NewDiskKeeper creates a keeper rooted at basePath, creating the directory
// if needed.
func NewDiskKeeper(basePath string) (*DiskKeeper, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot keeper: ensure base path: %w", err)
	}
	return &DiskKeeper{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    keeperTransform,
		CacheSizeMax: 1024 * 1024, // 1MB
	})}, nil
}

// keeperTransform shards keys by their first dash-separated segment.
func keeperTransform(key string) []string {
	if i := strings.IndexByte(key, '-'); i > 0 {
		return []string{key[:i]}
	}
	return nil
}

// Save writes the snapshot, replacing any previous one. diskv writes via
// tmp file + rename, so a crash mid-save never corrupts the stored copy.
func (k *DiskKeeper) Save(snap Snapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("snapshot keeper: encode: %w", err)
	}
	if err := k.d.Write(snapshotKey, data); err != nil {
		return fmt.Errorf("snapshot keeper: write: %w", err)
	}
	return nil
}

// Load reads the stored snapshot. Returns ErrNoSnapshot on first run.
func (k *DiskKeeper) Load() (Snapshot, error) {
	if !k.d.Has(snapshotKey) {
		return Snapshot{}, ErrNoSnapshot
	}
	data, err := k.d.Read(snapshotKey)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot keeper: read: %w", err)
	}
	return DecodeSnapshot(data)
}

// --- async writer ---

// saver decouples commits from durable writes. Snapshots are captured
// synchronously by the store and handed over here; a single background
// goroutine writes them. Only the newest pending snapshot survives
// (latest-wins), so a burst of mutations costs one write, and a slow disk
// never backs up into the interaction path.
type saver struct {
	keeper SnapshotKeeper
	logger *log.Logger

	mu      sync.Mutex
	pending *Snapshot
	running bool
}

func newSaver(keeper SnapshotKeeper, logger *log.Logger) *saver {
	return &saver{keeper: keeper, logger: logger}
}

// enqueue schedules snap for writing, replacing any not-yet-written
// predecessor. Never blocks.
func (w *saver) enqueue(snap Snapshot) {
	w.mu.Lock()
	w.pending = &snap
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()
	go w.drain()
}

func (w *saver) drain() {
	for {
		w.mu.Lock()
		snap := w.pending
		w.pending = nil
		if snap == nil {
			w.running = false
			w.mu.Unlock()
			return
		}
		w.mu.Unlock()

		if err := w.keeper.Save(*snap); err != nil {
			w.logger.Error("snapshot save failed", "err", err)
		}
	}
}

// Flush writes any pending snapshot synchronously. Intended for shutdown
// paths; gestures never call it.
func (w *saver) flush() {
	w.mu.Lock()
	snap := w.pending
	w.pending = nil
	w.mu.Unlock()
	if snap != nil {
		if err := w.keeper.Save(*snap); err != nil {
			w.logger.Error("snapshot save failed", "err", err)
		}
	}
}
