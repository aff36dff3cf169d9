// Package sticker is a placement and anchoring engine for free-floating
// decorative objects ("stickers") on a scrollable canvas.
//
// Stickers are dragged onto the canvas and either float independently or
// anchor to a movable, resizable host container ("widget"), tracking the
// host as it moves. The engine covers drag/drop resolution, detach by
// dropping on empty space, double-click quick-detach, duplication, locking,
// z-ordering, transform edits (rotate/flip/opacity/size), and snapshot
// persistence. The surrounding application provides the collaborators: a
// host layout provider, a viewport, a renderer, and a persistence backend.
//
// # Quick start
//
// Wire a [Board] into your ebiten.Game and forward Update and Draw:
//
//	board := sticker.NewBoard(hosts, assets, sticker.DefaultOptions())
//	board.SetContext(sticker.Context{ViewMode: "desk", ProjectID: "p1"})
//
//	type Game struct{ board *sticker.Board }
//
//	func (g *Game) Update() error        { g.board.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.board.Draw(s) }
//
// For headless use (tests, servers of record), drive the pieces directly:
// [NewStore] owns the records, [NewDragController] turns pointer events into
// committed moves, [NewProjector] derives render positions, and [NewMenu]
// dispatches context-menu commands.
//
// # Anchoring model
//
// Every [PlacedSticker] is either floating (X, Y authoritative) or attached
// (host offset authoritative); the two are never mixed. Render positions
// are derived, never written back, so a sticker keeps meaningful coordinates
// the instant it detaches. Host boxes are re-read live at every hit-test and
// every projection; geometry can change mid-gesture.
//
// # Persistence
//
// Mutations commit synchronously in-process; durable writes happen
// fire-and-forget through a [SnapshotKeeper] such as [NewDiskKeeper].
// Restore with [Store.Hydrate], which skips individually invalid records.
package sticker
