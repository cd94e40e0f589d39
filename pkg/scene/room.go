package scene

import (
	"errors"
	"math"

	"github.com/stagehand-games/stagehand/pkg/geom"
)

// Containment failures surfaced to callers. Only ErrNoSpace is meant for the
// player; the rest are silent no-ops at the interaction layer.
var (
	ErrCutsceneRoom   = errors.New("room is a cutscene")
	ErrAlreadyPresent = errors.New("room already contains item")
	ErrNoSpace        = errors.New("no space in room")
)

// snapItem gives up after this many probed cells; hitting it means the scan
// logic is broken, not that the room is full.
const gridScanLimit = 1000

// Room is a container entity: a world location, or the nested storage space
// of a container item.
type Room struct {
	ID          string
	Name        string
	Description string
	IsCutscene  bool
	Music       string

	BackRoom    *Room
	BackMessage string

	AlignToGrid bool
	Size        geom.Point

	Pos          geom.Vec2
	SortingOrder int

	// owner is the container item this room nests inside; nil for rooms in
	// the normal room graph.
	owner *Item
	world *World

	items []*Item
	grid  [][]*Item
}

// IsContainer reports whether the room is nested inside an item.
func (r *Room) IsContainer() bool {
	return r.owner != nil
}

// Owner returns the container item the room nests inside, or nil.
func (r *Room) Owner() *Item {
	return r.owner
}

// Items returns the contained items in insertion order.
func (r *Room) Items() []*Item {
	out := make([]*Item, len(r.items))
	copy(out, r.items)
	return out
}

// Contains reports whether the room holds it.
func (r *Room) Contains(it *Item) bool {
	for _, have := range r.items {
		if have == it {
			return true
		}
	}
	return false
}

// AddItem moves it into the room. For grid rooms the item is packed into the
// first free slot scanning row-major from the top-left; non-grid rooms evict
// the item from its previous owner and place it wherever it already sits.
// The move is atomic: on failure the item's previous containment is intact.
func (r *Room) AddItem(it *Item) error {
	if r.IsCutscene {
		return ErrCutsceneRoom
	}
	if r.Contains(it) {
		return ErrAlreadyPresent
	}

	if r.AlignToGrid {
		if err := r.snapItem(it); err != nil {
			return err
		}
	} else if it.Location != nil {
		it.Location.RemoveItem(it)
	}

	it.Location = r
	r.items = append(r.items, it)

	// stack the item just above the room's own layer
	it.SortingOrder = r.SortingOrder + 1

	if r.world != nil {
		r.world.log.Debug("add item to room", "item", it.ID, "room", r.ID)
	}
	return nil
}

// RemoveItem detaches it from the room and reassigns it to the world's
// nowhere sentinel.
func (r *Room) RemoveItem(it *Item) {
	if r.grid != nil {
		for y := range r.grid {
			for x := range r.grid[y] {
				if r.grid[y][x] == it {
					r.grid[y][x] = nil
				}
			}
		}
	}

	for i, have := range r.items {
		if have == it {
			r.items = append(r.items[:i], r.items[i+1:]...)
			break
		}
	}

	if r.world != nil {
		it.Location = r.world.Nowhere
		r.world.log.Debug("remove item from room", "item", it.ID, "room", r.ID)
	} else {
		it.Location = nil
	}
}

// AddItemsFrom bulk-transfers everything in src into r, applying each item's
// normal placement rules. Used to swap container contents in and out of the
// shared container-display room.
func (r *Room) AddItemsFrom(src *Room) {
	for _, it := range src.Items() {
		if err := r.AddItem(it); err != nil && r.world != nil {
			r.world.log.Warn("bulk transfer skipped item",
				"item", it.ID, "from", src.ID, "to", r.ID, "error", err)
		}
	}
}

// CanFit reports whether the item's footprint fits with its top-left cell at
// start, every covered cell free and in bounds.
func (r *Room) CanFit(it *Item, start geom.Point) bool {
	if r.grid == nil {
		return false
	}
	for x := start.X; x < start.X+it.Size.X; x++ {
		if x >= r.Size.X {
			return false
		}
		for y := start.Y; y < start.Y+it.Size.Y; y++ {
			if y >= r.Size.Y {
				return false
			}
			if r.grid[y][x] != nil {
				return false
			}
		}
	}
	return true
}

// OccupantAt returns the item claiming the grid cell, or nil.
func (r *Room) OccupantAt(p geom.Point) *Item {
	if r.grid == nil || p.X < 0 || p.Y < 0 || p.X >= r.Size.X || p.Y >= r.Size.Y {
		return nil
	}
	return r.grid[p.Y][p.X]
}

func (r *Room) snapItem(it *Item) error {
	var x, y int

	loops := 0
	for !r.CanFit(it, geom.Point{X: x, Y: y}) {
		x++
		if x >= r.Size.X {
			x = 0
			y++
		}
		if y >= r.Size.Y {
			return ErrNoSpace
		}

		loops++
		if loops > gridScanLimit {
			if r.world != nil {
				r.world.log.Error("grid scan exceeded iteration limit",
					"room", r.ID, "item", it.ID)
			}
			return ErrNoSpace
		}
	}

	if it.Location != nil {
		it.Location.RemoveItem(it)
	}

	slot := r.slotPosition(x, y)
	it.Pos = geom.Vec2{
		X: slot.X + float64(it.Size.X)/2,
		Y: slot.Y - float64(it.Size.Y)/2,
	}

	for cx := x; cx < x+it.Size.X; cx++ {
		for cy := y; cy < y+it.Size.Y; cy++ {
			r.grid[cy][cx] = it
		}
	}

	if r.world != nil {
		r.world.log.Debug("snap item to grid", "item", it.ID, "room", r.ID, "x", x, "y", y)
	}
	return nil
}

// slotPosition converts a grid cell to the world position of its top-left
// corner. The grid is centered on the room's position.
func (r *Room) slotPosition(x, y int) geom.Vec2 {
	left := math.Floor(r.Pos.X - float64(r.Size.X)/2)
	top := math.Floor(r.Pos.Y + float64(r.Size.Y)/2)
	return geom.Vec2{X: left + float64(x), Y: top - float64(y)}
}

func (r *Room) initGrid() {
	if !r.AlignToGrid {
		return
	}
	r.grid = make([][]*Item, r.Size.Y)
	for y := range r.grid {
		r.grid[y] = make([]*Item, r.Size.X)
	}
}
