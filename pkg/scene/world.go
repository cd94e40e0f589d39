package scene

import (
	"fmt"
	"log/slog"
)

// World is the live entity registry for one game: every room, item, and
// timer, indexed by stable id, plus the special rooms the engine needs.
type World struct {
	log *slog.Logger

	Items  []*Item
	Rooms  []*Room
	Timers []*Timer

	itemsByID  map[string]*Item
	roomsByID  map[string]*Room
	timersByID map[string]*Timer

	// Nowhere is the sentinel owner for items out of play.
	Nowhere *Room
	// Inventory is the player's carry room.
	Inventory *Room
	// ContainerDisplay is the shared room that shows an open container's
	// contents. Only one container is ever open, so one display room serves
	// them all.
	ContainerDisplay *Room
	// Start is the room the player begins in.
	Start *Room
}

// NewWorld creates an empty registry. A nil logger falls back to the default.
func NewWorld(log *slog.Logger) *World {
	if log == nil {
		log = slog.Default()
	}
	return &World{
		log:        log,
		itemsByID:  make(map[string]*Item),
		roomsByID:  make(map[string]*Room),
		timersByID: make(map[string]*Timer),
	}
}

// Logger returns the world's logger.
func (w *World) Logger() *slog.Logger {
	return w.log
}

// AddRoom registers a room and wires it to the world. Ids must be unique.
func (w *World) AddRoom(r *Room) error {
	if r.ID == "" {
		return fmt.Errorf("room has no id")
	}
	if _, ok := w.roomsByID[r.ID]; ok {
		return fmt.Errorf("duplicate room id %q", r.ID)
	}
	r.world = w
	r.initGrid()
	w.Rooms = append(w.Rooms, r)
	w.roomsByID[r.ID] = r
	return nil
}

// AddItem registers an item. Ids must be unique.
func (w *World) AddItem(it *Item) error {
	if it.ID == "" {
		return fmt.Errorf("item has no id")
	}
	if _, ok := w.itemsByID[it.ID]; ok {
		return fmt.Errorf("duplicate item id %q", it.ID)
	}
	w.Items = append(w.Items, it)
	w.itemsByID[it.ID] = it
	return nil
}

// AddTimer registers a timer in the process-wide journal.
func (w *World) AddTimer(t *Timer) error {
	if t.ID == "" {
		return fmt.Errorf("timer has no id")
	}
	if _, ok := w.timersByID[t.ID]; ok {
		return fmt.Errorf("duplicate timer id %q", t.ID)
	}
	w.Timers = append(w.Timers, t)
	w.timersByID[t.ID] = t
	return nil
}

// FindItemByID returns the item with the given id, or nil for empty/unknown
// ids.
func (w *World) FindItemByID(id string) *Item {
	if id == "" {
		return nil
	}
	return w.itemsByID[id]
}

// FindRoomByID returns the room with the given id, or nil for empty/unknown
// ids.
func (w *World) FindRoomByID(id string) *Room {
	if id == "" {
		return nil
	}
	return w.roomsByID[id]
}

// FindTimerByID returns the timer with the given id, or nil for
// empty/unknown ids.
func (w *World) FindTimerByID(id string) *Timer {
	if id == "" {
		return nil
	}
	return w.timersByID[id]
}
