package session

import (
	"context"
	"fmt"

	"github.com/stagehand-games/stagehand/pkg/geom"
	"github.com/stagehand-games/stagehand/pkg/save"
	"github.com/stagehand-games/stagehand/pkg/scene"
)

// SaveGame writes the session's state to the active save slot and tells
// the player about it.
func (s *Session) SaveGame(ctx context.Context) error {
	return s.saveAs(ctx, save.SlotName(s.cfg.SaveSlot), true)
}

// LoadGame restores the session's state from the active save slot.
func (s *Session) LoadGame(ctx context.Context) error {
	return s.loadFrom(ctx, save.SlotName(s.cfg.SaveSlot), true)
}

// TempLoad restores the transition autosave, rewinding to the moment the
// player last changed rooms.
func (s *Session) TempLoad(ctx context.Context) error {
	return s.loadFrom(ctx, save.TempSlot, false)
}

// saveAs snapshots every include-in-save item plus the player's room and
// open container. An open container closes around the snapshot so its
// contents are recorded in their real room, then reopens.
func (s *Session) saveAs(ctx context.Context, name string, report bool) error {
	if s.current == nil {
		s.log.Warn("tried to save before entering a room")
		return fmt.Errorf("no current room to save")
	}

	data := save.GameData{PlayerRoomID: s.current.ID}
	if s.openContainer != nil {
		data.OpenContainerID = s.openContainer.ID
	}

	reopen := s.openContainer
	s.closeContainer()

	for _, it := range s.world.Items {
		if !it.IncludeInSave {
			continue
		}
		rec := save.ItemRecord{
			ItemID:       it.ID,
			IsActive:     it.Active,
			PosX:         it.Pos.X,
			PosY:         it.Pos.Y,
			SortingOrder: it.SortingOrder,
		}
		if it.Location != nil {
			rec.RoomID = it.Location.ID
		}
		data.Items = append(data.Items, rec)
	}

	blob, err := data.Marshal()
	if err == nil {
		err = s.store.Set(ctx, name, blob)
	}
	s.ToggleContainer(reopen)
	if err != nil {
		s.log.Error("save failed", "slot", name, "error", err)
		return err
	}

	if report {
		s.window.Clear()
		s.window.ShowMessage(fmt.Sprintf("Game saved to '%s'.", name))
	}
	s.log.Info("game saved", "slot", name, "items", len(data.Items))
	return nil
}

// loadFrom restores a snapshot. Every reference is resolved before any
// world state changes, so a snapshot that fails to parse leaves the session
// untouched; records naming unknown items or rooms are skipped with a
// warning rather than aborting the load.
func (s *Session) loadFrom(ctx context.Context, name string, report bool) error {
	blob, err := s.store.Get(ctx, name)
	if err != nil {
		s.log.Error("load failed", "slot", name, "error", err)
		return err
	}
	if blob == "" {
		s.window.Clear()
		s.window.ShowMessage(fmt.Sprintf("No save in '%s'.", name))
		return nil
	}

	data, err := save.Unmarshal(blob)
	if err != nil {
		s.log.Error("save data corrupt", "slot", name, "error", err)
		return err
	}

	type resolved struct {
		item *scene.Item
		room *scene.Room
		rec  save.ItemRecord
	}
	var records []resolved
	for _, rec := range data.Items {
		it := s.world.FindItemByID(rec.ItemID)
		if it == nil {
			s.log.Warn("save references unknown item, skipping", "item", rec.ItemID)
			continue
		}
		room := s.world.FindRoomByID(rec.RoomID)
		if room == nil {
			s.log.Warn("save references unknown room, skipping",
				"item", rec.ItemID, "room", rec.RoomID)
			continue
		}
		records = append(records, resolved{item: it, room: room, rec: rec})
	}

	playerRoom := s.world.FindRoomByID(data.PlayerRoomID)
	if playerRoom == nil {
		s.log.Error("save references unknown player room", "room", data.PlayerRoomID)
		return fmt.Errorf("save references unknown player room %q", data.PlayerRoomID)
	}

	s.closeContainer()

	// detach first so grid rooms repack cleanly, then place
	for _, r := range records {
		if r.item.Location != nil {
			r.item.Location.RemoveItem(r.item)
		}
	}
	// grid rooms repack in record order, so two same-footprint items may
	// land in swapped slots; saves never record grid cells, only positions
	for _, r := range records {
		r.item.Pos = geom.Vec2{X: r.rec.PosX, Y: r.rec.PosY}
		r.item.Active = r.rec.IsActive
		if err := r.room.AddItem(r.item); err != nil {
			s.log.Warn("saved item does not fit, leaving out of play",
				"item", r.item.ID, "room", r.room.ID, "error", err)
			continue
		}
		// AddItem restacks, so the saved order goes on afterward
		if r.rec.SortingOrder != 0 {
			r.item.SortingOrder = r.rec.SortingOrder
		}
	}

	s.selected = nil
	s.drag = dragState{}
	s.shouldEndGame = false
	s.gameOverRoom = nil
	s.gameOver = false

	if container := s.world.FindItemByID(data.OpenContainerID); container != nil {
		s.ToggleContainer(container)
	}
	if s.current != playerRoom {
		s.GoToRoom(playerRoom)
	}

	if report {
		s.window.Clear()
		s.window.ShowMessage(fmt.Sprintf("Game loaded from '%s'.", name))
	}
	s.log.Info("game loaded", "slot", name, "items", len(records))
	return nil
}
