package session

import (
	"fmt"

	"github.com/stagehand-games/stagehand/pkg/geom"
	"github.com/stagehand-games/stagehand/pkg/scene"
)

const (
	msgNothingToUse = "There's nothing you can use there."
	msgCannotGo     = "You can't go there."
)

// handleItemMouse routes pointer buttons on the topmost item under the
// pointer. Left selects and examines, right combines with the selection,
// middle tries to travel through the item.
func (s *Session) handleItemMouse(it *scene.Item, in PointerInput) {
	if in.LeftPressed {
		s.selectItem(it)
		s.drag.candidate = it
		s.drag.startPos = it.Pos
	}
	if in.RightPressed {
		s.window.Clear()
		if s.selected == nil || s.selected == it {
			s.ActionCombine(it, it)
		} else {
			s.ActionCombine(it, s.selected)
		}
	}
	if in.MiddlePressed {
		s.window.Clear()
		s.window.ShowMessage(it.NoGoText())
		if it.TargetRoom != nil {
			s.GoToRoom(it.TargetRoom)
		}
	}
}

// handleBackground routes clicks that hit no item: describing the room or
// inventory, and stock refusals for use and travel attempts.
func (s *Session) handleBackground(in PointerInput) {
	inv := s.cfg.Layout.InventoryRect
	if inv.Contains(in.Pos) {
		if in.LeftPressed {
			s.window.Clear()
			s.Deselect()
			if s.openContainer != nil && in.Pos.Y < inv.Center.Y {
				s.window.ShowMessage(s.world.ContainerDisplay.Description)
			} else {
				s.window.ShowMessage(s.world.Inventory.Description)
			}
		}
		return
	}
	if !s.cfg.Layout.RoomRect.Contains(in.Pos) {
		return
	}
	switch {
	case in.LeftPressed:
		s.window.Clear()
		s.Deselect()
		s.DescribeRoom()
	case in.RightPressed:
		s.window.Clear()
		s.window.ShowMessage(msgNothingToUse)
	case in.MiddlePressed:
		s.window.Clear()
		s.window.ShowMessage(msgCannotGo)
	}
}

// handleDrag runs the drag state machine: a press on a takeable item arms a
// candidate, movement past the threshold starts the drag, and release drops.
func (s *Session) handleDrag(in PointerInput) {
	if in.LeftReleased {
		s.drag.candidate = nil
		if it := s.drag.item; it != nil {
			s.drag.item = nil
			s.deselectItem(it)
			if s.dropItem(it, in.Pos) {
				if it.DropSound != "" {
					s.audio.PlaySound(it.DropSound, it.Pos)
				}
				self := it.SelfCombination()
				s.executeAction(self, false)
				if self == nil || self.Do == scene.ActionNone {
					s.AdvanceTurn()
				}
			} else {
				it.Pos = s.drag.startPos
			}
		}
		return
	}

	if s.drag.item == nil && s.drag.candidate != nil {
		if in.Pos.DistanceTo(s.drag.candidate.Pos) > s.cfg.DragThreshold {
			it := s.drag.candidate
			s.drag.candidate = nil
			if !it.CanTake {
				// tugging a fixed item reads as a travel attempt
				s.window.Clear()
				s.window.ShowMessage(it.NoGoText())
				if it.TargetRoom != nil {
					s.GoToRoom(it.TargetRoom)
				}
				return
			}
			s.drag.item = it
			s.window.Clear()
		}
	}
	if s.drag.item != nil {
		s.drag.item.Pos = in.Pos
	}
}

// dropItem releases it at the pointer position. It returns false when the
// drop could not land anywhere, in which case the item snaps back.
func (s *Session) dropItem(it *scene.Item, at geom.Vec2) bool {
	if s.checkDropCombine(it, at) {
		return false
	}
	inv := s.cfg.Layout.InventoryRect
	if inv.Contains(at) {
		if s.openContainer != nil && at.Y < inv.Center.Y {
			return s.dropInContainer(it)
		}
		return s.dropInInventory(it)
	}
	if s.cfg.Layout.RoomRect.Contains(at) {
		return s.dropInRoom(it)
	}
	return false
}

// checkDropCombine turns a drop onto another item into a combine between
// the two topmost items under the pointer. When it fires, the drop itself
// does not land.
func (s *Session) checkDropCombine(it *scene.Item, at geom.Vec2) bool {
	under := s.itemsUnderPointer(at)
	if len(under) < 2 {
		return false
	}
	switch it {
	case under[0]:
		s.ActionCombine(under[1], it)
	case under[1]:
		s.ActionCombine(under[0], it)
	}
	return true
}

func (s *Session) dropInInventory(it *scene.Item) bool {
	if it.Location == s.world.Inventory {
		return false
	}
	if !s.addItemTo(s.world.Inventory, it) {
		return false
	}
	s.window.Clear()
	s.window.ShowMessage(fmt.Sprintf("You take %s.", it.Name))
	return true
}

func (s *Session) dropInContainer(it *scene.Item) bool {
	if it.Location == s.world.ContainerDisplay {
		return false
	}
	if it == s.openContainer {
		s.window.Clear()
		s.window.ShowMessage("You can't drop a container into itself!")
		return false
	}
	if it.IsContainer() {
		s.window.Clear()
		s.window.ShowMessage(fmt.Sprintf("%s doesn't fit.", it.Name))
		return false
	}
	if !s.addItemTo(s.world.ContainerDisplay, it) {
		return false
	}
	s.window.Clear()
	s.window.ShowMessage(fmt.Sprintf("You put %s into %s.", it.Name, s.openContainer.Name))
	return true
}

func (s *Session) dropInRoom(it *scene.Item) bool {
	if it.Location == s.current {
		// repositioning within the room is free
		return true
	}
	if !s.addItemTo(s.current, it) {
		return false
	}
	s.window.Clear()
	s.window.ShowMessage(fmt.Sprintf("You drop %s in the room.", it.Name))
	return true
}
