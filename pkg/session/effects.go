package session

import (
	"errors"
	"fmt"

	"github.com/stagehand-games/stagehand/pkg/geom"
	"github.com/stagehand-games/stagehand/pkg/scene"
)

// ExecuteAction applies one combination's effect to the world. The
// combination's message is shown as-is; the combine flow composes messages
// itself and the drop flow suppresses them, both calling executeAction
// directly.
func (s *Session) ExecuteAction(c *scene.Combination) {
	s.executeAction(c, true)
}

func (s *Session) executeAction(c *scene.Combination, showMessage bool) {
	if c == nil || c.Do == scene.ActionNone {
		return
	}

	switch c.Do {
	case scene.ActionDestroy:
		s.removeFromGame(c.Target)

	case scene.ActionGameOver:
		s.shouldEndGame = true
		s.gameOverRoom = c.Room

	case scene.ActionMessage:
		// the message itself is the effect

	case scene.ActionOpen:
		if s.selected == c.Target {
			s.Deselect()
		}
		s.ToggleContainer(c.Target)

	case scene.ActionReplace:
		if c.Trigger != nil {
			s.replaceWith(c.Trigger, c.ReplaceTriggerWith)
		}
		if c.Target != nil && c.Target != c.Trigger {
			s.replaceWith(c.Target, c.ReplaceTargetWith)
		}

	case scene.ActionChangeDescription:
		c.Room.Description = c.NewDescription

	case scene.ActionChangeExit:
		c.Target.TargetRoom = c.Room

	case scene.ActionMoveItemToRoom:
		if s.selected == c.Target {
			s.Deselect()
		}
		if c.Room == nil {
			s.removeFromGame(c.Target)
			break
		}
		if s.drag.item == c.Target {
			s.drag = dragState{}
		}
		if s.addItemTo(c.Room, c.Target) {
			c.Target.Pos = c.PosOrScale
			c.Target.Active = true
		}

	case scene.ActionMovePlayer:
		if s.selected == c.Target {
			s.Deselect()
		}
		s.GoToRoom(c.Room)
		if c.ClearBefore {
			s.window.Clear()
		}

	case scene.ActionScaleItem:
		if s.selected == c.Target {
			s.Deselect()
		}
		c.Target.Scale = c.PosOrScale

	case scene.ActionStartTimer:
		c.Timer.Start()

	case scene.ActionStopTimer:
		c.Timer.Stop()

	case scene.ActionPauseTimer:
		c.Timer.Pause()
	}

	if c.Sound != "" {
		s.audio.PlaySound(c.Sound, geom.Vec2{})
	}
	if s.selected != nil {
		s.Deselect()
	}
	if c.Do.CostsTurn() {
		s.AdvanceTurn()
	}
	if showMessage && c.Message != "" {
		s.window.ShowMessage(c.Message)
	}
}

// ActionCombine runs every combination on owner triggered by used, highest
// priority first, and shows one composed message for the batch. Using an
// item on itself (used == owner) is how self combinations fire by hand.
func (s *Session) ActionCombine(owner, used *scene.Item) {
	matches := scene.SortedByPriority(owner.CombinationsWith(used))

	fired := false
	msg := ""
	for _, c := range matches {
		if c.Do == scene.ActionNone {
			continue
		}
		fired = true
		s.executeAction(c, false)

		m := c.Message
		if c.Do == scene.ActionOpen && s.openContainer != owner {
			// the open toggled shut, tell the second story
			m = c.Message2
		}
		if m == "" {
			continue
		}
		if msg != "" {
			msg += " "
		}
		msg += m
	}

	if !fired {
		s.window.Clear()
		if used == owner {
			s.window.ShowMessage(owner.UseFailText())
		} else {
			s.window.ShowMessage(owner.ComboFailText(used))
		}
		return
	}
	if msg != "" {
		s.window.ShowMessage(used.ParseMessage(msg, owner))
	}
}

// removeFromGame deactivates an item and detaches it from wherever it is,
// including the container display if a container is open.
func (s *Session) removeFromGame(it *scene.Item) {
	if it == nil {
		return
	}
	if s.selected == it {
		s.Deselect()
	}
	if s.drag.item == it || s.drag.candidate == it {
		s.drag = dragState{}
	}
	it.Active = false
	if it.Location != nil {
		it.Location.RemoveItem(it)
	}
	if s.openContainer != nil {
		s.world.ContainerDisplay.RemoveItem(it)
	}
	s.log.Debug("item removed from game", "item", it.ID)
}

// replaceWith swaps old for sub in place: sub activates where old was.
func (s *Session) replaceWith(old, sub *scene.Item) {
	if old == nil || sub == old {
		return
	}
	if sub == nil {
		s.removeFromGame(old)
		return
	}
	loc := old.Location
	pos := old.Pos
	s.removeFromGame(old)
	sub.Active = true
	if loc == nil || loc == s.world.Nowhere {
		return
	}
	if loc.Contains(sub) {
		return
	}
	if s.addItemTo(loc, sub) && !loc.AlignToGrid {
		sub.Pos = pos
	}
}

// addItemTo moves it into room, reporting a failed grid fit to the player.
func (s *Session) addItemTo(room *scene.Room, it *scene.Item) bool {
	err := room.AddItem(it)
	if err == nil {
		return true
	}
	if errors.Is(err, scene.ErrNoSpace) {
		s.window.ShowMessage(fmt.Sprintf("No space in %s for %s.", room.Name, it.Name))
	} else {
		s.log.Error("failed to move item", "item", it.ID, "room", room.ID, "error", err)
	}
	return false
}

// ToggleContainer opens it, or closes it if it is already the open one.
// Opening while another container is open closes that one first. The
// container's contents surface one tick later, once the display is ready.
func (s *Session) ToggleContainer(it *scene.Item) {
	if it == nil {
		return
	}
	if s.openContainer == it {
		s.closeContainer()
		return
	}
	if s.openContainer != nil {
		s.closeContainer()
	}
	if it.ContainerRoom == nil {
		s.log.Error("tried to open item with no container room", "item", it.ID)
		return
	}
	s.openContainer = it
	s.pendingContainer = it
	s.log.Debug("container opened", "item", it.ID)
}

func (s *Session) settleContainer() {
	if s.pendingContainer == nil {
		return
	}
	it := s.pendingContainer
	s.pendingContainer = nil
	s.world.ContainerDisplay.AddItemsFrom(it.ContainerRoom)
}

func (s *Session) closeContainer() {
	if s.openContainer == nil {
		return
	}
	it := s.openContainer
	s.openContainer = nil
	s.pendingContainer = nil
	it.ContainerRoom.AddItemsFrom(s.world.ContainerDisplay)
	s.log.Debug("container closed", "item", it.ID)
}

// CloseContainerIfNotHeld closes the open container unless the player is
// carrying it. Room transitions call this so a held container stays open.
func (s *Session) CloseContainerIfNotHeld() {
	if s.openContainer == nil {
		return
	}
	if s.openContainer.Location != s.world.Inventory {
		s.closeContainer()
	}
}
