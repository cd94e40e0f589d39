package scene

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Action is the closed set of effects a combination can apply when it fires.
type Action int

const (
	ActionNone Action = iota
	ActionDestroy
	ActionGameOver
	ActionMessage
	ActionReplace
	ActionOpen
	ActionChangeDescription
	ActionChangeExit
	ActionMovePlayer
	ActionMoveItemToRoom
	ActionStartTimer
	ActionStopTimer
	ActionPauseTimer
	ActionScaleItem
)

var actionNames = map[Action]string{
	ActionNone:              "none",
	ActionDestroy:           "destroy",
	ActionGameOver:          "game_over",
	ActionMessage:           "message",
	ActionReplace:           "replace",
	ActionOpen:              "open",
	ActionChangeDescription: "change_description",
	ActionChangeExit:        "change_exit",
	ActionMovePlayer:        "move_player",
	ActionMoveItemToRoom:    "move_item_to_room",
	ActionStartTimer:        "start_timer",
	ActionStopTimer:         "stop_timer",
	ActionPauseTimer:        "pause_timer",
	ActionScaleItem:         "scale_item",
}

var actionValues = func() map[string]Action {
	m := make(map[string]Action, len(actionNames))
	for a, name := range actionNames {
		m[name] = a
	}
	return m
}()

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// CostsTurn reports whether executing the action advances the turn counter.
// This is the single source of truth for turn accounting; the drop rule in
// the session layer builds on it.
func (a Action) CostsTurn() bool {
	switch a {
	case ActionDestroy, ActionReplace, ActionMoveItemToRoom, ActionMovePlayer, ActionScaleItem:
		return true
	}
	return false
}

// NeedsTarget reports whether the action requires a target item. Actions
// without one of the other requirements below default their target to the
// owning item at load time.
func (a Action) NeedsTarget() bool {
	return a != ActionGameOver && a != ActionMessage && a != ActionMovePlayer
}

// NeedsRoom reports whether the action requires a target room.
func (a Action) NeedsRoom() bool {
	switch a {
	case ActionGameOver, ActionChangeDescription, ActionChangeExit, ActionMoveItemToRoom, ActionMovePlayer:
		return true
	}
	return false
}

// NeedsTimer reports whether the action requires a timer reference.
func (a Action) NeedsTimer() bool {
	return a == ActionStartTimer || a == ActionStopTimer || a == ActionPauseTimer
}

// NeedsPosOrScale reports whether the action consumes the position/scale field.
func (a Action) NeedsPosOrScale() bool {
	return a == ActionMoveItemToRoom || a == ActionScaleItem
}

// MarshalJSON encodes the action as its snake_case name.
func (a Action) MarshalJSON() ([]byte, error) {
	name, ok := actionNames[a]
	if !ok {
		return nil, fmt.Errorf("unknown action %d", int(a))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes an action from its snake_case name. An empty string
// decodes to ActionNone.
func (a *Action) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if name == "" {
		*a = ActionNone
		return nil
	}
	v, ok := actionValues[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown action %q", name)
	}
	*a = v
	return nil
}
