package scene

import (
	"strings"

	"github.com/stagehand-games/stagehand/pkg/geom"
)

// Sprite layering defaults for takeable items at rest and while dragged.
const (
	SortingOrderTakeable = 50
	SortingOrderDragging = 100
)

// Default message templates applied at load time when a scene file leaves
// them blank.
const (
	DefaultMsgExamine   = "Nothing special."
	DefaultMsgNoGo      = "You can't go through [item]."
	DefaultMsgUseFail   = "You can't use [item]."
	DefaultMsgComboFail = "You can't use [item] on [target]."
)

// Item is an interactive entity. Items are created once at scene load and
// never deleted; deactivating an item removes it from play.
type Item struct {
	ID   string
	Name string

	// Message templates. [item] expands to this item's name, [target] to
	// the combination target's name.
	MsgExamine   string
	MsgNoGo      string
	MsgUseFail   string
	MsgComboFail string

	CanSelect     bool
	CanTake       bool
	Size          geom.Point
	TargetRoom    *Room
	DropSound     string
	IncludeInSave bool

	Active       bool
	Pos          geom.Vec2
	Scale        geom.Vec2
	SortingOrder int

	// Location is the owning room; the world's nowhere sentinel when the
	// item is out of play.
	Location *Room

	// ContainerRoom is the nested room an item owns when it acts as a
	// container. Nil for plain items.
	ContainerRoom *Room

	Combinations []*Combination
}

// IsContainer reports whether the item owns a nested container room.
func (it *Item) IsContainer() bool {
	return it.ContainerRoom != nil
}

// IsOpenable reports whether the item's self combination opens it.
func (it *Item) IsOpenable() bool {
	self := it.SelfCombination()
	return self != nil && self.Do == ActionOpen
}

// SelfCombination returns the combination triggered by the item itself,
// or nil if the item has none. The loader guarantees at most one.
func (it *Item) SelfCombination() *Combination {
	for _, c := range it.Combinations {
		if c.Trigger == it {
			return c
		}
	}
	return nil
}

// CombinationsWith returns the item's combinations triggered by other, in
// authored order.
func (it *Item) CombinationsWith(other *Item) []*Combination {
	var list []*Combination
	for _, c := range it.Combinations {
		if c.Trigger == other {
			list = append(list, c)
		}
	}
	return list
}

// Bounds is the item's world-space hit rectangle, derived from its grid
// footprint and visual scale.
func (it *Item) Bounds() geom.Rect {
	w := float64(it.Size.X)
	h := float64(it.Size.Y)
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	if it.Scale.X != 0 {
		w *= it.Scale.X
	}
	if it.Scale.Y != 0 {
		h *= it.Scale.Y
	}
	return geom.Rect{Center: it.Pos, Size: geom.Vec2{X: w, Y: h}}
}

// ParseMessage substitutes the [item] and [target] placeholders.
func (it *Item) ParseMessage(msg string, target *Item) string {
	out := strings.ReplaceAll(msg, "[item]", it.Name)
	if target != nil {
		out = strings.ReplaceAll(out, "[target]", target.Name)
	}
	return out
}

// ExamineText is the item's parsed examine message.
func (it *Item) ExamineText() string {
	return it.ParseMessage(it.MsgExamine, nil)
}

// NoGoText is the item's parsed can't-go message.
func (it *Item) NoGoText() string {
	return it.ParseMessage(it.MsgNoGo, nil)
}

// UseFailText is the item's parsed self-use failure message.
func (it *Item) UseFailText() string {
	return it.ParseMessage(it.MsgUseFail, nil)
}

// ComboFailText is the item's combine-failure message for used being applied
// to it: [item] expands to the used item, [target] to this item.
func (it *Item) ComboFailText(used *Item) string {
	return used.ParseMessage(it.MsgComboFail, it)
}
