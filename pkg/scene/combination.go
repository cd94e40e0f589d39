package scene

import (
	"fmt"
	"sort"

	"github.com/stagehand-games/stagehand/pkg/geom"
)

// Combination is a resolved action rule owned by an item: when Trigger is
// used on the owner, Do is applied to the referenced entities. A combination
// whose trigger is its owner is the item's self combination, fired on
// take/drop and on self-use.
type Combination struct {
	Owner   *Item
	Trigger *Item

	Do       Action
	Priority int

	Target             *Item
	Room               *Room
	ReplaceTriggerWith *Item
	ReplaceTargetWith  *Item
	Timer              *Timer
	PosOrScale         geom.Vec2
	NewDescription     string

	// Message is composed into the window after the action resolves.
	// Message2 is the alternate text for Open actions that ended with the
	// container closed.
	Message      string
	Message2     string
	ClearBefore  bool
	Sound        string
}

// IsSelf reports whether the combination triggers on its own item.
func (c *Combination) IsSelf() bool {
	return c.Trigger != nil && c.Trigger == c.Owner
}

// Validate checks that the fields the action kind requires are present.
// Combinations are validated once at scene load, so the engine can dispatch
// without nil checks on required references. Timer actions have no owning
// item and no trigger.
func (c *Combination) Validate() error {
	if c.Owner != nil && c.Trigger == nil {
		return fmt.Errorf("combination on %q has no trigger item", c.Owner.ID)
	}

	where := c.ownerID()
	if c.Do.NeedsTarget() && c.Target == nil {
		return fmt.Errorf("%s combination on %s requires a target item", c.Do, where)
	}
	if c.Do.NeedsRoom() && c.Room == nil {
		return fmt.Errorf("%s combination on %s requires a target room", c.Do, where)
	}
	if c.Do.NeedsTimer() && c.Timer == nil {
		return fmt.Errorf("%s combination on %s requires a timer", c.Do, where)
	}

	switch c.Do {
	case ActionReplace:
		if c.ReplaceTriggerWith == nil || c.ReplaceTargetWith == nil {
			return fmt.Errorf("replace combination on %s requires both substitute items", where)
		}
	case ActionChangeDescription:
		if c.NewDescription == "" {
			return fmt.Errorf("change_description combination on %s requires a description", where)
		}
	}

	return nil
}

func (c *Combination) ownerID() string {
	if c.Owner == nil {
		return "timer action"
	}
	return fmt.Sprintf("%q", c.Owner.ID)
}

// SortedByPriority returns a copy of list stable-sorted by descending
// priority, preserving authored order for equal priorities.
func SortedByPriority(list []*Combination) []*Combination {
	out := make([]*Combination, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}
