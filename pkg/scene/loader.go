package scene

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/stagehand-games/stagehand/pkg/geom"
)

// Definition is the on-disk authoring format for a scene: the room graph
// with nested items and containers, process-wide timers, the special-room
// wiring, and the screen layout the interaction layer needs.
type Definition struct {
	Name    string          `json:"name"`
	Rooms   []RoomDef       `json:"rooms"`
	Timers  []TimerDef      `json:"timers,omitempty"`
	Special SpecialRoomsDef `json:"special"`
	Layout  Layout          `json:"layout"`
}

// SpecialRoomsDef names the rooms the engine treats specially.
type SpecialRoomsDef struct {
	Nowhere          string `json:"nowhere,omitempty"`
	Inventory        string `json:"inventory"`
	ContainerDisplay string `json:"container_display"`
	Start            string `json:"start"`
}

// Layout is the authored screen geometry: the two disjoint drop zones.
type Layout struct {
	InventoryRect geom.Rect `json:"inventory_rect"`
	RoomRect      geom.Rect `json:"room_rect"`
}

// RoomDef describes one room and the items authored inside it.
type RoomDef struct {
	ID           string     `json:"id,omitempty"`
	Name         string     `json:"name,omitempty"`
	Description  string     `json:"description,omitempty"`
	Cutscene     bool       `json:"cutscene,omitempty"`
	Music        string     `json:"music,omitempty"`
	BackRoom     string     `json:"back_room,omitempty"`
	BackMessage  string     `json:"back_message,omitempty"`
	AlignToGrid  bool       `json:"align_to_grid,omitempty"`
	Size         geom.Point `json:"size,omitempty"`
	Pos          geom.Vec2  `json:"pos,omitempty"`
	SortingOrder int        `json:"sorting_order,omitempty"`
	Items        []ItemDef  `json:"items,omitempty"`
}

// ItemDef describes one item. Container items nest their storage room.
type ItemDef struct {
	ID            string    `json:"id,omitempty"`
	Name          string    `json:"name"`
	Active        *bool     `json:"active,omitempty"`
	IncludeInSave *bool     `json:"include_in_save,omitempty"`
	Messages      MsgDef    `json:"messages,omitempty"`
	CanSelect     bool      `json:"can_select,omitempty"`
	CanTake       bool      `json:"can_take,omitempty"`
	Size          geom.Point `json:"size,omitempty"`
	TargetRoom    string    `json:"target_room,omitempty"`
	DropSound     string    `json:"drop_sound,omitempty"`
	Pos           geom.Vec2 `json:"pos,omitempty"`
	Scale         geom.Vec2 `json:"scale,omitempty"`
	SortingOrder  int       `json:"sorting_order,omitempty"`
	Container     *RoomDef  `json:"container,omitempty"`

	Combinations []CombinationDef `json:"combinations,omitempty"`
}

// MsgDef carries an item's message templates. Blank fields get defaults.
type MsgDef struct {
	Examine   string `json:"examine,omitempty"`
	NoGo      string `json:"no_go,omitempty"`
	UseFail   string `json:"use_fail,omitempty"`
	ComboFail string `json:"combo_fail,omitempty"`
}

// CombinationDef describes one action rule. Trigger "self" (or blank) means
// the owning item.
type CombinationDef struct {
	Trigger            string    `json:"trigger,omitempty"`
	Action             Action    `json:"action,omitempty"`
	Priority           int       `json:"priority,omitempty"`
	Target             string    `json:"target,omitempty"`
	Room               string    `json:"room,omitempty"`
	ReplaceTriggerWith string    `json:"replace_trigger_with,omitempty"`
	ReplaceTargetWith  string    `json:"replace_target_with,omitempty"`
	Timer              string    `json:"timer,omitempty"`
	PosOrScale         geom.Vec2 `json:"pos_or_scale,omitempty"`
	NewDescription     string    `json:"new_description,omitempty"`
	ClearBefore        bool      `json:"clear_before,omitempty"`
	Message            string    `json:"message,omitempty"`
	Message2           string    `json:"message2,omitempty"`
	Sound              string    `json:"sound,omitempty"`
}

// TimerDef describes a journaled timer and the actions it fires.
type TimerDef struct {
	ID               string           `json:"id,omitempty"`
	DurationSec      float64          `json:"duration_sec"`
	Room             string           `json:"room,omitempty"`
	StartImmediately bool             `json:"start_immediately,omitempty"`
	Actions          []CombinationDef `json:"actions"`
}

// LoadFile reads and builds a scene from a JSON file.
func LoadFile(path string, log *slog.Logger) (*World, Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Layout{}, fmt.Errorf("failed to read scene file: %w", err)
	}
	return Load(data, log)
}

// Load builds a world from scene JSON. Entity creation, reference
// resolution, and validation happen in separate passes so every id can be
// referenced regardless of authoring order. Recoverable configuration
// errors (an openable item without a container room) are logged and
// degraded; structural errors fail the load.
func Load(data []byte, log *slog.Logger) (*World, Layout, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, Layout{}, fmt.Errorf("failed to parse scene: %w", err)
	}

	b := &sceneBuilder{
		world:    NewWorld(log),
		itemDefs: make(map[*Item]*ItemDef),
	}

	for i := range def.Rooms {
		if _, err := b.buildRoom(&def.Rooms[i], nil); err != nil {
			return nil, Layout{}, err
		}
	}

	if err := b.wireSpecialRooms(&def.Special); err != nil {
		return nil, Layout{}, err
	}

	for i := range def.Timers {
		if err := b.buildTimer(&def.Timers[i]); err != nil {
			return nil, Layout{}, err
		}
	}

	if err := b.resolveReferences(); err != nil {
		return nil, Layout{}, err
	}
	if err := b.resolveCombinations(); err != nil {
		return nil, Layout{}, err
	}
	b.checkOpenables()
	b.placeItems()

	b.world.log.Info("scene loaded",
		"name", def.Name,
		"rooms", len(b.world.Rooms),
		"items", len(b.world.Items),
		"timers", len(b.world.Timers))

	return b.world, def.Layout, nil
}

type sceneBuilder struct {
	world    *World
	itemDefs map[*Item]*ItemDef
	roomDefs []roomWithDef

	// placements remembers authored containment in document order
	placements []placement
	timerDefs  []timerBinding
}

type roomWithDef struct {
	room *Room
	def  *RoomDef
}

type placement struct {
	room *Room
	item *Item
}

type timerBinding struct {
	timer *Timer
	def   *TimerDef
}

func (b *sceneBuilder) buildRoom(def *RoomDef, owner *Item) (*Room, error) {
	if def.ID == "" {
		def.ID = uuid.NewString()
	}

	r := &Room{
		ID:           def.ID,
		Name:         defaultStr(def.Name, def.ID),
		Description:  def.Description,
		IsCutscene:   def.Cutscene,
		Music:        def.Music,
		BackMessage:  def.BackMessage,
		AlignToGrid:  def.AlignToGrid,
		Size:         def.Size,
		Pos:          def.Pos,
		SortingOrder: def.SortingOrder,
		owner:        owner,
	}
	if r.AlignToGrid && (r.Size.X <= 0 || r.Size.Y <= 0) {
		return nil, fmt.Errorf("grid room %q has no size", r.ID)
	}
	if err := b.world.AddRoom(r); err != nil {
		return nil, err
	}
	b.roomDefs = append(b.roomDefs, roomWithDef{room: r, def: def})

	for i := range def.Items {
		it, err := b.buildItem(&def.Items[i])
		if err != nil {
			return nil, err
		}
		b.placements = append(b.placements, placement{room: r, item: it})
	}
	return r, nil
}

func (b *sceneBuilder) buildItem(def *ItemDef) (*Item, error) {
	if def.ID == "" {
		def.ID = uuid.NewString()
	}

	it := &Item{
		ID:            def.ID,
		Name:          def.Name,
		MsgExamine:    defaultStr(def.Messages.Examine, DefaultMsgExamine),
		MsgNoGo:       defaultStr(def.Messages.NoGo, DefaultMsgNoGo),
		MsgUseFail:    defaultStr(def.Messages.UseFail, DefaultMsgUseFail),
		MsgComboFail:  defaultStr(def.Messages.ComboFail, DefaultMsgComboFail),
		CanSelect:     def.CanSelect,
		CanTake:       def.CanTake,
		Size:          def.Size,
		DropSound:     def.DropSound,
		IncludeInSave: def.IncludeInSave == nil || *def.IncludeInSave,
		Active:        def.Active == nil || *def.Active,
		Pos:           def.Pos,
		Scale:         def.Scale,
		SortingOrder:  def.SortingOrder,
	}
	if it.Name == "" {
		it.Name = it.ID
	}
	if it.Size.X <= 0 {
		it.Size.X = 1
	}
	if it.Size.Y <= 0 {
		it.Size.Y = 1
	}
	if it.Scale.X == 0 && it.Scale.Y == 0 {
		it.Scale = geom.Vec2{X: 1, Y: 1}
	}

	// taking implies selecting
	if !it.CanSelect {
		it.CanTake = false
	}
	if it.CanTake && it.SortingOrder == 0 {
		it.SortingOrder = SortingOrderTakeable
	}

	if err := b.world.AddItem(it); err != nil {
		return nil, err
	}
	b.itemDefs[it] = def

	if def.Container != nil {
		room, err := b.buildRoom(def.Container, it)
		if err != nil {
			return nil, err
		}
		it.ContainerRoom = room
	}
	return it, nil
}

func (b *sceneBuilder) buildTimer(def *TimerDef) error {
	if def.ID == "" {
		def.ID = uuid.NewString()
	}
	t := &Timer{
		ID:       def.ID,
		Duration: def.DurationSec,
	}
	if def.Room != "" {
		t.Room = b.world.FindRoomByID(def.Room)
		if t.Room == nil {
			return fmt.Errorf("timer %q references unknown room %q", t.ID, def.Room)
		}
	}
	if err := b.world.AddTimer(t); err != nil {
		return err
	}
	b.timerDefs = append(b.timerDefs, timerBinding{timer: t, def: def})
	return nil
}

func (b *sceneBuilder) wireSpecialRooms(def *SpecialRoomsDef) error {
	w := b.world

	if def.Nowhere != "" {
		w.Nowhere = w.FindRoomByID(def.Nowhere)
		if w.Nowhere == nil {
			return fmt.Errorf("special room %q (nowhere) not found", def.Nowhere)
		}
	} else {
		w.Nowhere = &Room{ID: "nowhere", Name: "nowhere", Description: "Nowhere."}
		if err := w.AddRoom(w.Nowhere); err != nil {
			return err
		}
	}

	w.Inventory = w.FindRoomByID(def.Inventory)
	if w.Inventory == nil {
		return fmt.Errorf("special room %q (inventory) not found", def.Inventory)
	}
	w.ContainerDisplay = w.FindRoomByID(def.ContainerDisplay)
	if w.ContainerDisplay == nil {
		return fmt.Errorf("special room %q (container_display) not found", def.ContainerDisplay)
	}
	w.Start = w.FindRoomByID(def.Start)
	if w.Start == nil {
		return fmt.Errorf("special room %q (start) not found", def.Start)
	}
	return nil
}

// resolveReferences wires item-level references that need the full registry.
func (b *sceneBuilder) resolveReferences() error {
	for it, def := range b.itemDefs {
		if def.TargetRoom != "" {
			it.TargetRoom = b.world.FindRoomByID(def.TargetRoom)
			if it.TargetRoom == nil {
				return fmt.Errorf("item %q references unknown target room %q", it.ID, def.TargetRoom)
			}
		}
	}

	for _, rd := range b.roomDefs {
		if rd.def.BackRoom == "" {
			continue
		}
		back := b.world.FindRoomByID(rd.def.BackRoom)
		if back == nil {
			return fmt.Errorf("room %q references unknown back room %q", rd.room.ID, rd.def.BackRoom)
		}
		rd.room.BackRoom = back
	}
	return nil
}

func (b *sceneBuilder) resolveCombinations() error {
	for it, def := range b.itemDefs {
		for i := range def.Combinations {
			c, err := b.resolveCombination(it, &def.Combinations[i])
			if err != nil {
				return err
			}
			it.Combinations = append(it.Combinations, c)
		}

		selfCount := 0
		for _, c := range it.Combinations {
			if c.IsSelf() {
				selfCount++
			}
		}
		switch {
		case selfCount > 1:
			return fmt.Errorf("item %q has %d self combinations, want exactly one", it.ID, selfCount)
		case selfCount == 0:
			// every item carries a self combination, even if inert
			it.Combinations = append(it.Combinations, &Combination{
				Owner:   it,
				Trigger: it,
				Target:  it,
				Do:      ActionNone,
			})
		}
	}

	for _, tb := range b.timerDefs {
		for i := range tb.def.Actions {
			c, err := b.resolveCombination(nil, &tb.def.Actions[i])
			if err != nil {
				return fmt.Errorf("timer %q: %w", tb.timer.ID, err)
			}
			tb.timer.Actions = append(tb.timer.Actions, c)
		}
		if tb.def.StartImmediately {
			tb.timer.Start()
		}
	}
	return nil
}

func (b *sceneBuilder) resolveCombination(owner *Item, def *CombinationDef) (*Combination, error) {
	c := &Combination{
		Owner:          owner,
		Do:             def.Action,
		Priority:       def.Priority,
		PosOrScale:     def.PosOrScale,
		NewDescription: def.NewDescription,
		ClearBefore:    def.ClearBefore,
		Message:        def.Message,
		Message2:       def.Message2,
		Sound:          def.Sound,
	}

	switch def.Trigger {
	case "", "self":
		c.Trigger = owner // nil for timer actions, which never trigger by use
	default:
		c.Trigger = b.world.FindItemByID(def.Trigger)
		if c.Trigger == nil {
			return nil, fmt.Errorf("combination references unknown trigger %q", def.Trigger)
		}
	}

	if def.Target != "" {
		c.Target = b.world.FindItemByID(def.Target)
		if c.Target == nil {
			return nil, fmt.Errorf("combination references unknown target %q", def.Target)
		}
	} else if c.Do.NeedsTarget() {
		c.Target = owner
	}

	if def.Room != "" {
		c.Room = b.world.FindRoomByID(def.Room)
		if c.Room == nil {
			return nil, fmt.Errorf("combination references unknown room %q", def.Room)
		}
	}
	if def.ReplaceTriggerWith != "" {
		c.ReplaceTriggerWith = b.world.FindItemByID(def.ReplaceTriggerWith)
		if c.ReplaceTriggerWith == nil {
			return nil, fmt.Errorf("combination references unknown replacement %q", def.ReplaceTriggerWith)
		}
	}
	if def.ReplaceTargetWith != "" {
		c.ReplaceTargetWith = b.world.FindItemByID(def.ReplaceTargetWith)
		if c.ReplaceTargetWith == nil {
			return nil, fmt.Errorf("combination references unknown replacement %q", def.ReplaceTargetWith)
		}
	}
	if def.Timer != "" {
		c.Timer = b.world.FindTimerByID(def.Timer)
		if c.Timer == nil {
			return nil, fmt.Errorf("combination references unknown timer %q", def.Timer)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// checkOpenables downgrades Open self combinations on items without a
// container room. The scene keeps running without the open behavior.
func (b *sceneBuilder) checkOpenables() {
	for _, it := range b.world.Items {
		self := it.SelfCombination()
		if self == nil || self.Do != ActionOpen {
			continue
		}
		if it.ContainerRoom == nil {
			b.world.log.Error("openable item has no container room, disabling open", "item", it.ID)
			self.Do = ActionNone
		}
	}
}

// placeItems moves every item into its authored room, in document order, so
// grid rooms pack deterministically.
func (b *sceneBuilder) placeItems() {
	for _, p := range b.placements {
		authoredOrder := p.item.SortingOrder
		if err := p.room.AddItem(p.item); err != nil {
			b.world.log.Error("failed to place authored item",
				"item", p.item.ID, "room", p.room.ID, "error", err)
			continue
		}
		if authoredOrder != 0 {
			p.item.SortingOrder = authoredOrder
		}
	}
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
