package session

import (
	"log/slog"
	"sort"

	"github.com/stagehand-games/stagehand/pkg/audio"
	"github.com/stagehand-games/stagehand/pkg/geom"
	"github.com/stagehand-games/stagehand/pkg/message"
	"github.com/stagehand-games/stagehand/pkg/save"
	"github.com/stagehand-games/stagehand/pkg/scene"
)

// Config tunes a play session. Zero values are filled in by DefaultConfig.
type Config struct {
	// DragThreshold is how far the pointer must travel from an item's
	// position before a press turns into a drag, in world units.
	DragThreshold float64

	// TransitionSettleSec is the pause between leaving one room and
	// activating the next.
	TransitionSettleSec float64

	// Verbose makes the session narrate room descriptions on arrival.
	Verbose bool

	// SaveSlot selects the named save the player reads and writes.
	SaveSlot int

	Layout scene.Layout
}

// DefaultConfig returns the tuning the engine ships with.
func DefaultConfig() Config {
	return Config{
		DragThreshold:       0.1,
		TransitionSettleSec: 0.1,
		Verbose:             true,
		SaveSlot:            1,
	}
}

// PointerInput is one tick's worth of pointer state, already translated to
// world coordinates by the frontend.
type PointerInput struct {
	Pos           geom.Vec2
	LeftPressed   bool
	RightPressed  bool
	MiddlePressed bool
	LeftReleased  bool
}

// Session drives one playthrough of a loaded world: it owns the current
// room, the selection, the open container, turn accounting, and the
// transition and drag state machines. All methods are called from a single
// tick loop.
type Session struct {
	log    *slog.Logger
	world  *scene.World
	window message.Window
	audio  audio.Player
	store  save.PrefStore
	cfg    Config

	current       *scene.Room
	selected      *scene.Item
	openContainer *scene.Item

	// pendingContainer holds a just-opened container until the next tick,
	// when its contents move into the display room.
	pendingContainer *scene.Item

	turnCount int

	shouldEndGame bool
	gameOverRoom  *scene.Room
	gameOver      bool

	transition transition
	drag       dragState
}

type dragState struct {
	candidate *scene.Item
	item      *scene.Item
	startPos  geom.Vec2
}

// New builds a session over a loaded world. The window, audio player, and
// preference store are required collaborators; cfg usually starts from
// DefaultConfig with the scene's layout merged in.
func New(world *scene.World, window message.Window, player audio.Player, store save.PrefStore, cfg Config, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		log:    log,
		world:  world,
		window: window,
		audio:  player,
		store:  store,
		cfg:    cfg,
	}
}

// Start kicks off play by transitioning into the world's start room.
func (s *Session) Start() {
	s.GoToRoom(s.world.Start)
}

// World returns the world the session plays over.
func (s *Session) World() *scene.World { return s.world }

// CurrentRoom returns the room the player is in, nil before the first
// transition completes.
func (s *Session) CurrentRoom() *scene.Room { return s.current }

// Selected returns the selected item, nil when nothing is selected.
func (s *Session) Selected() *scene.Item { return s.selected }

// OpenedContainer returns the open container item, nil when none is open.
func (s *Session) OpenedContainer() *scene.Item { return s.openContainer }

// Dragging returns the item currently following the pointer, nil otherwise.
func (s *Session) Dragging() *scene.Item { return s.drag.item }

// TurnCount reports how many turn-consuming actions have happened.
func (s *Session) TurnCount() int { return s.turnCount }

// IsGameOver reports whether the session has reached its game-over room.
func (s *Session) IsGameOver() bool { return s.gameOver }

// InTransition reports whether a room change is in flight.
func (s *Session) InTransition() bool { return s.transition.phase != phaseIdle }

// CanGoBack reports whether the current room has a back exit.
func (s *Session) CanGoBack() bool {
	return s.current != nil && s.current.BackRoom != nil
}

// Verbose reports whether arrival narration is on.
func (s *Session) Verbose() bool { return s.cfg.Verbose }

// SetVerbose toggles arrival narration.
func (s *Session) SetVerbose(v bool) { s.cfg.Verbose = v }

// SaveSlot returns the active save slot number.
func (s *Session) SaveSlot() int { return s.cfg.SaveSlot }

// SetSaveSlot changes the active save slot number.
func (s *Session) SetSaveSlot(slot int) { s.cfg.SaveSlot = slot }

// AdvanceTurn bumps the turn counter. Actions that change the world call
// this; purely informational ones do not.
func (s *Session) AdvanceTurn() {
	s.turnCount++
	s.log.Debug("turn advanced", "turn", s.turnCount)
}

// Update advances the session by one tick. While the message window has
// pages pending, world time is frozen and a left click turns the page.
func (s *Session) Update(dt float64, in PointerInput) {
	s.audio.Update(dt)

	if !s.gameOver && s.shouldEndGame && !s.window.HasMore() {
		s.GoToRoom(s.gameOverRoom)
		s.gameOver = true
		s.log.Info("game over", "turns", s.turnCount)
		return
	}

	if s.window.HasMore() {
		if in.LeftPressed {
			s.window.NextPage()
		}
		return
	}

	s.advanceTransition(dt)
	s.settleContainer()

	for _, t := range s.world.Timers {
		// messages from a timer whose room is backgrounded are suppressed
		show := t.Room == nil || t.Room == s.current
		for _, c := range t.Advance(dt) {
			s.executeAction(c, show)
		}
	}

	if s.current == nil || s.current.IsCutscene {
		return
	}

	s.handleDrag(in)
	if s.drag.item != nil {
		return
	}

	if under := s.itemsUnderPointer(in.Pos); len(under) > 0 {
		s.handleItemMouse(under[0], in)
		return
	}
	s.handleBackground(in)
}

// itemsUnderPointer returns the visible items whose bounds contain pos,
// topmost first. Visible means active and located in the current room, the
// inventory, or the container display while a container is open.
func (s *Session) itemsUnderPointer(pos geom.Vec2) []*scene.Item {
	var hits []*scene.Item
	for _, it := range s.world.Items {
		if !it.Active || !s.itemVisible(it) {
			continue
		}
		if it.Bounds().Contains(pos) {
			hits = append(hits, it)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].SortingOrder > hits[j].SortingOrder
	})
	return hits
}

func (s *Session) itemVisible(it *scene.Item) bool {
	switch it.Location {
	case nil:
		return false
	case s.current, s.world.Inventory:
		return true
	case s.world.ContainerDisplay:
		return s.openContainer != nil
	}
	return false
}

// selectItem handles a left click on an item: select it if selectable,
// then show its examine text. Clicking the selected item re-examines it.
func (s *Session) selectItem(it *scene.Item) {
	s.window.Clear()
	if s.selected == it {
		s.window.ShowMessage(it.ExamineText())
		return
	}
	if s.selected != nil {
		s.deselectItem(s.selected)
	}
	if it.CanSelect {
		s.selected = it
		if it.CanTake {
			it.SortingOrder = scene.SortingOrderDragging
		}
	}
	s.window.ShowMessage(it.ExamineText())
}

// Deselect clears the current selection.
func (s *Session) Deselect() {
	s.deselectItem(s.selected)
}

func (s *Session) deselectItem(it *scene.Item) {
	if it == nil {
		return
	}
	if it.CanTake {
		s.sortOnTop(it)
	}
	s.selected = nil
}

// sortOnTop restacks it above every other item in its room.
func (s *Session) sortOnTop(it *scene.Item) {
	top := 0
	for _, other := range s.world.Items {
		if other == it || other.Location != it.Location {
			continue
		}
		if other.SortingOrder > top {
			top = other.SortingOrder
		}
	}
	it.SortingOrder = top + 1
}
