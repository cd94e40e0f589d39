package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-games/stagehand/internal/prefs"
	"github.com/stagehand-games/stagehand/pkg/geom"
	"github.com/stagehand-games/stagehand/pkg/message"
	"github.com/stagehand-games/stagehand/pkg/scene"
)

const testScene = `{
	"name": "session test",
	"special": {
		"inventory": "inventory",
		"container_display": "display",
		"start": "hall"
	},
	"layout": {
		"room_rect": {"center": {"x": 0, "y": 10}, "size": {"x": 40, "y": 20}},
		"inventory_rect": {"center": {"x": 0, "y": -10}, "size": {"x": 40, "y": 20}}
	},
	"rooms": [
		{
			"id": "inventory",
			"name": "Inventory",
			"description": "Your pockets.",
			"align_to_grid": true,
			"size": {"x": 4, "y": 2},
			"pos": {"x": 0, "y": -5}
		},
		{
			"id": "display",
			"name": "Container",
			"description": "The open container.",
			"align_to_grid": true,
			"size": {"x": 4, "y": 1},
			"pos": {"x": 0, "y": -15}
		},
		{
			"id": "hall",
			"name": "Hall",
			"description": "A hall.",
			"music": "hall_theme",
			"items": [
				{
					"id": "door",
					"name": "Door",
					"can_select": true,
					"pos": {"x": 5, "y": 10},
					"size": {"x": 2, "y": 3},
					"combinations": [
						{
							"trigger": "key",
							"action": "replace",
							"target": "door",
							"replace_trigger_with": "key",
							"replace_target_with": "open_door",
							"message": "The [item] turns."
						}
					]
				},
				{
					"id": "open_door",
					"name": "Doorway",
					"active": false,
					"can_select": true,
					"target_room": "study",
					"pos": {"x": 5, "y": 10},
					"size": {"x": 2, "y": 3},
					"messages": {"no_go": "You step through."}
				},
				{
					"id": "key",
					"name": "Key",
					"can_select": true,
					"can_take": true,
					"drop_sound": "clink",
					"pos": {"x": -8, "y": 5},
					"messages": {"examine": "A small brass key."}
				},
				{
					"id": "box",
					"name": "Box",
					"can_select": true,
					"can_take": true,
					"pos": {"x": -5, "y": 12},
					"size": {"x": 2, "y": 2},
					"combinations": [
						{"trigger": "self", "action": "open", "message": "Open.", "message2": "Shut."}
					],
					"container": {
						"id": "box_interior",
						"name": "Box",
						"align_to_grid": true,
						"size": {"x": 2, "y": 1},
						"items": [
							{"id": "gem", "name": "Gem", "can_select": true, "can_take": true}
						]
					}
				},
				{
					"id": "bomb",
					"name": "Bomb",
					"can_select": true,
					"pos": {"x": 12, "y": 4},
					"combinations": [
						{"trigger": "self", "action": "game_over", "room": "the_end", "message": "Boom."}
					]
				}
			]
		},
		{
			"id": "study",
			"name": "Study",
			"description": "A study.",
			"music": "study_theme",
			"back_room": "hall",
			"back_message": "Back to the hall."
		},
		{
			"id": "the_end",
			"name": "The End",
			"cutscene": true
		}
	],
	"timers": [
		{
			"id": "fuse",
			"duration_sec": 2,
			"room": "study",
			"start_immediately": true,
			"actions": [{"action": "message", "message": "Hiss."}]
		},
		{
			"id": "bell",
			"duration_sec": 5,
			"start_immediately": true,
			"actions": [{"action": "message", "message": "Dong."}]
		}
	]
}`

type testRig struct {
	sess   *Session
	world  *scene.World
	window *message.Paged
	store  *prefs.Memory
	player *recordingPlayer
}

type recordingPlayer struct {
	music  []string
	sounds []string
}

func (r *recordingPlayer) PlayMusic(name string) { r.music = append(r.music, name) }
func (r *recordingPlayer) PlaySound(name string, _ geom.Vec2) {
	r.sounds = append(r.sounds, name)
}
func (r *recordingPlayer) Update(float64) {}
func (r *recordingPlayer) Close() error   { return nil }

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	world, layout, err := scene.Load([]byte(testScene), nil)
	require.NoError(t, err)

	window := message.NewPaged(200, 10)
	store := prefs.NewMemory()
	player := &recordingPlayer{}

	cfg := DefaultConfig()
	cfg.Layout = layout
	sess := New(world, window, player, store, cfg, nil)
	return &testRig{sess: sess, world: world, window: window, store: store, player: player}
}

// step ticks the session with no pointer input.
func (r *testRig) step(n int, dt float64) {
	for i := 0; i < n; i++ {
		r.sess.Update(dt, PointerInput{})
	}
}

// settle runs ticks until any in-flight transition finishes.
func (r *testRig) settle() {
	for i := 0; i < 50 && r.sess.InTransition(); i++ {
		r.sess.Update(0.05, PointerInput{})
	}
}

func (r *testRig) startIn(t *testing.T, roomID string) {
	t.Helper()
	r.sess.Start()
	r.settle()
	require.NotNil(t, r.sess.CurrentRoom())
	require.Equal(t, roomID, r.sess.CurrentRoom().ID)
}

func (r *testRig) item(t *testing.T, id string) *scene.Item {
	t.Helper()
	it := r.world.FindItemByID(id)
	require.NotNil(t, it, "item %s missing", id)
	return it
}

func (r *testRig) click(pos geom.Vec2) {
	r.sess.Update(0.05, PointerInput{Pos: pos, LeftPressed: true})
	r.sess.Update(0.05, PointerInput{Pos: pos, LeftReleased: true})
}

func (r *testRig) rightClick(pos geom.Vec2) {
	r.sess.Update(0.05, PointerInput{Pos: pos, RightPressed: true})
}

func (r *testRig) middleClick(pos geom.Vec2) {
	r.sess.Update(0.05, PointerInput{Pos: pos, MiddlePressed: true})
}

// drag simulates press, movement, and release across ticks.
func (r *testRig) drag(from, to geom.Vec2) {
	r.sess.Update(0.05, PointerInput{Pos: from, LeftPressed: true})
	r.sess.Update(0.05, PointerInput{Pos: to})
	r.sess.Update(0.05, PointerInput{Pos: to, LeftReleased: true})
}

func TestSessionStart(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")

	// verbose arrival narrates the room
	assert.Contains(t, r.window.View(), "A hall.")
	assert.Contains(t, r.player.music, "hall_theme")
	assert.Zero(t, r.sess.TurnCount())
}

func TestSelectAndExamine(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")

	key := r.item(t, "key")
	r.click(key.Pos)

	assert.Equal(t, key, r.sess.Selected())
	assert.Contains(t, r.window.View(), "A small brass key.")
	// selecting a takeable item floats it to the drag layer
	assert.Equal(t, scene.SortingOrderDragging, key.SortingOrder)

	// clicking empty room background deselects and describes
	r.click(geom.Vec2{X: -15, Y: 18})
	assert.Nil(t, r.sess.Selected())
	assert.Contains(t, r.window.View(), "A hall.")
}

func TestCombineReplace(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")
	r.window.Clear()

	door := r.item(t, "door")
	key := r.item(t, "key")
	openDoor := r.item(t, "open_door")
	turns := r.sess.TurnCount()

	r.sess.ActionCombine(door, key)

	assert.False(t, door.Active, "door should be deactivated")
	assert.True(t, openDoor.Active, "doorway should be activated")
	assert.Equal(t, "hall", openDoor.Location.ID, "doorway appears in the door's room")
	assert.True(t, key.Active, "key replaced with itself survives")
	assert.Equal(t, turns+1, r.sess.TurnCount(), "replace costs a turn")
	assert.Contains(t, r.window.View(), "The Key turns.")
}

func TestCombineNoMatch(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")

	door := r.item(t, "door")
	gem := r.item(t, "gem")
	turns := r.sess.TurnCount()

	r.sess.ActionCombine(door, gem)

	assert.True(t, door.Active, "failed combine must not mutate")
	assert.Equal(t, turns, r.sess.TurnCount(), "failed combine costs no turn")
	assert.Contains(t, r.window.View(), "You can't use Gem on Door.")
}

func TestSelfUseFailure(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")

	key := r.item(t, "key")
	r.rightClick(key.Pos)

	// key's implicit self combination is none
	assert.Contains(t, r.window.View(), "You can't use Key.")
}

func TestRightClickClearsWindow(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")

	// arrival narration must not linger in front of the combine message
	require.Contains(t, r.window.View(), "A hall.")
	r.rightClick(r.item(t, "bomb").Pos)
	assert.Equal(t, "Boom.", r.window.View())
}

func TestOpenContainerToggle(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")

	box := r.item(t, "box")
	gem := r.item(t, "gem")

	r.rightClick(box.Pos)
	require.Equal(t, box, r.sess.OpenedContainer())
	assert.Contains(t, r.window.View(), "Open.")

	// contents surface on the following tick
	assert.Equal(t, "box_interior", gem.Location.ID)
	r.step(1, 0.05)
	assert.Equal(t, "display", gem.Location.ID)

	r.window.Clear()
	r.rightClick(box.Pos)
	assert.Nil(t, r.sess.OpenedContainer())
	assert.Contains(t, r.window.View(), "Shut.", "closing shows the second message")
	assert.Equal(t, "box_interior", gem.Location.ID, "contents return on close")
}

func TestDragDropToInventory(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")

	key := r.item(t, "key")
	turns := r.sess.TurnCount()

	r.drag(key.Pos, geom.Vec2{X: 0, Y: -5})

	assert.Equal(t, "inventory", key.Location.ID)
	assert.Contains(t, r.window.View(), "You take Key.")
	assert.Contains(t, r.player.sounds, "clink", "drop plays the item's drop sound")
	assert.Equal(t, turns+1, r.sess.TurnCount(), "inert self combination makes the drop cost a turn")
	assert.Nil(t, r.sess.Selected())
	assert.Nil(t, r.sess.Dragging())
}

func TestDropRunsSelfCombinationQuietly(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")

	box := r.item(t, "box")
	r.drag(box.Pos, geom.Vec2{X: 0, Y: -5})

	require.Equal(t, "inventory", box.Location.ID)
	// the self combination's effect lands, its message does not
	assert.Equal(t, box, r.sess.OpenedContainer())
	assert.Equal(t, "You take Box.", r.window.View())
}

func TestDropIntoOpenContainer(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")

	box := r.item(t, "box")
	key := r.item(t, "key")
	r.rightClick(box.Pos)
	r.step(1, 0.05)

	// lower half of the inventory zone targets the open container
	r.drag(key.Pos, geom.Vec2{X: 1, Y: -15})
	assert.Equal(t, "display", key.Location.ID)
	assert.Contains(t, r.window.View(), "You put Key into Box.")
}

func TestDropCombine(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")

	door := r.item(t, "door")
	key := r.item(t, "key")
	openDoor := r.item(t, "open_door")
	start := key.Pos

	// dropping the key onto the door combines instead of landing
	r.drag(key.Pos, geom.Vec2{X: 5, Y: 10})

	assert.False(t, door.Active)
	assert.True(t, openDoor.Active)
	assert.Equal(t, start, key.Pos, "failed drop snaps the item back")
	assert.Contains(t, r.window.View(), "The Key turns.")
}

func TestDropOutsideZonesSnapsBack(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")

	key := r.item(t, "key")
	start := key.Pos
	turns := r.sess.TurnCount()

	r.drag(key.Pos, geom.Vec2{X: 100, Y: 100})

	assert.Equal(t, start, key.Pos)
	assert.Equal(t, "hall", key.Location.ID)
	assert.Equal(t, turns, r.sess.TurnCount(), "failed drop costs no turn")
}

func TestMiddleClickTravel(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")

	door := r.item(t, "door")
	key := r.item(t, "key")
	r.sess.ActionCombine(door, key)
	r.window.Clear()

	r.middleClick(geom.Vec2{X: 5, Y: 10})
	assert.Contains(t, r.window.View(), "You step through.")
	r.settle()
	require.NotNil(t, r.sess.CurrentRoom())
	assert.Equal(t, "study", r.sess.CurrentRoom().ID)
	assert.Contains(t, r.player.music, "study_theme")

	// an autosave landed on the way out of the hall
	assert.Positive(t, r.store.Len())

	assert.True(t, r.sess.CanGoBack())
	r.sess.GoBack()
	r.settle()
	assert.Equal(t, "hall", r.sess.CurrentRoom().ID)
	assert.Contains(t, r.window.View(), "A hall.")
}

func TestTransitionRejectsConcurrent(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")

	study := r.world.FindRoomByID("study")
	theEnd := r.world.FindRoomByID("the_end")

	r.sess.GoToRoom(study)
	r.sess.GoToRoom(theEnd)
	r.settle()

	assert.Equal(t, "study", r.sess.CurrentRoom().ID, "second request while in flight is dropped")
}

func TestGameOver(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")

	r.rightClick(r.item(t, "bomb").Pos)
	assert.Contains(t, r.window.View(), "Boom.")
	assert.False(t, r.sess.IsGameOver(), "end waits for the next tick")

	r.step(1, 0.05)
	assert.True(t, r.sess.IsGameOver())
	r.settle()
	assert.Equal(t, "the_end", r.sess.CurrentRoom().ID)

	// the latch only fires once
	r.step(5, 0.05)
	assert.Equal(t, "the_end", r.sess.CurrentRoom().ID)
}

func TestTimerMessageSuppression(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")
	r.window.Clear()

	// the fuse belongs to the study; its message is suppressed in the hall
	r.step(50, 0.05)
	assert.NotContains(t, r.window.View(), "Hiss.")

	// the roomless bell always speaks
	r.step(60, 0.05)
	assert.Contains(t, r.window.View(), "Dong.")
}

func TestMessageFreeze(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")

	small := message.NewPaged(10, 1)
	// swap in a tiny window to force paging
	r.sess.window = small
	small.ShowMessage("one two three four five six")
	require.True(t, small.HasMore())

	bell := r.world.FindTimerByID("bell")
	before := bell.Elapsed()
	r.step(10, 0.05)
	assert.Equal(t, before, bell.Elapsed(), "world time freezes while pages are pending")

	// left click turns the page
	r.click(geom.Vec2{})
	assert.NotEqual(t, "", small.View())
	for i := 0; i < 10 && small.HasMore(); i++ {
		r.click(geom.Vec2{})
	}
	r.step(2, 0.05)
	assert.Greater(t, bell.Elapsed(), before, "time resumes once drained")
}
