package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-games/stagehand/pkg/geom"
	"github.com/stagehand-games/stagehand/pkg/save"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")
	ctx := context.Background()

	// pocket the key and the box, open the box, walk to the study
	key := r.item(t, "key")
	box := r.item(t, "box")
	r.drag(key.Pos, geom.Vec2{X: 0, Y: -5})
	r.drag(box.Pos, geom.Vec2{X: 0.5, Y: -5})
	require.Equal(t, "inventory", box.Location.ID)
	// dropping fired the box's open self combination
	require.Equal(t, box, r.sess.OpenedContainer())
	r.step(1, 0.05)
	r.sess.GoToRoom(r.world.FindRoomByID("study"))
	r.settle()
	require.Equal(t, "study", r.sess.CurrentRoom().ID)
	require.Equal(t, box, r.sess.OpenedContainer(), "held container stays open across rooms")

	require.NoError(t, r.sess.SaveGame(ctx))
	assert.Contains(t, r.window.View(), "Game saved")

	// saving closes the container around the snapshot and reopens it
	blob, err := r.store.Get(ctx, save.SlotName(1))
	require.NoError(t, err)
	data, err := save.Unmarshal(blob)
	require.NoError(t, err)
	assert.Equal(t, "box", data.OpenContainerID)
	assert.Equal(t, "study", data.PlayerRoomID)
	for _, rec := range data.Items {
		if rec.ItemID == "gem" {
			assert.Equal(t, "box_interior", rec.RoomID,
				"container contents are recorded in their real room")
		}
		if rec.ItemID == "key" {
			assert.Equal(t, "inventory", rec.RoomID)
		}
	}
	assert.Equal(t, box, r.sess.OpenedContainer(), "container reopens after saving")

	// scramble the world, then load
	r.sess.GoBack()
	r.settle()
	r.world.Inventory.RemoveItem(key)
	key.Active = false

	require.NoError(t, r.sess.LoadGame(ctx))
	r.settle()

	assert.Equal(t, "study", r.sess.CurrentRoom().ID)
	assert.Equal(t, "inventory", key.Location.ID)
	assert.True(t, key.Active)
	assert.Equal(t, box, r.sess.OpenedContainer())
	assert.False(t, r.sess.IsGameOver())
}

func TestLoadSkipsUnknownRecords(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")
	ctx := context.Background()

	key := r.item(t, "key")
	data := save.GameData{
		PlayerRoomID: "hall",
		Items: []save.ItemRecord{
			{ItemID: "phantom", RoomID: "hall", IsActive: true},
			{ItemID: "key", RoomID: "mirage", IsActive: true},
			{ItemID: "key", RoomID: "inventory", IsActive: true},
		},
	}
	blob, err := data.Marshal()
	require.NoError(t, err)
	require.NoError(t, r.store.Set(ctx, save.SlotName(1), blob))

	require.NoError(t, r.sess.LoadGame(ctx))
	assert.Equal(t, "inventory", key.Location.ID,
		"valid records apply even when others are skipped")
}

func TestLoadCorruptSnapshot(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")
	ctx := context.Background()

	key := r.item(t, "key")
	require.NoError(t, r.store.Set(ctx, save.SlotName(1), "{not json"))

	err := r.sess.LoadGame(ctx)
	require.Error(t, err)
	assert.Equal(t, "hall", key.Location.ID, "failed load leaves the world untouched")
	assert.Equal(t, "hall", r.sess.CurrentRoom().ID)
}

func TestLoadUnknownPlayerRoom(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")
	ctx := context.Background()

	data := save.GameData{
		PlayerRoomID: "mirage",
		Items: []save.ItemRecord{
			{ItemID: "key", RoomID: "inventory", IsActive: true},
		},
	}
	blob, err := data.Marshal()
	require.NoError(t, err)
	require.NoError(t, r.store.Set(ctx, save.SlotName(1), blob))

	err = r.sess.LoadGame(ctx)
	require.Error(t, err)
	assert.Equal(t, "hall", r.item(t, "key").Location.ID,
		"no record applies when the player room is unresolvable")
}

func TestLoadMissingSlot(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")

	require.NoError(t, r.sess.LoadGame(context.Background()))
	assert.Contains(t, r.window.View(), "No save in")
}

func TestTempRewind(t *testing.T) {
	r := newTestRig(t)
	r.startIn(t, "hall")
	ctx := context.Background()

	// moving to the study autosaves the hall-side state
	key := r.item(t, "key")
	r.sess.GoToRoom(r.world.FindRoomByID("study"))
	r.settle()

	blob, err := r.store.Get(ctx, save.TempSlot)
	require.NoError(t, err)
	require.NotEmpty(t, blob)

	// lose the key, then rewind
	r.world.FindRoomByID("hall").RemoveItem(key)
	key.Active = false

	require.NoError(t, r.sess.TempLoad(ctx))
	r.settle()
	assert.Equal(t, "hall", r.sess.CurrentRoom().ID)
	assert.Equal(t, "hall", key.Location.ID)
	assert.True(t, key.Active)
}

func TestSnapshotFieldNames(t *testing.T) {
	data := save.GameData{
		OpenContainerID: "box",
		PlayerRoomID:    "hall",
		Items: []save.ItemRecord{
			{ItemID: "key", RoomID: "inventory", IsActive: true, PosX: 1, PosY: 2, SortingOrder: 3},
		},
	}
	blob, err := data.Marshal()
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(blob), &raw))
	for _, field := range []string{"openContainerId", "playerRoomId", "items"} {
		assert.Contains(t, raw, field)
	}

	var items []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["items"], &items))
	require.Len(t, items, 1)
	for _, field := range []string{"itemId", "roomId", "isActive", "posX", "posY", "sortingOrder"} {
		assert.Contains(t, items[0], field)
	}
}
