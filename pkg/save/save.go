// Package save defines the persistence snapshot for a game session and the
// preference-store boundary it is written through.
package save

import (
	"context"
	"encoding/json"
	"fmt"
)

// TempSlot is the reserved autosave slot written before room transitions.
const TempSlot = "temp"

// SlotName formats a numbered save slot's store key.
func SlotName(slot int) string {
	return fmt.Sprintf("save slot %d", slot)
}

// GameData is one complete save snapshot.
type GameData struct {
	OpenContainerID string       `json:"openContainerId"`
	PlayerRoomID    string       `json:"playerRoomId"`
	Items           []ItemRecord `json:"items"`
}

// ItemRecord is the saved state of one item flagged include-in-save.
type ItemRecord struct {
	ItemID       string  `json:"itemId"`
	RoomID       string  `json:"roomId"`
	IsActive     bool    `json:"isActive"`
	PosX         float64 `json:"posX"`
	PosY         float64 `json:"posY"`
	SortingOrder int     `json:"sortingOrder"`
}

// Marshal encodes the snapshot for storage.
func (d *GameData) Marshal() (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to marshal game data: %w", err)
	}
	return string(b), nil
}

// Unmarshal decodes a stored snapshot.
func Unmarshal(blob string) (*GameData, error) {
	var d GameData
	if err := json.Unmarshal([]byte(blob), &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game data: %w", err)
	}
	return &d, nil
}

// PrefStore persists named string blobs. Each call is synchronous and
// atomic: it fully succeeds or leaves stored state unchanged.
type PrefStore interface {
	// Get retrieves the blob stored under name. Absent names return "" with
	// no error.
	Get(ctx context.Context, name string) (string, error)
	// Set stores value under name, replacing any previous blob.
	Set(ctx context.Context, name string, value string) error
	// Ping tests the store connection.
	Ping(ctx context.Context) error
	// Close releases the store connection.
	Close() error
}
