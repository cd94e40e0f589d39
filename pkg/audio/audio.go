// Package audio defines the engine's audio collaborator. The engine only
// names cues; decoding and playback live in the implementations.
package audio

import "github.com/stagehand-games/stagehand/pkg/geom"

// Player is the audio surface the engine drives. Music changes crossfade;
// sounds are fire-and-forget.
type Player interface {
	// PlayMusic loops the named clip, crossfading from whatever plays now.
	// Replaying the current clip is a no-op; an empty name fades music out.
	PlayMusic(clip string)
	// PlaySound plays the named clip once at a world position.
	PlaySound(clip string, at geom.Vec2)
	// Update advances in-flight fades by dt seconds. Called once per tick.
	Update(dt float64)
	// Close releases playback resources.
	Close() error
}

// Nop is a Player that does nothing, for tests and headless runs.
type Nop struct{}

var _ Player = Nop{}

func (Nop) PlayMusic(string)            {}
func (Nop) PlaySound(string, geom.Vec2) {}
func (Nop) Update(float64)              {}
func (Nop) Close() error                { return nil }
