// Package sound implements the audio.Player interface on beep, mixing
// looped room music with one-shot effect clips loaded from WAV files.
package sound

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/stagehand-games/stagehand/pkg/audio"
	"github.com/stagehand-games/stagehand/pkg/geom"
)

const sampleRate = beep.SampleRate(44100)

// Player plays named clips from a directory of WAV files. Music changes
// crossfade over the configured fade time, driven by Update ticks.
type Player struct {
	log     *slog.Logger
	dir     string
	fadeSec float64

	mixer       *beep.Mixer
	buffers     map[string]*beep.Buffer
	current     *track
	fading      []*track
	currentName string
	initialized bool
}

var _ audio.Player = (*Player)(nil)

type track struct {
	ctrl   *beep.Ctrl
	gain   *gainStreamer
	target float64
}

// NewPlayer creates a player over the clip directory. fadeSec is the music
// crossfade time in seconds.
func NewPlayer(dir string, fadeSec float64, log *slog.Logger) (*Player, error) {
	p := &Player{
		log:     log,
		dir:     dir,
		fadeSec: fadeSec,
		mixer:   &beep.Mixer{},
		buffers: make(map[string]*beep.Buffer),
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return nil, fmt.Errorf("failed to init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return p, nil
}

// PlayMusic crossfades to the named music clip, looped. An empty name
// fades the current music out.
func (p *Player) PlayMusic(name string) {
	if !p.initialized || name == p.currentName {
		return
	}
	p.currentName = name

	speaker.Lock()
	if p.current != nil {
		p.current.target = 0
		p.fading = append(p.fading, p.current)
		p.current = nil
	}
	speaker.Unlock()

	if name == "" {
		return
	}
	buf, err := p.loadBuffer(name)
	if err != nil {
		p.log.Error("failed to load music clip", "clip", name, "error", err)
		return
	}

	gain := &gainStreamer{
		streamer: beep.Loop(-1, buf.Streamer(0, buf.Len())),
	}
	ctrl := &beep.Ctrl{Streamer: gain}
	t := &track{ctrl: ctrl, gain: gain, target: 1}

	speaker.Lock()
	p.current = t
	p.mixer.Add(ctrl)
	speaker.Unlock()
	p.log.Debug("music started", "clip", name)
}

// PlaySound fires a one-shot effect clip. Playback is mono, so the world
// position is ignored.
func (p *Player) PlaySound(name string, _ geom.Vec2) {
	if !p.initialized || name == "" {
		return
	}
	buf, err := p.loadBuffer(name)
	if err != nil {
		p.log.Error("failed to load sound clip", "clip", name, "error", err)
		return
	}
	speaker.Lock()
	p.mixer.Add(buf.Streamer(0, buf.Len()))
	speaker.Unlock()
}

// Update advances the crossfade by dt seconds.
func (p *Player) Update(dt float64) {
	if !p.initialized || p.fadeSec <= 0 {
		return
	}
	step := dt / p.fadeSec

	speaker.Lock()
	defer speaker.Unlock()

	if p.current != nil {
		p.current.gain.gain = approach(p.current.gain.gain, p.current.target, step)
	}
	kept := p.fading[:0]
	for _, t := range p.fading {
		t.gain.gain = approach(t.gain.gain, t.target, step)
		if t.gain.gain <= 0 {
			t.ctrl.Paused = true
			continue
		}
		kept = append(kept, t)
	}
	p.fading = kept
}

// Close silences everything. The speaker itself has no close.
func (p *Player) Close() error {
	if !p.initialized {
		return nil
	}
	speaker.Lock()
	p.mixer.Clear()
	p.current = nil
	p.fading = nil
	speaker.Unlock()
	p.initialized = false
	return nil
}

func (p *Player) loadBuffer(name string) (*beep.Buffer, error) {
	if buf, ok := p.buffers[name]; ok {
		return buf, nil
	}
	f, err := os.Open(filepath.Join(p.dir, name+".wav"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		src = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}
	buf := beep.NewBuffer(beep.Format{
		SampleRate:  sampleRate,
		NumChannels: 2,
		Precision:   2,
	})
	buf.Append(src)
	p.buffers[name] = buf
	return buf, nil
}

func approach(v, target, step float64) float64 {
	switch {
	case v < target:
		v += step
		if v > target {
			v = target
		}
	case v > target:
		v -= step
		if v < target {
			v = target
		}
	}
	return v
}

// gainStreamer scales samples by a linear gain. Mutations happen under
// speaker.Lock.
type gainStreamer struct {
	streamer beep.Streamer
	gain     float64
}

func (g *gainStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := g.streamer.Stream(samples)
	for i := range samples[:n] {
		samples[i][0] *= g.gain
		samples[i][1] *= g.gain
	}
	return n, ok
}

func (g *gainStreamer) Err() error {
	return g.streamer.Err()
}
