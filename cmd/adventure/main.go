package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stagehand-games/stagehand/internal/config"
	"github.com/stagehand-games/stagehand/internal/logger"
	"github.com/stagehand-games/stagehand/internal/prefs"
	"github.com/stagehand-games/stagehand/internal/sound"
	"github.com/stagehand-games/stagehand/pkg/audio"
	"github.com/stagehand-games/stagehand/pkg/message"
	"github.com/stagehand-games/stagehand/pkg/scene"
	"github.com/stagehand-games/stagehand/pkg/session"
)

const musicFadeSec = 5.0

func main() {
	cfg := config.Load()

	// the TUI owns the terminal, so logs go to a file
	logFile, err := os.OpenFile("stagehand.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := logger.Setup(cfg, logFile)

	scenePath := cfg.ScenePath
	if len(os.Args) > 1 {
		scenePath = os.Args[1]
	}

	world, layout, err := scene.LoadFile(scenePath, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load scene: %v\n", err)
		os.Exit(1)
	}

	store, err := prefs.Open(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open save store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var player audio.Player = audio.Nop{}
	if !cfg.Mute {
		p, err := sound.NewPlayer("data/audio", musicFadeSec, log)
		if err != nil {
			log.Warn("audio unavailable, playing silent", "error", err)
		} else {
			player = p
		}
	}
	defer player.Close()

	window := message.NewPaged(messageWidth, messageLines)
	history := newTranscript(window)

	sessCfg := session.DefaultConfig()
	sessCfg.Layout = layout
	sessCfg.Verbose = cfg.Verbose
	sessCfg.SaveSlot = cfg.SaveSlot

	sess := session.New(world, history, player, store, sessCfg, log)
	sess.Start()

	ui := NewUI(sess, window, history, layout, log)
	prog := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := prog.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running program: %v\n", err)
		os.Exit(1)
	}
}
