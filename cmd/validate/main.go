package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/stagehand-games/stagehand/pkg/scene"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <scene.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	if !strings.HasSuffix(filepath.Base(filename), ".json") {
		fmt.Fprintf(os.Stderr, "scene file must have .json extension: %s\n", filename)
		os.Exit(1)
	}

	fmt.Printf("Validating %s...\n", filename)

	// collect recoverable loader complaints alongside hard failures
	var warnings strings.Builder
	log := slog.New(slog.NewTextHandler(&warnings, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	world, layout, err := scene.LoadFile(filename, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}
	if warnings.Len() > 0 {
		fmt.Print(warnings.String())
	}

	var timersRunning int
	for _, t := range world.Timers {
		if t.State() == scene.TimerRunning {
			timersRunning++
		}
	}

	fmt.Printf("rooms: %d, items: %d, timers: %d (%d running at start)\n",
		len(world.Rooms), len(world.Items), len(world.Timers), timersRunning)
	if layout.RoomRect.IsZero() || layout.InventoryRect.IsZero() {
		fmt.Fprintln(os.Stderr, "Validation failed: layout must define room_rect and inventory_rect")
		os.Exit(1)
	}
	fmt.Println("Scene file is valid!")
}
