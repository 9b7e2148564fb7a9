package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/bugbash/interaction"
	"github.com/milk9111/bugbash/prefabs"
	"github.com/milk9111/bugbash/ranking"
	"github.com/milk9111/bugbash/store"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	seed := flag.Int64("seed", 0, "random seed for layout and wandering (0 = time based)")
	hunter := flag.String("hunter", "", "hunter id credited for squashes (overrides tuning)")
	watch := flag.Bool("watch", false, "hot reload prefabs/tuning.yaml and prefabs/scripts/rank.tengo")
	envFile := flag.String("env", ".env", "optional env file with BUGBASH_* overrides")
	sortBy := flag.String("sort", "rank", "leaderboard column: rank, name, bugs, bounty, efficiency or level")
	flag.Parse()

	if err := prefabs.LoadEnv(*envFile); err != nil {
		log.Printf("main: %v", err)
	}
	tuning, err := prefabs.LoadTuning()
	if err != nil {
		log.Printf("main: %v; using defaults", err)
	}
	if t, err := prefabs.ApplyEnv(tuning, os.LookupEnv); err != nil {
		log.Printf("main: %v; ignoring env overrides", err)
	} else {
		tuning = t
	}
	active := tuning.ActiveHunter
	if *hunter != "" {
		active = *hunter
	}

	seedState, err := prefabs.LoadSeed(active)
	if err != nil {
		log.Fatal(err)
	}
	s := store.NewMemory(seedState)

	sortKey, err := ranking.ParseSortKey(*sortBy)
	if err != nil {
		log.Printf("main: %v; sorting by rank", err)
		sortKey = ranking.SortRank
	}
	rules, err := prefabs.LoadRules(log.Default())
	if err != nil {
		log.Printf("main: %v; using default tiers", err)
	}

	var watcher *prefabs.Watcher
	if *watch {
		watcher, err = prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			log.Printf("main: watch prefabs: %v", err)
		}
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	if *debug {
		log.Printf("main: seed %d, hunter %q", *seed, active)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("bugbash")

	game := NewGame(s, tuning, rules, watcher, *debug, interaction.WithRand(rand.New(rand.NewSource(*seed))))
	defer game.Close()
	game.SetOrder(ranking.NewOrder(sortKey))

	// The crosshair replaces the OS cursor.
	ebiten.SetCursorMode(ebiten.CursorModeHidden)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
