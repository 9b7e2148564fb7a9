// Command bugbash-tty plays bugbash in a terminal.
package main

import (
	"flag"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/bugbash/interaction"
	"github.com/milk9111/bugbash/prefabs"
	"github.com/milk9111/bugbash/ranking"
	"github.com/milk9111/bugbash/store"
)

func main() {
	seed := flag.Int64("seed", 0, "random seed (0 = time based)")
	hunter := flag.String("hunter", "", "hunter id credited for squashes")
	envFile := flag.String("env", ".env", "optional env file with BUGBASH_* overrides")
	sortBy := flag.String("sort", "rank", "leaderboard column: rank, name, bugs, bounty, efficiency or level")
	logFile := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	// The terminal owns stdout, so logs go to a file or nowhere.
	logger := log.New(io.Discard, "", 0)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		logger = log.New(f, "", log.LstdFlags)
	}

	if err := prefabs.LoadEnv(*envFile); err != nil {
		logger.Printf("main: %v", err)
	}
	tuning, err := prefabs.LoadTuning()
	if err != nil {
		logger.Printf("main: %v; using defaults", err)
	}
	if t, err := prefabs.ApplyEnv(tuning, os.LookupEnv); err != nil {
		logger.Printf("main: %v; ignoring env overrides", err)
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
	s := store.NewMemory(seedState, store.WithLogger(logger))
	sortKey, err := ranking.ParseSortKey(*sortBy)
	if err != nil {
		logger.Printf("main: %v; sorting by rank", err)
		sortKey = ranking.SortRank
	}
	rules, err := prefabs.LoadRules(logger)
	if err != nil {
		logger.Printf("main: %v; using default tiers", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	screen.EnableMouse()
	screen.HideCursor()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	app := NewApp(screen, s, tuning, rules, logger, interaction.WithRand(rand.New(rand.NewSource(*seed))))
	app.SetOrder(ranking.NewOrder(sortKey))
	app.Run()
	app.Close()
	screen.Fini()
}
