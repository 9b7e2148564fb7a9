// Command soak drives the interaction loop headlessly with synthetic input
// and checks that no squash is credited twice and no bug leaves the field.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"

	"github.com/milk9111/bugbash/ecs/system"
	"github.com/milk9111/bugbash/input"
	"github.com/milk9111/bugbash/interaction"
	"github.com/milk9111/bugbash/prefabs"
	"github.com/milk9111/bugbash/store"
	"github.com/milk9111/bugbash/targeting"
)

type runStats struct {
	runIndex int
	seed     int64

	fires    int
	inspects int
	squashes int
	misses   int
	filed    int
	errors   int

	bySource map[input.Source]int

	credited    int
	expected    int
	outOfBounds int
	remaining   int
}

func (r runStats) ok() bool {
	return r.credited == r.expected && r.outOfBounds == 0 && r.errors == 0
}

type config struct {
	ticks         int
	width, height float64
	fileEvery     int
	fireChance    float64
	verbose       bool
	tuning        prefabs.Tuning
}

// loadTuning reads the embedded tuning, ignoring disk overrides, then
// applies BUGBASH_* values from envFile without touching the process
// environment.
func loadTuning(envFile string) (prefabs.Tuning, error) {
	data, err := prefabs.LoadEmbedded(prefabs.TuningFile)
	if err != nil {
		return prefabs.Tuning{}, err
	}
	t, err := prefabs.ParseTuning(data)
	if err != nil {
		return t, err
	}
	if envFile == "" {
		return t, nil
	}
	vals, err := prefabs.ReadEnvFile(envFile)
	if err != nil {
		return t, err
	}
	return prefabs.ApplyEnv(t, prefabs.MapLookup(vals))
}

// pad is a synthetic standard gamepad that presses its primary button
// when told to.
type pad struct {
	press bool
	axisX float64
	axisY float64
}

func (p *pad) PollGamepad(input.GamepadID) (input.GamepadState, bool) {
	s := input.GamepadState{AxisX: p.axisX, AxisY: p.axisY, Primary: p.press}
	p.press = false
	return s, true
}

func main() {
	var runs int
	var seedBase int64
	var seedStep int64
	var envFile string
	var cfg config

	flag.IntVar(&runs, "runs", 5, "number of soak runs")
	flag.IntVar(&cfg.ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.Float64Var(&cfg.width, "width", 1280, "viewport width")
	flag.Float64Var(&cfg.height, "height", 720, "viewport height")
	flag.IntVar(&cfg.fileEvery, "file-every", 600, "file a new bug every n ticks (0 = never)")
	flag.Float64Var(&cfg.fireChance, "fire-chance", 0.05, "chance per tick of a fire edge")
	flag.BoolVar(&cfg.verbose, "v", false, "log controller output")
	flag.StringVar(&envFile, "env", "", "env file with BUGBASH_* tuning overrides")
	flag.Parse()

	if runs <= 0 || cfg.ticks <= 0 {
		fmt.Println("error: -runs and -ticks must be > 0")
		os.Exit(2)
	}

	tuning, err := loadTuning(envFile)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(2)
	}
	cfg.tuning = tuning

	fmt.Printf("=== Soak Report ===\n")
	fmt.Printf("runs=%d ticks=%d seed_base=%d seed_step=%d viewport=%.0fx%.0f\n\n", runs, cfg.ticks, seedBase, seedStep, cfg.width, cfg.height)

	failed := 0
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := run(i+1, seed, cfg)
		if err != nil {
			log.Fatal(err)
		}
		printRun(stats)
		if !stats.ok() {
			failed++
		}
	}
	if failed > 0 {
		fmt.Printf("\n%d run(s) FAILED\n", failed)
		os.Exit(1)
	}
	fmt.Printf("\nall runs ok\n")
}

func run(runIndex int, seed int64, cfg config) (runStats, error) {
	rs := runStats{runIndex: runIndex, seed: seed, bySource: map[input.Source]int{}}

	seedState, err := prefabs.LoadSeed(cfg.tuning.ActiveHunter)
	if err != nil {
		return rs, err
	}
	logger := log.New(io.Discard, "", 0)
	if cfg.verbose {
		logger = log.New(os.Stderr, fmt.Sprintf("run %d: ", runIndex), 0)
	}
	mem := store.NewMemory(seedState, store.WithLogger(logger))
	startBounty := hunterBounty(mem.Snapshot())

	rng := rand.New(rand.NewSource(seed))
	gp := &pad{}
	ctrl := interaction.New(mem, cfg.tuning,
		interaction.WithLogger(logger),
		interaction.WithRand(rand.New(rand.NewSource(seed+1))),
		interaction.WithPoller(gp),
	)
	defer ctrl.Close()
	ctrl.Resize(0, 0, cfg.width, cfg.height)
	ctrl.Input().Connect(0, true)

	for tick := 1; tick <= cfg.ticks; tick++ {
		if cfg.fileEvery > 0 && tick%cfg.fileEvery == 0 {
			if _, err := mem.File(store.NewBug{Title: fmt.Sprintf("soak bug %d", tick), Bounty: 50 + rng.Intn(400)}); err != nil {
				return rs, err
			}
			rs.filed++
		}
		drive(ctrl, gp, rng, cfg.fireChance)

		res, err := ctrl.Tick(system.ReferenceTick)
		if err != nil {
			rs.errors++
			logger.Printf("tick %d: %v", tick, err)
		}
		if res.Fired {
			rs.fires++
			rs.bySource[res.Source]++
			switch res.Action {
			case targeting.Inspect:
				rs.inspects++
			case targeting.Squash:
				rs.squashes++
			default:
				rs.misses++
			}
		}
		rs.outOfBounds += countOutOfBounds(ctrl, cfg.width, cfg.height)
	}

	final := mem.Snapshot()
	rs.credited = hunterBounty(final) - startBounty
	for _, b := range final.Bugs {
		if b.Active {
			rs.remaining++
			continue
		}
		if b.ResolvedAt != nil && !wasResolved(seedState, b.ID) {
			rs.expected += b.Bounty
		}
	}
	return rs, nil
}

// drive feeds one tick of synthetic input: mostly aiming at bugs, sometimes
// stick drift, and a fire edge from a random device.
func drive(ctrl *interaction.Controller, gp *pad, rng *rand.Rand, fireChance float64) {
	in := ctrl.Input()
	gp.axisX, gp.axisY = 0, 0

	switch r := rng.Float64(); {
	case r < 0.02:
		if sprites := ctrl.Sprites(); len(sprites) > 0 {
			s := sprites[rng.Intn(len(sprites))]
			in.PointerMove(s.Pos.X+s.Size/2, s.Pos.Y+s.Size/2)
		}
	case r < 0.3:
		gp.axisX = rng.Float64()*2 - 1
		gp.axisY = rng.Float64()*2 - 1
	}

	if rng.Float64() >= fireChance {
		return
	}
	switch rng.Intn(3) {
	case 0:
		in.PointerClick()
	case 1:
		in.FireKey()
	default:
		gp.press = true
	}
}

func countOutOfBounds(ctrl *interaction.Controller, w, h float64) int {
	n := 0
	for _, s := range ctrl.Sprites() {
		maxX, maxY := max(0, w-s.Size), max(0, h-s.Size)
		if s.Pos.X < 0 || s.Pos.Y < 0 || s.Pos.X > maxX || s.Pos.Y > maxY {
			n++
		}
	}
	return n
}

func hunterBounty(s store.State) int {
	total := 0
	for _, h := range s.Hunters {
		total += h.TotalBounty()
	}
	return total
}

func wasResolved(s store.State, id string) bool {
	b, ok := s.Bug(id)
	return ok && !b.Active
}

func printRun(rs runStats) {
	status := "ok"
	if !rs.ok() {
		status = "FAIL"
	}
	fmt.Printf("run %d seed=%d [%s]\n", rs.runIndex, rs.seed, status)
	fmt.Printf("  fires=%d (pointer=%d keyboard=%d gamepad=%d) inspects=%d squashes=%d misses=%d\n",
		rs.fires, rs.bySource[input.SourcePointer], rs.bySource[input.SourceKeyboard], rs.bySource[input.SourceGamepad],
		rs.inspects, rs.squashes, rs.misses)
	fmt.Printf("  filed=%d remaining=%d credited=%d expected=%d out_of_bounds=%d errors=%d\n",
		rs.filed, rs.remaining, rs.credited, rs.expected, rs.outOfBounds, rs.errors)
}
