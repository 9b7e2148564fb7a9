package prefabs

import (
	"fmt"
	"strings"
	"time"

	"github.com/milk9111/bugbash/common"
	"github.com/milk9111/bugbash/ecs/system"
	"github.com/milk9111/bugbash/input"
	"github.com/milk9111/bugbash/store"
	"gopkg.in/yaml.v3"
)

const (
	TuningFile  = "tuning.yaml"
	BugsFile    = "bugs.yaml"
	HuntersFile = "hunters.yaml"
	RankScript  = "rank.tengo"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type Tuning struct {
	Bug          BugTuning     `yaml:"bug"`
	Aim          AimTuning     `yaml:"aim"`
	Gamepad      GamepadTuning `yaml:"gamepad"`
	Keys         KeyTuning     `yaml:"keys"`
	ActiveHunter string        `yaml:"active_hunter"`
}

type BugTuning struct {
	Size       float64 `yaml:"size"`
	Speed      float64 `yaml:"speed"`
	DwellMinMS int     `yaml:"dwell_min_ms"`
	DwellMaxMS int     `yaml:"dwell_max_ms"`
	MaxTilt    float64 `yaml:"max_tilt"`
}

type AimTuning struct {
	Speed           float64 `yaml:"speed"`
	DeadZone        float64 `yaml:"dead_zone"`
	CrosshairRadius float64 `yaml:"crosshair_radius"`
}

// GamepadTuning names standard layout buttons, e.g. right_bottom.
type GamepadTuning struct {
	Primary string `yaml:"primary"`
	Trigger string `yaml:"trigger"`
}

// KeyTuning lists key names per action, e.g. w or arrow_up.
type KeyTuning struct {
	Up    []string `yaml:"up"`
	Down  []string `yaml:"down"`
	Left  []string `yaml:"left"`
	Right []string `yaml:"right"`
	Fire  []string `yaml:"fire"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Bug:     BugTuning{Size: 40, Speed: 0.6, DwellMinMS: 2000, DwellMaxMS: 4000, MaxTilt: 25},
		Aim:     AimTuning{Speed: 320, DeadZone: 0.15, CrosshairRadius: 12},
		Gamepad: GamepadTuning{Primary: "right_bottom", Trigger: "front_bottom_right"},
		Keys: KeyTuning{
			Up:    []string{"w", "arrow_up"},
			Down:  []string{"s", "arrow_down"},
			Left:  []string{"a", "arrow_left"},
			Right: []string{"d", "arrow_right"},
			Fire:  []string{"space"},
		},
	}
}

// Validate rejects tunings the simulation cannot run with.
func (t Tuning) Validate() error {
	switch {
	case t.Bug.Size <= 0:
		return fmt.Errorf("prefabs: bug.size must be positive, got %v", t.Bug.Size)
	case t.Bug.Speed < 0:
		return fmt.Errorf("prefabs: bug.speed must not be negative, got %v", t.Bug.Speed)
	case t.Bug.DwellMinMS <= 0 || t.Bug.DwellMaxMS < t.Bug.DwellMinMS:
		return fmt.Errorf("prefabs: bug dwell range %d..%d ms is invalid", t.Bug.DwellMinMS, t.Bug.DwellMaxMS)
	case t.Aim.Speed < 0:
		return fmt.Errorf("prefabs: aim.speed must not be negative, got %v", t.Aim.Speed)
	case t.Aim.DeadZone < 0 || t.Aim.DeadZone >= 1:
		return fmt.Errorf("prefabs: aim.dead_zone must be in [0, 1), got %v", t.Aim.DeadZone)
	}
	return nil
}

func (t Tuning) Motion() system.MotionConfig {
	return system.MotionConfig{
		Speed:    t.Bug.Speed,
		DwellMin: time.Duration(t.Bug.DwellMinMS) * time.Millisecond,
		DwellMax: time.Duration(t.Bug.DwellMaxMS) * time.Millisecond,
	}
}

func (t Tuning) Input() input.Config {
	return input.Config{Speed: t.Aim.Speed, DeadZone: t.Aim.DeadZone}
}

// ParseTuning decodes data over the defaults so partial files work.
func ParseTuning(data []byte) (Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return DefaultTuning(), fmt.Errorf("prefabs: unmarshal %s: %w", TuningFile, err)
	}
	if err := t.Validate(); err != nil {
		return DefaultTuning(), err
	}
	return t, nil
}

func LoadTuning() (Tuning, error) {
	data, err := Load(TuningFile)
	if err != nil {
		return DefaultTuning(), fmt.Errorf("prefabs: load %s: %w", TuningFile, err)
	}
	return ParseTuning(data)
}

type BugSpec struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Category    *int   `yaml:"category"`
	Bounty      int    `yaml:"bounty"`
	Priority    string `yaml:"priority"`
	Assignee    string `yaml:"assignee"`
	Active      *bool  `yaml:"active"`
	Created     string `yaml:"created"`
	Resolved    string `yaml:"resolved"`
}

type BugsSpec struct {
	Bugs []BugSpec `yaml:"bugs"`
}

type HunterSpec struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Bounty int    `yaml:"bounty"`
	Bugs   int    `yaml:"bugs"`
}

type HuntersSpec struct {
	Hunters []HunterSpec `yaml:"hunters"`
}

func (s BugSpec) Build() (store.Bug, error) {
	id := strings.TrimSpace(s.ID)
	if id == "" {
		return store.Bug{}, fmt.Errorf("prefabs: bug %q has no id", s.Title)
	}
	pr := store.Priority(strings.ToLower(strings.TrimSpace(s.Priority)))
	if !pr.Valid() {
		return store.Bug{}, fmt.Errorf("prefabs: bug %s: unknown priority %q", id, s.Priority)
	}
	if s.Bounty < 0 {
		return store.Bug{}, fmt.Errorf("prefabs: bug %s: negative bounty %d", id, s.Bounty)
	}

	b := store.Bug{
		ID:          id,
		Title:       s.Title,
		Description: s.Description,
		Category:    common.Family(id),
		Active:      true,
		Bounty:      s.Bounty,
		Priority:    pr,
		Assignee:    s.Assignee,
	}
	if s.Category != nil {
		b.Category = ((*s.Category % common.Families) + common.Families) % common.Families
	}
	if s.Active != nil {
		b.Active = *s.Active
	}

	var err error
	if b.CreatedAt, err = parseDate(s.Created); err != nil {
		return store.Bug{}, fmt.Errorf("prefabs: bug %s created: %w", id, err)
	}
	if b.ResolvedAt, err = parseDate(s.Resolved); err != nil {
		return store.Bug{}, fmt.Errorf("prefabs: bug %s resolved: %w", id, err)
	}
	return b, nil
}

func (s HunterSpec) Build() store.Hunter {
	return store.Hunter{ID: s.ID, Name: s.Name, PriorBounty: s.Bounty, PriorBugs: s.Bugs}
}

// BuildSeed converts seed specs into an initial store state.
func BuildSeed(bugs BugsSpec, hunters HuntersSpec, activeHunter string) (store.State, error) {
	var st store.State
	seen := make(map[string]bool, len(bugs.Bugs))
	for _, spec := range bugs.Bugs {
		b, err := spec.Build()
		if err != nil {
			return store.State{}, err
		}
		if seen[b.ID] {
			return store.State{}, fmt.Errorf("prefabs: duplicate bug id %s", b.ID)
		}
		seen[b.ID] = true
		st.Bugs = append(st.Bugs, b)
	}
	for _, spec := range hunters.Hunters {
		st.Hunters = append(st.Hunters, spec.Build())
	}
	st.ActiveHunter = activeHunter
	return st, nil
}

func LoadSeed(activeHunter string) (store.State, error) {
	bugs, err := LoadSpec[BugsSpec](BugsFile)
	if err != nil {
		return store.State{}, err
	}
	hunters, err := LoadSpec[HuntersSpec](HuntersFile)
	if err != nil {
		return store.State{}, err
	}
	return BuildSeed(bugs, hunters, activeHunter)
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unparseable date %q", s)
}
