package ranking

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Rules evaluates a tengo tier script. The script reads the global bounty
// and must set result to a map with name and level.
type Rules struct {
	mu       sync.Mutex
	compiled *tengo.Compiled
	log      *log.Logger
}

func CompileRules(src []byte, logger *log.Logger) (*Rules, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	script := tengo.NewScript(src)
	_ = script.Add("bounty", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("ranking: compile rules: %w", err)
	}
	r := &Rules{compiled: compiled, log: logger}

	// A script that cannot classify zero bounty is rejected up front.
	if _, err := r.eval(0); err != nil {
		return nil, err
	}
	return r, nil
}

// Tier classifies bounty, falling back to DefaultTier on a script error.
func (r *Rules) Tier(bounty int) Tier {
	if r == nil {
		return DefaultTier(bounty)
	}
	t, err := r.eval(bounty)
	if err != nil {
		r.log.Printf("ranking: %v; using default tiers", err)
		return DefaultTier(bounty)
	}
	return t
}

func (r *Rules) eval(bounty int) (t Tier, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// tengo runs native ops like integer division unguarded.
	defer func() {
		if p := recover(); p != nil {
			t, err = Tier{}, fmt.Errorf("ranking: run rules: %v", p)
		}
	}()

	if err := r.compiled.Set("bounty", bounty); err != nil {
		return Tier{}, fmt.Errorf("ranking: set bounty: %w", err)
	}
	if err := r.compiled.Run(); err != nil {
		return Tier{}, fmt.Errorf("ranking: run rules: %w", err)
	}
	if !r.compiled.IsDefined("result") {
		return Tier{}, fmt.Errorf("ranking: rules did not define result")
	}
	m := r.compiled.Get("result").Map()
	if m == nil {
		return Tier{}, fmt.Errorf("ranking: result is not a map")
	}

	name, _ := m["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return Tier{}, fmt.Errorf("ranking: result has no name")
	}
	level, ok := asInt(m["level"])
	if !ok {
		return Tier{}, fmt.Errorf("ranking: result %q has no level", name)
	}
	return Tier{Name: name, Level: level}, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}
