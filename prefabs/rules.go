package prefabs

import (
	"fmt"
	"log"

	"github.com/milk9111/bugbash/ranking"
)

// LoadRules compiles the rank tier script.
func LoadRules(logger *log.Logger) (*ranking.Rules, error) {
	src, err := LoadScript(RankScript)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", RankScript, err)
	}
	return ranking.CompileRules(src, logger)
}
