package main

import (
	"testing"

	"github.com/milk9111/bugbash/prefabs"
)

func TestSeedFile(t *testing.T) {
	cases := map[string]bool{
		prefabs.BugsFile:    true,
		prefabs.HuntersFile: true,
		prefabs.TuningFile:  false,
		prefabs.RankScript:  false,
		"notes.yaml":        false,
	}
	for name, want := range cases {
		if got := seedFile(name); got != want {
			t.Fatalf("seedFile(%q) = %v, want %v", name, got, want)
		}
	}
}
