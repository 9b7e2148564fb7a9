package store

import (
	"errors"
	"time"
)

var errNoChange = errors.New("store: no change")

func cloneState(s State) State {
	out := State{ActiveHunter: s.ActiveHunter, Inspected: s.Inspected}
	if s.Bugs != nil {
		out.Bugs = make([]Bug, len(s.Bugs))
		for i, b := range s.Bugs {
			out.Bugs[i] = cloneBug(b)
		}
	}
	if s.Hunters != nil {
		out.Hunters = make([]Hunter, len(s.Hunters))
		for i, h := range s.Hunters {
			h.Squashed = append([]string(nil), h.Squashed...)
			out.Hunters[i] = h
		}
	}
	return out
}

func cloneBug(b Bug) Bug {
	b.CreatedAt = cloneTime(b.CreatedAt)
	b.ResolvedAt = cloneTime(b.ResolvedAt)
	return b
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
