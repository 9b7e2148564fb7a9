// Package store holds the bug and hunter state shared by every view.
package store

import (
	"errors"
	"time"
)

var (
	ErrUnknownBug      = errors.New("store: unknown bug")
	ErrAlreadySquashed = errors.New("store: bug already squashed")
	ErrUnknownHunter   = errors.New("store: unknown hunter")
	ErrInvalidBug      = errors.New("store: invalid bug")
)

type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Bug struct {
	ID          string
	Title       string
	Description string
	Category    int
	Active      bool
	Bounty      int
	Priority    Priority
	Assignee    string
	CreatedAt   *time.Time
	ResolvedAt  *time.Time
}

// Hunter is a leaderboard participant. Score is the bounty earned this
// session; PriorBounty and PriorBugs come from the seed leaderboard.
type Hunter struct {
	ID          string
	Name        string
	Score       int
	Squashed    []string
	PriorBounty int
	PriorBugs   int
}

func (h Hunter) TotalBounty() int {
	return h.PriorBounty + h.Score
}

func (h Hunter) BugCount() int {
	return h.PriorBugs + len(h.Squashed)
}

// State is a full snapshot. Snapshots never alias store internals.
type State struct {
	Bugs         []Bug
	Hunters      []Hunter
	ActiveHunter string
	Inspected    string
}

// Bug returns the bug with id.
func (s State) Bug(id string) (Bug, bool) {
	for _, b := range s.Bugs {
		if b.ID == id {
			return b, true
		}
	}
	return Bug{}, false
}

func (s State) Hunter(id string) (Hunter, bool) {
	for _, h := range s.Hunters {
		if h.ID == id {
			return h, true
		}
	}
	return Hunter{}, false
}

// NextHunter returns the hunter after the active one in board order,
// wrapping. It is empty when there are no hunters.
func (s State) NextHunter() string {
	if len(s.Hunters) == 0 {
		return ""
	}
	for i, h := range s.Hunters {
		if h.ID == s.ActiveHunter {
			return s.Hunters[(i+1)%len(s.Hunters)].ID
		}
	}
	return s.Hunters[0].ID
}

// Active returns the number of bugs still wandering.
func (s State) Active() int {
	n := 0
	for _, b := range s.Bugs {
		if b.Active {
			n++
		}
	}
	return n
}

// NewBug is the input to File.
type NewBug struct {
	Title       string
	Description string
	Bounty      int
	Priority    Priority
	Assignee    string
}

// Store is the contract the interaction core depends on.
type Store interface {
	Snapshot() State
	// Inspect sets the inspected bug; an empty id clears it.
	Inspect(id string) error
	// Squash deactivates an active bug and credits the active hunter. It
	// reports ErrAlreadySquashed for inactive bugs and changes nothing.
	Squash(id string) error
	File(nb NewBug) (Bug, error)
	// Subscribe registers fn to run after every state change. The returned
	// func removes it.
	Subscribe(fn func(State)) (cancel func())
}
