package store

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/milk9111/bugbash/common"
)

type Option func(*Memory)

func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(m *Memory) {
		if l != nil {
			m.log = l
		}
	}
}

// Memory is an in-process Store. Every command swaps in a new State value
// under the lock; subscribers run after the lock is released.
type Memory struct {
	mu     sync.RWMutex
	state  State
	nextID int

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int

	now func() time.Time
	log *log.Logger
}

var _ Store = (*Memory)(nil)

// NewMemory seeds a store from initial. Hunters are ordered by total bounty
// and an unknown active hunter falls back to the leader.
func NewMemory(initial State, opts ...Option) *Memory {
	m := &Memory{
		state: cloneState(initial),
		subs:  make(map[int]func(State)),
		now:   time.Now,
		log:   log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	sortHunters(m.state.Hunters)
	if len(m.state.Hunters) > 0 && hunterIndex(m.state.Hunters, m.state.ActiveHunter) < 0 {
		if m.state.ActiveHunter != "" {
			m.log.Printf("store: unknown hunter %q; crediting %s", m.state.ActiveHunter, m.state.Hunters[0].ID)
		}
		m.state.ActiveHunter = m.state.Hunters[0].ID
	}
	m.nextID = highestBugNumber(m.state.Bugs) + 1
	return m
}

func (m *Memory) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneState(m.state)
}

func (m *Memory) Inspect(id string) error {
	next, err := m.update(func(s State) (State, error) {
		if id != "" {
			if _, ok := s.Bug(id); !ok {
				return s, fmt.Errorf("inspect %q: %w", id, ErrUnknownBug)
			}
		}
		if s.Inspected == id {
			return s, errNoChange
		}
		s.Inspected = id
		return s, nil
	})
	if errors.Is(err, errNoChange) {
		return nil
	}
	if err != nil {
		return err
	}
	m.notify(next)
	return nil
}

func (m *Memory) Squash(id string) error {
	next, err := m.update(func(s State) (State, error) {
		idx := bugIndex(s.Bugs, id)
		if idx < 0 {
			return s, fmt.Errorf("squash %q: %w", id, ErrUnknownBug)
		}
		if !s.Bugs[idx].Active {
			return s, fmt.Errorf("squash %q: %w", id, ErrAlreadySquashed)
		}
		hi := hunterIndex(s.Hunters, s.ActiveHunter)
		if hi < 0 {
			return s, fmt.Errorf("squash %q: hunter %q: %w", id, s.ActiveHunter, ErrUnknownHunter)
		}

		resolved := m.now()
		bug := s.Bugs[idx]
		bug.Active = false
		bug.ResolvedAt = &resolved
		s.Bugs[idx] = bug

		h := s.Hunters[hi]
		h.Score += bug.Bounty
		h.Squashed = append(h.Squashed, bug.ID)
		s.Hunters[hi] = h
		sortHunters(s.Hunters)

		s.Inspected = ""
		return s, nil
	})
	if err != nil {
		return err
	}
	m.log.Printf("store: squashed %s for %s", id, next.ActiveHunter)
	m.notify(next)
	return nil
}

// File appends a new active bug with a generated id.
func (m *Memory) File(nb NewBug) (Bug, error) {
	title := strings.TrimSpace(nb.Title)
	if title == "" {
		return Bug{}, fmt.Errorf("file: empty title: %w", ErrInvalidBug)
	}
	if nb.Bounty < 0 {
		return Bug{}, fmt.Errorf("file: negative bounty %d: %w", nb.Bounty, ErrInvalidBug)
	}
	if !nb.Priority.Valid() {
		return Bug{}, fmt.Errorf("file: priority %q: %w", nb.Priority, ErrInvalidBug)
	}

	var filed Bug
	next, err := m.update(func(s State) (State, error) {
		created := m.now()
		id := "bug-" + strconv.Itoa(m.nextID)
		filed = Bug{
			ID:          id,
			Title:       title,
			Description: nb.Description,
			Category:    common.Family(id),
			Active:      true,
			Bounty:      nb.Bounty,
			Priority:    nb.Priority,
			Assignee:    nb.Assignee,
			CreatedAt:   &created,
		}
		m.nextID++
		s.Bugs = append(s.Bugs, filed)
		return s, nil
	})
	if err != nil {
		return Bug{}, err
	}
	m.notify(next)
	return cloneBug(filed), nil
}

// SetActiveHunter changes who is credited for squashes.
func (m *Memory) SetActiveHunter(id string) error {
	next, err := m.update(func(s State) (State, error) {
		if hunterIndex(s.Hunters, id) < 0 {
			return s, fmt.Errorf("set hunter %q: %w", id, ErrUnknownHunter)
		}
		if s.ActiveHunter == id {
			return s, errNoChange
		}
		s.ActiveHunter = id
		return s, nil
	})
	if errors.Is(err, errNoChange) {
		return nil
	}
	if err != nil {
		return err
	}
	m.notify(next)
	return nil
}

func (m *Memory) Subscribe(fn func(State)) func() {
	if fn == nil {
		return func() {}
	}
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subs, id)
			m.subMu.Unlock()
		})
	}
}

// update applies fn to a private copy of the state and publishes it. Any
// error from fn, errNoChange included, leaves the state untouched.
func (m *Memory) update(fn func(State) (State, error)) (State, error) {
	m.mu.Lock()
	next, err := fn(cloneState(m.state))
	if err != nil {
		m.mu.Unlock()
		return State{}, err
	}
	m.state = next
	snap := cloneState(next)
	m.mu.Unlock()
	return snap, nil
}

func (m *Memory) notify(s State) {
	m.subMu.Lock()
	ids := make([]int, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(State), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.subs[id])
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(cloneState(s))
	}
}

func sortHunters(hs []Hunter) {
	sort.SliceStable(hs, func(i, j int) bool {
		return hs[i].TotalBounty() > hs[j].TotalBounty()
	})
}

func bugIndex(bugs []Bug, id string) int {
	for i := range bugs {
		if bugs[i].ID == id {
			return i
		}
	}
	return -1
}

func hunterIndex(hs []Hunter, id string) int {
	for i := range hs {
		if hs[i].ID == id {
			return i
		}
	}
	return -1
}

func highestBugNumber(bugs []Bug) int {
	highest := 0
	for _, b := range bugs {
		n, err := strconv.Atoi(strings.TrimPrefix(b.ID, "bug-"))
		if err == nil && n > highest {
			highest = n
		}
	}
	return highest
}
