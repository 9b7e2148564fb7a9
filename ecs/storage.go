package ecs

// entityStore tracks slot generations and free slot ids.
type entityStore struct {
	gens  []genID
	alive []bool
	free  []slotID
	live  int
}

func (s *entityStore) create() Entity {
	if s == nil {
		return 0
	}
	var id slotID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gens = append(s.gens, 0)
		s.alive = append(s.alive, false)
		id = slotID(len(s.gens))
	}
	s.alive[id-1] = true
	s.live++
	return packEntity(id, s.gens[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	idx := e.slot() - 1
	s.gens[idx]++
	s.alive[idx] = false
	s.free = append(s.free, e.slot())
	s.live--
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	if s == nil || !e.Valid() || int(e.slot()) > len(s.gens) {
		return false
	}
	idx := e.slot() - 1
	return s.alive[idx] && s.gens[idx] == e.gen()
}

func (s *entityStore) all() []Entity {
	if s == nil || s.live == 0 {
		return nil
	}
	out := make([]Entity, 0, s.live)
	for i, ok := range s.alive {
		if ok {
			out = append(out, packEntity(slotID(i+1), s.gens[i]))
		}
	}
	return out
}
