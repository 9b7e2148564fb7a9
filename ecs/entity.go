package ecs

import "fmt"

type slotID uint32
type genID uint32

// Entity packs a 1-based slot in its low half and the slot's generation in
// its high half. Zero is never alive.
type Entity uint64

func packEntity(slot slotID, gen genID) Entity {
	return Entity(uint64(gen)<<32 | uint64(slot))
}

func (e Entity) slot() slotID { return slotID(e & 0xffffffff) }

func (e Entity) gen() genID { return genID(e >> 32) }

// Valid reports whether e names a slot at all; it says nothing about
// liveness.
func (e Entity) Valid() bool { return e.slot() != 0 }

func (e Entity) String() string {
	return fmt.Sprintf("%d.%d", e.slot(), e.gen())
}
