package services

import "sync"

// roomLocks hands out one mutex per room id so that the check-then-insert
// section of booking creation serializes per room. Contention is scoped to
// a single room; bookings for different rooms never block each other.
//
// Locks are never removed; the map grows with the number of distinct rooms
// ever booked, which is bounded by the hotel inventory.
type roomLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[uint]*sync.Mutex)}
}

func (r *roomLocks) get(roomID uint) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[roomID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[roomID] = l
	}
	return l
}

// lock acquires the mutexes for the given rooms in ascending id order so
// that two callers locking the same pair cannot deadlock. Duplicate ids are
// locked once. The returned function releases everything.
func (r *roomLocks) lock(roomIDs ...uint) func() {
	seen := make(map[uint]bool, len(roomIDs))
	ordered := make([]uint, 0, len(roomIDs))
	for _, id := range roomIDs {
		if !seen[id] {
			seen[id] = true
			ordered = append(ordered, id)
		}
	}
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j] < ordered[j-1]; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	held := make([]*sync.Mutex, 0, len(ordered))
	for _, id := range ordered {
		l := r.get(id)
		l.Lock()
		held = append(held, l)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
