package services

import (
	"hash/fnv"
	"slices"
	"sync"
)

// FreeTables lists the tables in 1..capacity that are not in used, ascending.
func FreeTables(used []int, capacity int) []int {
	taken := make(map[int]bool, len(used))
	for _, t := range used {
		taken[t] = true
	}

	free := make([]int, 0, capacity)
	for t := 1; t <= capacity; t++ {
		if !taken[t] {
			free = append(free, t)
		}
	}
	return free
}

// LowestFreeTable returns the smallest table not in used, or false when
// every table is taken.
func LowestFreeTable(used []int, capacity int) (int, bool) {
	free := FreeTables(used, capacity)
	if len(free) == 0 {
		return 0, false
	}
	return free[0], true
}

const slotLockStripes = 64

type slot struct {
	date, time string
}

// slotLocks serialises read-then-write assignment per (date, time) inside
// this process. It does not coordinate separate server processes.
type slotLocks struct {
	stripes [slotLockStripes]sync.Mutex
}

func (l *slotLocks) stripe(s slot) int {
	h := fnv.New32a()
	h.Write([]byte(s.date))
	h.Write([]byte{0})
	h.Write([]byte(s.time))
	return int(h.Sum32() % slotLockStripes)
}

// lock holds every given slot until the returned func is called. Stripes
// are taken in ascending order so two callers holding two slots each
// cannot deadlock.
func (l *slotLocks) lock(slots ...slot) func() {
	idx := make([]int, 0, len(slots))
	for _, s := range slots {
		idx = append(idx, l.stripe(s))
	}
	slices.Sort(idx)
	idx = slices.Compact(idx)

	for _, i := range idx {
		l.stripes[i].Lock()
	}
	return func() {
		for j := len(idx) - 1; j >= 0; j-- {
			l.stripes[idx[j]].Unlock()
		}
	}
}
