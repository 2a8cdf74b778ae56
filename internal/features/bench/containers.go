package bench

// Key/value containers timed by the benchmark, behind one small interface

import "slices"

// Container stores int values by int key.
type Container interface {
	Name() string
	Insert(key, value int)
	// Get returns the value stored under key and whether it was present.
	Get(key int) (int, bool)
	Len() int
}

// DefaultContainers returns a fresh instance of every container, sized for
// sizeHint entries where the container supports it.
func DefaultContainers(sizeHint int) []Container {
	return []Container{
		NewProbingMap(sizeHint),
		NewOrderedMap(sizeHint),
		NewHashMap(sizeHint),
	}
}

// HashMap is the built-in Go map.
type HashMap struct {
	m map[int]int
}

func NewHashMap(sizeHint int) *HashMap {
	return &HashMap{m: make(map[int]int, max(sizeHint, 0))}
}

func (h *HashMap) Name() string { return "hash map" }

func (h *HashMap) Insert(key, value int) { h.m[key] = value }

func (h *HashMap) Get(key int) (int, bool) {
	v, ok := h.m[key]
	return v, ok
}

func (h *HashMap) Len() int { return len(h.m) }

// OrderedMap keeps keys sorted and finds them by binary search. Inserting
// keys in ascending order appends.
type OrderedMap struct {
	keys   []int
	values []int
}

func NewOrderedMap(sizeHint int) *OrderedMap {
	n := max(sizeHint, 0)
	return &OrderedMap{keys: make([]int, 0, n), values: make([]int, 0, n)}
}

func (o *OrderedMap) Name() string { return "ordered map" }

func (o *OrderedMap) Insert(key, value int) {
	i, found := slices.BinarySearch(o.keys, key)
	if found {
		o.values[i] = value
		return
	}
	o.keys = slices.Insert(o.keys, i, key)
	o.values = slices.Insert(o.values, i, value)
}

func (o *OrderedMap) Get(key int) (int, bool) {
	i, found := slices.BinarySearch(o.keys, key)
	if !found {
		return 0, false
	}
	return o.values[i], true
}

func (o *OrderedMap) Len() int { return len(o.keys) }

// Keys returns the stored keys in ascending order.
func (o *OrderedMap) Keys() []int { return slices.Clone(o.keys) }

const probingMinSize = 16

type probingSlot struct {
	key, value int
	used       bool
}

// ProbingMap is an open addressing hash table with linear probing. The
// table size is a power of two and stays at most half full.
type ProbingMap struct {
	slots []probingSlot
	count int
	shift uint
}

func NewProbingMap(sizeHint int) *ProbingMap {
	size := probingMinSize
	for size < 2*sizeHint {
		size <<= 1
	}
	p := &ProbingMap{}
	p.resize(size)
	return p
}

func (p *ProbingMap) Name() string { return "open addressing map" }

// home is the Fibonacci hash of key reduced to the table size.
func (p *ProbingMap) home(key int) int {
	return int((uint64(key) * 0x9E3779B97F4A7C15) >> p.shift)
}

func (p *ProbingMap) Insert(key, value int) {
	if 2*(p.count+1) > len(p.slots) {
		p.resize(2 * len(p.slots))
	}
	mask := len(p.slots) - 1
	for i := p.home(key); ; i = (i + 1) & mask {
		slot := &p.slots[i]
		if !slot.used {
			*slot = probingSlot{key: key, value: value, used: true}
			p.count++
			return
		}
		if slot.key == key {
			slot.value = value
			return
		}
	}
}

func (p *ProbingMap) Get(key int) (int, bool) {
	mask := len(p.slots) - 1
	for i := p.home(key); ; i = (i + 1) & mask {
		slot := p.slots[i]
		if !slot.used {
			return 0, false
		}
		if slot.key == key {
			return slot.value, true
		}
	}
}

func (p *ProbingMap) Len() int { return p.count }

func (p *ProbingMap) resize(size int) {
	old := p.slots
	p.slots = make([]probingSlot, size)
	p.count = 0
	p.shift = 64
	for s := size; s > 1; s >>= 1 {
		p.shift--
	}
	for _, slot := range old {
		if slot.used {
			p.Insert(slot.key, slot.value)
		}
	}
}
