package registry

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	d3d12capture "github.com/wippyai/d3d12-capture"
	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/errors"
)

var (
	_ d3d12capture.Resolver = (*Registry)(nil)
	_ d3d12capture.Replayer = (*Registry)(nil)
)

// addrRange is one resource's GPU virtual address range.
type addrRange struct {
	base, end uint64
	key       codec.Key
}

// Registry assigns keys to live objects and maps addresses and descriptor
// handles to keys and back. It is safe for concurrent use.
type Registry struct {
	table     *table
	byPtr     map[uint64]codec.Key
	ranges    []addrRange // sorted by base
	heaps     []codec.Key
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		table: newTable(),
		byPtr: make(map[uint64]codec.Key),
	}
}

// Track assigns a fresh key to obj. It returns zero after Close.
func (g *Registry) Track(obj Object) codec.Key {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return 0
	}
	obj = detachHeap(obj)
	key := g.table.insert(obj)
	g.index(key, obj)
	g.mu.Unlock()

	g.notify(Event{Type: EventCreated, Key: key, Object: obj})
	return key
}

// Adopt registers obj under a key recorded elsewhere, typically a key read
// back from a capture during replay.
func (g *Registry) Adopt(key codec.Key, obj Object) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return errors.InvalidInput(errors.PhaseRegistry, "registry closed")
	}
	obj = detachHeap(obj)
	if !g.table.insertAt(key, obj) {
		g.mu.Unlock()
		return errors.New(errors.PhaseRegistry, errors.KindInvalidInput).
			Value(key).
			Detail("key %d is null or already tracked", key).
			Build()
	}
	g.index(key, obj)
	g.mu.Unlock()

	g.notify(Event{Type: EventCreated, Key: key, Object: obj})
	return nil
}

// detachHeap gives obj its own copy of the heap description.
func detachHeap(obj Object) Object {
	if obj.Heap != nil {
		h := *obj.Heap
		obj.Heap = &h
	}
	return obj
}

// index adds obj to the lookup structures. Caller holds mu.
func (g *Registry) index(key codec.Key, obj Object) {
	if obj.Ptr != 0 {
		g.byPtr[obj.Ptr] = key
	}
	if obj.GPUBase != 0 && obj.Size != 0 {
		r := addrRange{base: obj.GPUBase, end: obj.GPUBase + obj.Size, key: key}
		i := sort.Search(len(g.ranges), func(i int) bool { return g.ranges[i].base > r.base })
		g.ranges = append(g.ranges, addrRange{})
		copy(g.ranges[i+1:], g.ranges[i:])
		g.ranges[i] = r
	}
	if obj.Heap != nil {
		g.heaps = append(g.heaps, key)
	}
}

// unindex removes obj from the lookup structures. Caller holds mu.
func (g *Registry) unindex(key codec.Key, obj Object) {
	if obj.Ptr != 0 && g.byPtr[obj.Ptr] == key {
		delete(g.byPtr, obj.Ptr)
	}
	for i, r := range g.ranges {
		if r.key == key {
			g.ranges = append(g.ranges[:i], g.ranges[i+1:]...)
			break
		}
	}
	for i, k := range g.heaps {
		if k == key {
			g.heaps = append(g.heaps[:i], g.heaps[i+1:]...)
			break
		}
	}
}

// Lookup returns the object behind key.
func (g *Registry) Lookup(key codec.Key) (Object, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if e := g.table.get(key); e != nil {
		return detachHeap(e.obj), true
	}
	return Object{}, false
}

// KeyOf returns the key of a live interface pointer.
func (g *Registry) KeyOf(ptr uint64) (codec.Key, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	key, ok := g.byPtr[ptr]
	return key, ok
}

// SetName records a debug name for key.
func (g *Registry) SetName(key codec.Key, name string) bool {
	g.mu.Lock()
	e := g.table.get(key)
	if e == nil {
		g.mu.Unlock()
		return false
	}
	e.obj.Name = name
	obj := e.obj
	g.mu.Unlock()

	g.notify(Event{Type: EventRenamed, Key: key, Object: obj})
	return true
}

// Release drops key and returns the object it named.
func (g *Registry) Release(key codec.Key) (Object, bool) {
	g.mu.Lock()
	obj, ok := g.table.drop(key)
	if ok {
		g.unindex(key, obj)
	}
	g.mu.Unlock()

	if ok {
		g.notify(Event{Type: EventDropped, Key: key, Object: obj})
	}
	return obj, ok
}

// Len returns the number of tracked objects.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.table.live
}

// Each calls fn for every tracked object in key order until fn returns
// false. fn must not call back into the registry.
func (g *Registry) Each(fn func(codec.Key, Object) bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	g.table.each(fn)
}

// Close drops every object and stops accepting new ones.
func (g *Registry) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	var dropped []Event
	g.table.each(func(k codec.Key, o Object) bool {
		dropped = append(dropped, Event{Type: EventDropped, Key: k, Object: o})
		return true
	})
	g.table = newTable()
	g.byPtr = make(map[uint64]codec.Key)
	g.ranges, g.heaps = nil, nil
	g.mu.Unlock()

	for _, e := range dropped {
		g.notify(e)
	}
	return nil
}

// Subscribe adds an observer for lifecycle events.
func (g *Registry) Subscribe(o Observer) {
	g.obsMu.Lock()
	defer g.obsMu.Unlock()
	g.observers = append(g.observers, o)
}

// Unsubscribe removes an observer.
func (g *Registry) Unsubscribe(o Observer) {
	g.obsMu.Lock()
	defer g.obsMu.Unlock()
	for i, obs := range g.observers {
		if obs == o {
			g.observers = append(g.observers[:i], g.observers[i+1:]...)
			return
		}
	}
}

func (g *Registry) notify(e Event) {
	g.obsMu.RLock()
	defer g.obsMu.RUnlock()
	for _, o := range g.observers {
		o.OnObjectEvent(e)
	}
}

// ResolveAddress maps a GPU virtual address to the resource containing it.
// Placed resources may alias; the range with the highest base wins, and
// among equal bases the most recently tracked one.
func (g *Registry) ResolveAddress(va uint64) (uint32, uint32, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	i := sort.Search(len(g.ranges), func(i int) bool { return g.ranges[i].base > va }) - 1
	for ; i >= 0; i-- {
		if va < g.ranges[i].end {
			break
		}
	}
	if i < 0 {
		Logger().Debug("unresolved GPU address", zap.Uint64("va", va))
		return 0, 0, false
	}
	r := g.ranges[i]
	off := va - r.base
	if off > uint64(^uint32(0)) {
		Logger().Debug("GPU address offset exceeds 32 bits",
			zap.Uint64("va", va), zap.Uint32("key", uint32(r.key)))
		return 0, 0, false
	}
	return uint32(r.key), uint32(off), true
}

// ResolveCPUDescriptor maps a CPU descriptor handle to its heap and slot.
func (g *Registry) ResolveCPUDescriptor(ptr uint64) (uint32, uint32, bool) {
	return g.resolveHandle(ptr, (*Heap).cpuIndex)
}

// ResolveGPUDescriptor maps a GPU descriptor handle to its heap and slot.
func (g *Registry) ResolveGPUDescriptor(ptr uint64) (uint32, uint32, bool) {
	return g.resolveHandle(ptr, (*Heap).gpuIndex)
}

func (g *Registry) resolveHandle(ptr uint64, index func(*Heap, uint64) (uint32, bool)) (uint32, uint32, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, k := range g.heaps {
		e := g.table.get(k)
		if e == nil {
			continue
		}
		if idx, ok := index(e.obj.Heap, ptr); ok {
			return uint32(k), idx, true
		}
	}
	Logger().Debug("unresolved descriptor handle", zap.Uint64("handle", ptr))
	return 0, 0, false
}

// Address returns the current-process GPU address of key plus offset.
func (g *Registry) Address(key, offset uint32) (uint64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e := g.table.get(codec.Key(key))
	if e == nil || e.obj.GPUBase == 0 || uint64(offset) >= e.obj.Size {
		return 0, false
	}
	return e.obj.GPUBase + uint64(offset), true
}

// CPUDescriptor returns the current-process CPU handle of a heap slot.
func (g *Registry) CPUDescriptor(heap, index uint32) (uint64, bool) {
	h, ok := g.heap(heap, index)
	if !ok {
		return 0, false
	}
	return h.CPUBase + uint64(index)*uint64(h.Increment), true
}

// GPUDescriptor returns the current-process GPU handle of a heap slot.
func (g *Registry) GPUDescriptor(heap, index uint32) (uint64, bool) {
	h, ok := g.heap(heap, index)
	if !ok || h.GPUBase == 0 {
		return 0, false
	}
	return h.GPUBase + uint64(index)*uint64(h.Increment), true
}

func (g *Registry) heap(key, index uint32) (Heap, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e := g.table.get(codec.Key(key))
	if e == nil || e.obj.Heap == nil || index >= e.obj.Heap.Count {
		return Heap{}, false
	}
	return *e.obj.Heap, true
}
