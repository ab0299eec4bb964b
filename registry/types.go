package registry

import "github.com/wippyai/d3d12-capture/codec"

// Kind classifies a tracked object.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindDevice
	KindCommandList
	KindResource
	KindDescriptorHeap
	KindPipelineState
	KindRootSignature
	KindStateObject
	KindCommandSignature
	KindBlob
	KindAGSContext
)

var kindNames = [...]string{
	KindUnknown:          "unknown",
	KindDevice:           "device",
	KindCommandList:      "command-list",
	KindResource:         "resource",
	KindDescriptorHeap:   "descriptor-heap",
	KindPipelineState:    "pipeline-state",
	KindRootSignature:    "root-signature",
	KindStateObject:      "state-object",
	KindCommandSignature: "command-signature",
	KindBlob:             "blob",
	KindAGSContext:       "ags-context",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Heap describes a descriptor heap's handle ranges. GPUBase is zero for
// heaps that are not shader visible.
type Heap struct {
	CPUBase   uint64
	GPUBase   uint64
	Increment uint32
	Count     uint32
}

func (h *Heap) cpuIndex(ptr uint64) (uint32, bool) {
	return slot(h.CPUBase, ptr, h.Increment, h.Count)
}

func (h *Heap) gpuIndex(ptr uint64) (uint32, bool) {
	if h.GPUBase == 0 {
		return 0, false
	}
	return slot(h.GPUBase, ptr, h.Increment, h.Count)
}

func slot(base, ptr uint64, inc, count uint32) (uint32, bool) {
	if inc == 0 || ptr < base {
		return 0, false
	}
	d := ptr - base
	if d%uint64(inc) != 0 || d/uint64(inc) >= uint64(count) {
		return 0, false
	}
	return uint32(d / uint64(inc)), true
}

// Object is what the registry knows about one key. Ptr is the live
// interface pointer in the current process; it is zero for objects learned
// from a decoded capture.
type Object struct {
	Kind Kind
	Ptr  uint64
	Name string

	// Resources with a GPU virtual address range.
	GPUBase uint64
	Size    uint64

	// Descriptor heaps.
	Heap *Heap
}

// EventType distinguishes lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
	EventRenamed
)

// Event is a lifecycle notification.
type Event struct {
	Object Object
	Key    codec.Key
	Type   EventType
}

// Observer receives lifecycle notifications. Observers are called with no
// registry lock held, in registration order.
type Observer interface {
	OnObjectEvent(Event)
}
