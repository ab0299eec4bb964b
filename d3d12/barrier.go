package d3d12

import (
	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/errors"
)

// BarrierType is D3D12_RESOURCE_BARRIER_TYPE.
type BarrierType uint32

const (
	BarrierTransition BarrierType = iota
	BarrierAliasing
	BarrierUAV
)

// AllSubresources is D3D12_RESOURCE_BARRIER_ALL_SUBRESOURCES.
const AllSubresources uint32 = 0xffffffff

type TransitionBarrier struct {
	Resource    codec.Key
	Subresource uint32
	StateBefore uint32
	StateAfter  uint32
}

type AliasingBarrier struct {
	ResourceBefore codec.Key
	ResourceAfter  codec.Key
}

type UAVBarrier struct {
	Resource codec.Key
}

// ResourceBarrier is D3D12_RESOURCE_BARRIER, a tagged union on Type. Only
// the member selected by Type is encoded.
type ResourceBarrier struct {
	Type       BarrierType
	Flags      uint32
	Transition TransitionBarrier
	Aliasing   AliasingBarrier
	UAV        UAVBarrier
}

func (b *ResourceBarrier) putHeader(w *codec.Writer) {
	w.U32(uint32(b.Type))
	w.U32(b.Flags)
	switch b.Type {
	case BarrierTransition:
		w.Sentinel(b.Transition.Resource != 0, 0)
		w.U32(b.Transition.Subresource)
		w.U32(b.Transition.StateBefore)
		w.U32(b.Transition.StateAfter)
		w.Zero(4)
	case BarrierAliasing:
		w.Sentinel(b.Aliasing.ResourceBefore != 0, 0)
		w.Sentinel(b.Aliasing.ResourceAfter != 0, 0)
		w.Zero(8)
	case BarrierUAV:
		w.Sentinel(b.UAV.Resource != 0, 0)
		w.Zero(16)
	default:
		w.Fail(errors.InvalidVariant(errors.PhaseEncode, "ResourceBarrier", uint32(b.Type)))
	}
}

func (b *ResourceBarrier) getHeader(r *codec.Reader) {
	b.Type = BarrierType(r.U32())
	b.Flags = r.U32()
	switch b.Type {
	case BarrierTransition:
		r.Sentinel()
		b.Transition.Subresource = r.U32()
		b.Transition.StateBefore = r.U32()
		b.Transition.StateAfter = r.U32()
		r.Skip(4)
	case BarrierAliasing:
		r.Sentinel()
		r.Sentinel()
		r.Skip(8)
	case BarrierUAV:
		r.Sentinel()
		r.Skip(16)
	default:
		if r.Err() == nil {
			r.Fail(errors.InvalidVariant(errors.PhaseDecode, "ResourceBarrier", uint32(b.Type)))
		}
	}
}

func (b *ResourceBarrier) putTrailing(w *codec.Writer) {
	switch b.Type {
	case BarrierTransition:
		w.U32(uint32(b.Transition.Resource))
	case BarrierAliasing:
		w.U32(uint32(b.Aliasing.ResourceBefore))
		w.U32(uint32(b.Aliasing.ResourceAfter))
	case BarrierUAV:
		w.U32(uint32(b.UAV.Resource))
	}
}

func (b *ResourceBarrier) getTrailing(r *codec.Reader) {
	switch b.Type {
	case BarrierTransition:
		b.Transition.Resource = codec.Key(r.U32())
	case BarrierAliasing:
		b.Aliasing.ResourceBefore = codec.Key(r.U32())
		b.Aliasing.ResourceAfter = codec.Key(r.U32())
	case BarrierUAV:
		b.UAV.Resource = codec.Key(r.U32())
	}
}

type ResourceBarriers = DescArray[ResourceBarrier, *ResourceBarrier]
