package registry

import (
	"go.uber.org/zap"

	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/command"
)

// Apply updates the registry from a decoded command: successful create
// calls adopt the keys they produced and SetName renames its target.
// Objects learned this way carry no live pointer or GPU address; replay
// fills those in with a second Adopt after it recreates the object.
func (g *Registry) Apply(cmd command.Command) error {
	switch c := cmd.(type) {
	case *command.CreateGraphicsPipelineState:
		return g.adoptOut(c.Result, c.PipelineState, Object{Kind: KindPipelineState})
	case *command.CreateComputePipelineState:
		return g.adoptOut(c.Result, c.PipelineState, Object{Kind: KindPipelineState})
	case *command.CreatePipelineState:
		return g.adoptOut(c.Result, c.PipelineState, Object{Kind: KindPipelineState})
	case *command.CreateRootSignature:
		return g.adoptOut(c.Result, c.RootSignature, Object{Kind: KindRootSignature})
	case *command.CreateStateObject:
		return g.adoptOut(c.Result, c.StateObject, Object{Kind: KindStateObject})
	case *command.CreateCommandSignature:
		return g.adoptOut(c.Result, c.CommandSignature, Object{Kind: KindCommandSignature})
	case *command.CreateCommittedResource:
		obj := Object{Kind: KindResource}
		if c.Desc.Value != nil {
			obj.Size = c.Desc.Value.Width
		}
		return g.adoptOut(c.Result, c.Resource, obj)
	case *command.CreateDescriptorHeap:
		obj := Object{Kind: KindDescriptorHeap, Heap: &Heap{}}
		if c.Desc.Value != nil {
			obj.Heap.Count = c.Desc.Value.NumDescriptors
		}
		return g.adoptOut(c.Result, c.Heap, obj)
	case *command.SerializeRootSignature:
		if err := g.adoptOut(c.Result, c.Blob, Object{Kind: KindBlob}); err != nil {
			return err
		}
		return g.adoptOut(command.S_OK, c.ErrorBlob, Object{Kind: KindBlob})
	case *command.SerializeVersionedRootSignature:
		if err := g.adoptOut(c.Result, c.Blob, Object{Kind: KindBlob}); err != nil {
			return err
		}
		return g.adoptOut(command.S_OK, c.ErrorBlob, Object{Kind: KindBlob})
	case *command.AGSCreateDevice:
		if c.Result != 0 {
			return nil
		}
		return g.adoptOut(command.S_OK, c.Device, Object{Kind: KindDevice})
	case *command.SetName:
		if c.Result.Failed() {
			return nil
		}
		if !g.SetName(c.Object, c.Name.String()) {
			Logger().Debug("rename of untracked object", zap.Uint32("key", uint32(c.Object)))
		}
	}
	return nil
}

func (g *Registry) adoptOut(hr command.HRESULT, out codec.ObjectOut, obj Object) error {
	if hr.Failed() || out.Key == 0 {
		return nil
	}
	return g.Adopt(out.Key, obj)
}
