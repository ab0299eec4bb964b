package main

import (
	"fmt"
	"strings"

	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/command"
)

// summary renders the arguments that identify a command at a glance.
func summary(c command.Command) string {
	switch c := c.(type) {
	case *command.CreateGraphicsPipelineState:
		return created(c.Device, c.PipelineState, c.Result)
	case *command.CreateComputePipelineState:
		return created(c.Device, c.PipelineState, c.Result)
	case *command.CreatePipelineState:
		return created(c.Device, c.PipelineState, c.Result)
	case *command.CreateRootSignature:
		return fmt.Sprintf("%s, %d byte blob", created(c.Device, c.RootSignature, c.Result), len(c.Blob.Data))
	case *command.CreateStateObject:
		return created(c.Device, c.StateObject, c.Result)
	case *command.CreateCommandSignature:
		return created(c.Device, c.CommandSignature, c.Result)
	case *command.CreateCommittedResource:
		s := created(c.Device, c.Resource, c.Result)
		if c.Desc.Value != nil {
			s += fmt.Sprintf(", %d bytes wide", c.Desc.Value.Width)
		}
		return s
	case *command.CreateDescriptorHeap:
		s := created(c.Device, c.Heap, c.Result)
		if c.Desc.Value != nil {
			s += fmt.Sprintf(", %d descriptors", c.Desc.Value.NumDescriptors)
		}
		return s
	case *command.CreateShaderResourceView:
		return view(c.Resource, c.DestDescriptor)
	case *command.CreateConstantBufferView:
		return view(0, c.DestDescriptor)
	case *command.CreateUnorderedAccessView:
		return view(c.Resource, c.DestDescriptor)
	case *command.CreateRenderTargetView:
		return view(c.Resource, c.DestDescriptor)
	case *command.CreateDepthStencilView:
		return view(c.Resource, c.DestDescriptor)
	case *command.CreateSampler:
		return view(0, c.DestDescriptor)
	case *command.SerializeRootSignature:
		return fmt.Sprintf("blob #%d %s", c.Blob.Key, c.Result)
	case *command.SerializeVersionedRootSignature:
		return fmt.Sprintf("blob #%d %s", c.Blob.Key, c.Result)
	case *command.ResourceBarrier:
		return fmt.Sprintf("list #%d, %d barriers", c.CommandList, len(c.Barriers.Items))
	case *command.IASetVertexBuffers:
		return fmt.Sprintf("list #%d, slots %d+%d", c.CommandList, c.StartSlot, len(c.Views.Items))
	case *command.OMSetRenderTargets:
		return fmt.Sprintf("list #%d, %d targets", c.CommandList, c.NumRenderTargetDescriptors)
	case *command.SetPipelineState:
		return fmt.Sprintf("list #%d, pso #%d", c.CommandList, c.PipelineState)
	case *command.SetGraphicsRootDescriptorTable:
		return fmt.Sprintf("list #%d, param %d = heap #%d[%d]",
			c.CommandList, c.RootParameterIndex, c.BaseDescriptor.Heap, c.BaseDescriptor.Index)
	case *command.SetGraphicsRootConstantBufferView:
		return fmt.Sprintf("list #%d, param %d = %s",
			c.CommandList, c.RootParameterIndex, address(c.BufferLocation))
	case *command.DispatchRays:
		if c.Desc.Value != nil {
			d := c.Desc.Value
			return fmt.Sprintf("list #%d, %dx%dx%d", c.CommandList, d.Width, d.Height, d.Depth)
		}
	case *command.BuildRaytracingAccelerationStructure:
		if c.Desc.Value != nil {
			return fmt.Sprintf("list #%d, dest %s", c.CommandList, address(c.Desc.Value.DestAccelerationStructureData))
		}
	case *command.WriteBufferImmediate:
		return fmt.Sprintf("list #%d, %d writes", c.CommandList, len(c.Params.Items))
	case *command.BeginRenderPass:
		return fmt.Sprintf("list #%d, %d targets", c.CommandList, len(c.RenderTargets.Items))
	case *command.Map:
		return fmt.Sprintf("resource #%d sub %d %s", c.Resource, c.Subresource, c.Result)
	case *command.Unmap:
		return fmt.Sprintf("resource #%d sub %d", c.Resource, c.Subresource)
	case *command.SetName:
		return fmt.Sprintf("#%d = %q", c.Object, c.Name.String())
	case *command.AGSCreateDevice:
		return fmt.Sprintf("device #%d, extensions %#x, status %d", c.Device.Key, c.ExtensionsSupported, c.Result)
	}
	return fmt.Sprintf("%d bytes", command.Size(c))
}

func created(device codec.Key, out codec.ObjectOut, hr command.HRESULT) string {
	if hr.Failed() {
		return fmt.Sprintf("device #%d failed %s", device, hr)
	}
	return fmt.Sprintf("device #%d -> #%d", device, out.Key)
}

func view(resource codec.Key, dest codec.CPUHandle) string {
	if resource == 0 {
		return fmt.Sprintf("-> heap #%d[%d]", dest.Heap, dest.Index)
	}
	return fmt.Sprintf("#%d -> heap #%d[%d]", resource, dest.Heap, dest.Index)
}

func address(a codec.GPUAddress) string {
	if a.IsNull() {
		return "null"
	}
	if a.Key == 0 {
		return fmt.Sprintf("%#x (untracked)", a.Value)
	}
	return fmt.Sprintf("#%d+%#x", a.Key, a.Offset)
}

// detail renders every argument of c, one per line.
func detail(c command.Command) string {
	var b strings.Builder
	h := c.Header()
	fmt.Fprintf(&b, "seq     %d\nthread  %d\ncall    %s\nsize    %d bytes\n\n", h.Seq, h.Thread, c.Call(), command.Size(c))
	s := fmt.Sprintf("%+v", c)
	s = strings.TrimPrefix(s, "&{")
	s = strings.TrimSuffix(s, "}")
	b.WriteString(s)
	return b.String()
}
