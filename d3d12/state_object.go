package d3d12

import (
	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/errors"
)

// StateObjectType is D3D12_STATE_OBJECT_TYPE.
type StateObjectType uint32

const (
	StateObjectCollection         StateObjectType = 0
	StateObjectRaytracingPipeline StateObjectType = 3
	StateObjectExecutable         StateObjectType = 4
)

// StateSubobjectType is D3D12_STATE_SUBOBJECT_TYPE.
type StateSubobjectType uint32

const (
	StateSubobjectConfig StateSubobjectType = iota
	StateSubobjectGlobalRootSignature
	StateSubobjectLocalRootSignature
	StateSubobjectNodeMask
	_
	StateSubobjectDXILLibrary
	StateSubobjectExistingCollection
	StateSubobjectSubobjectToExportsAssociation
	StateSubobjectDXILSubobjectToExportsAssociation
	StateSubobjectRaytracingShaderConfig
	StateSubobjectRaytracingPipelineConfig
	StateSubobjectHitGroup
	StateSubobjectRaytracingPipelineConfig1
)

// NoSubobject marks an association that applies to no sibling subobject.
const NoSubobject = -1

// StateSubobject is one entry of a state object description. The set of
// implementations is closed.
type StateSubobject interface {
	StateSubobjectType() StateSubobjectType
	encode(w *codec.Writer)
	decode(r *codec.Reader)
	clone(a *codec.Arena) StateSubobject
}

var stateSubobjectFactories = map[StateSubobjectType]func() StateSubobject{
	StateSubobjectConfig:                            func() StateSubobject { return new(StateObjectConfig) },
	StateSubobjectGlobalRootSignature:               func() StateSubobject { return new(GlobalRootSignature) },
	StateSubobjectLocalRootSignature:                func() StateSubobject { return new(LocalRootSignature) },
	StateSubobjectNodeMask:                          func() StateSubobject { return new(NodeMask) },
	StateSubobjectDXILLibrary:                       func() StateSubobject { return new(DXILLibrary) },
	StateSubobjectExistingCollection:                func() StateSubobject { return new(ExistingCollection) },
	StateSubobjectSubobjectToExportsAssociation:     func() StateSubobject { return new(SubobjectToExportsAssociation) },
	StateSubobjectDXILSubobjectToExportsAssociation: func() StateSubobject { return new(DXILSubobjectToExportsAssociation) },
	StateSubobjectRaytracingShaderConfig:            func() StateSubobject { return new(RaytracingShaderConfig) },
	StateSubobjectRaytracingPipelineConfig:          func() StateSubobject { return new(RaytracingPipelineConfig) },
	StateSubobjectHitGroup:                          func() StateSubobject { return new(HitGroup) },
	StateSubobjectRaytracingPipelineConfig1:         func() StateSubobject { return new(RaytracingPipelineConfig1) },
}

// StateObjectDesc is D3D12_STATE_OBJECT_DESC.
type StateObjectDesc struct {
	Type       StateObjectType
	Subobjects []StateSubobject
}

const stateSubobjectSize = 16

// Associated returns the sibling that subobject i associates exports
// with, or nil when i is not an association or has no target.
func (d *StateObjectDesc) Associated(i int) StateSubobject {
	if i < 0 || i >= len(d.Subobjects) {
		return nil
	}
	a, ok := d.Subobjects[i].(*SubobjectToExportsAssociation)
	if !ok || a.Target < 0 || a.Target >= len(d.Subobjects) {
		return nil
	}
	return d.Subobjects[a.Target]
}

func (d *StateObjectDesc) Encode(w *codec.Writer) {
	w.U32(uint32(d.Type))
	w.Count(len(d.Subobjects))
	if !w.Sentinel(d.Subobjects != nil, 0) {
		w.Count(0)
		return
	}
	for _, s := range d.Subobjects {
		w.U32(uint32(s.StateSubobjectType()))
		w.Zero(4)
		w.Sentinel(true, 0)
	}
	type link struct{ from, to int }
	var links []link
	for i, s := range d.Subobjects {
		s.encode(w)
		if a, ok := s.(*SubobjectToExportsAssociation); ok && a.Target != NoSubobject {
			if a.Target < 0 || a.Target >= len(d.Subobjects) {
				w.Fail(errors.InvalidInput(errors.PhaseEncode, "association target out of range"))
				return
			}
			links = append(links, link{i, a.Target})
		}
	}
	w.Count(len(links))
	for _, l := range links {
		w.U32(uint32(l.from))
		w.U32(uint32(l.to))
	}
}

func (d *StateObjectDesc) Decode(r *codec.Reader) {
	d.Type = StateObjectType(r.U32())
	n := r.U32()
	_, present := r.Sentinel()
	d.Subobjects = nil
	if present {
		types := make([]StateSubobjectType, r.CheckCount(n, stateSubobjectSize))
		for i := range types {
			types[i] = StateSubobjectType(r.U32())
			r.Skip(4)
			if _, ok := r.Sentinel(); !ok && r.Err() == nil {
				r.Failf("state subobject %d has no description", i)
			}
		}
		if r.Err() != nil {
			return
		}
		d.Subobjects = make([]StateSubobject, len(types))
		for i, t := range types {
			f, ok := stateSubobjectFactories[t]
			if !ok {
				r.Fail(errors.InvalidVariant(errors.PhaseDecode, "StateSubobject", uint32(t)))
				return
			}
			s := f()
			s.decode(r)
			d.Subobjects[i] = s
		}
	}
	links := r.Count(8)
	for range links {
		from, to := int(r.U32()), int(r.U32())
		if r.Err() != nil {
			return
		}
		if from >= len(d.Subobjects) || to >= len(d.Subobjects) {
			r.Failf("association %d -> %d out of range", from, to)
			return
		}
		a, ok := d.Subobjects[from].(*SubobjectToExportsAssociation)
		if !ok || !a.hasTarget {
			r.Failf("subobject %d does not expect an association target", from)
			return
		}
		a.Target = to
		a.hasTarget = false
	}
	for i, s := range d.Subobjects {
		if a, ok := s.(*SubobjectToExportsAssociation); ok && a.hasTarget {
			r.Failf("association subobject %d has a target but no table entry", i)
			return
		}
	}
}

func (d StateObjectDesc) Clone(a *codec.Arena) StateObjectDesc {
	if d.Subobjects == nil {
		return d
	}
	out := codec.CloneSlice(a, d.Subobjects)
	for i, s := range out {
		out[i] = s.clone(a)
	}
	return StateObjectDesc{Type: d.Type, Subobjects: out}
}

// ExportDesc is D3D12_EXPORT_DESC.
type ExportDesc struct {
	Name           codec.WString
	ExportToRename codec.WString
	Flags          uint32
}

const exportDescSize = 24

type exportsHeader struct {
	present bool
	n       uint32
}

func putExports(w *codec.Writer, exports []ExportDesc) {
	for _, e := range exports {
		w.Sentinel(!e.Name.IsNull(), 0)
		w.Sentinel(!e.ExportToRename.IsNull(), 0)
		w.U32(e.Flags)
		w.Zero(4)
	}
	for i := range exports {
		exports[i].Name.EncodeTail(w)
		exports[i].ExportToRename.EncodeTail(w)
	}
}

func getExports(r *codec.Reader, h exportsHeader) []ExportDesc {
	if !h.present {
		return nil
	}
	exports := make([]ExportDesc, r.CheckCount(h.n, exportDescSize))
	named := make([][2]bool, len(exports))
	for i := range exports {
		_, named[i][0] = r.Sentinel()
		_, named[i][1] = r.Sentinel()
		exports[i].Flags = r.U32()
		r.Skip(4)
	}
	for i := range exports {
		exports[i].Name.DecodeTail(r, named[i][0])
		exports[i].ExportToRename.DecodeTail(r, named[i][1])
	}
	return exports
}

func cloneExports(a *codec.Arena, exports []ExportDesc) []ExportDesc {
	out := codec.CloneSlice(a, exports)
	for i := range out {
		out[i].Name = out[i].Name.Clone(a)
		out[i].ExportToRename = out[i].ExportToRename.Clone(a)
	}
	return out
}

// putNames writes an array of wide string pointers followed by the
// strings themselves.
func putNames(w *codec.Writer, names []codec.WString) {
	for i := range names {
		w.Sentinel(!names[i].IsNull(), 0)
	}
	for i := range names {
		names[i].EncodeTail(w)
	}
}

func getNames(r *codec.Reader, h exportsHeader) []codec.WString {
	if !h.present {
		return nil
	}
	names := make([]codec.WString, r.CheckCount(h.n, codec.PointerSize))
	present := make([]bool, len(names))
	for i := range names {
		_, present[i] = r.Sentinel()
	}
	for i := range names {
		names[i].DecodeTail(r, present[i])
	}
	return names
}

func cloneNames(a *codec.Arena, names []codec.WString) []codec.WString {
	out := codec.CloneSlice(a, names)
	for i := range out {
		out[i] = out[i].Clone(a)
	}
	return out
}

// StateObjectConfig is D3D12_STATE_OBJECT_CONFIG.
type StateObjectConfig struct {
	Flags uint32
}

func (s *StateObjectConfig) StateSubobjectType() StateSubobjectType { return StateSubobjectConfig }
func (s *StateObjectConfig) encode(w *codec.Writer) { w.U32(s.Flags) }
func (s *StateObjectConfig) decode(r *codec.Reader) { s.Flags = r.U32() }
func (s *StateObjectConfig) clone(*codec.Arena) StateSubobject { c := *s; return &c }

type GlobalRootSignature struct {
	RootSignature codec.Key
}

func (s *GlobalRootSignature) StateSubobjectType() StateSubobjectType {
	return StateSubobjectGlobalRootSignature
}
func (s *GlobalRootSignature) encode(w *codec.Writer) {
	w.Sentinel(s.RootSignature != 0, 0)
	w.U32(uint32(s.RootSignature))
}
func (s *GlobalRootSignature) decode(r *codec.Reader) {
	r.Sentinel()
	s.RootSignature = codec.Key(r.U32())
}
func (s *GlobalRootSignature) clone(*codec.Arena) StateSubobject { c := *s; return &c }

type LocalRootSignature struct {
	RootSignature codec.Key
}

func (s *LocalRootSignature) StateSubobjectType() StateSubobjectType {
	return StateSubobjectLocalRootSignature
}
func (s *LocalRootSignature) encode(w *codec.Writer) {
	w.Sentinel(s.RootSignature != 0, 0)
	w.U32(uint32(s.RootSignature))
}
func (s *LocalRootSignature) decode(r *codec.Reader) {
	r.Sentinel()
	s.RootSignature = codec.Key(r.U32())
}
func (s *LocalRootSignature) clone(*codec.Arena) StateSubobject { c := *s; return &c }

type NodeMask struct {
	NodeMask uint32
}

func (s *NodeMask) StateSubobjectType() StateSubobjectType { return StateSubobjectNodeMask }
func (s *NodeMask) encode(w *codec.Writer) { w.U32(s.NodeMask) }
func (s *NodeMask) decode(r *codec.Reader) { s.NodeMask = r.U32() }
func (s *NodeMask) clone(*codec.Arena) StateSubobject { c := *s; return &c }

// DXILLibrary is D3D12_DXIL_LIBRARY_DESC.
type DXILLibrary struct {
	Library ShaderBytecode
	Exports []ExportDesc
}

func (s *DXILLibrary) StateSubobjectType() StateSubobjectType { return StateSubobjectDXILLibrary }
func (s *DXILLibrary) encode(w *codec.Writer) {
	s.Library.putHeader(w)
	w.Count(len(s.Exports))
	w.Zero(4)
	w.Sentinel(s.Exports != nil, 0)
	s.Library.putTrailing(w)
	putExports(w, s.Exports)
}
func (s *DXILLibrary) decode(r *codec.Reader) {
	lib := getBlobHeader(r)
	var h exportsHeader
	h.n = r.U32()
	r.Skip(4)
	_, h.present = r.Sentinel()
	s.Library.Code = getBlob(r, lib)
	s.Exports = getExports(r, h)
}
func (s *DXILLibrary) clone(a *codec.Arena) StateSubobject {
	return &DXILLibrary{Library: s.Library.Clone(a), Exports: cloneExports(a, s.Exports)}
}

// ExistingCollection is D3D12_EXISTING_COLLECTION_DESC.
type ExistingCollection struct {
	Collection codec.Key
	Exports    []ExportDesc
}

func (s *ExistingCollection) StateSubobjectType() StateSubobjectType {
	return StateSubobjectExistingCollection
}
func (s *ExistingCollection) encode(w *codec.Writer) {
	w.Sentinel(s.Collection != 0, 0)
	w.Count(len(s.Exports))
	w.Zero(4)
	w.Sentinel(s.Exports != nil, 0)
	putExports(w, s.Exports)
	w.U32(uint32(s.Collection))
}
func (s *ExistingCollection) decode(r *codec.Reader) {
	r.Sentinel()
	var h exportsHeader
	h.n = r.U32()
	r.Skip(4)
	_, h.present = r.Sentinel()
	s.Exports = getExports(r, h)
	s.Collection = codec.Key(r.U32())
}
func (s *ExistingCollection) clone(a *codec.Arena) StateSubobject {
	return &ExistingCollection{Collection: s.Collection, Exports: cloneExports(a, s.Exports)}
}

// SubobjectToExportsAssociation is D3D12_SUBOBJECT_TO_EXPORTS_ASSOCIATION.
// Target is the index of the associated sibling in the owning
// StateObjectDesc, or NoSubobject.
type SubobjectToExportsAssociation struct {
	Target  int
	Exports []codec.WString

	hasTarget bool
}

func (s *SubobjectToExportsAssociation) StateSubobjectType() StateSubobjectType {
	return StateSubobjectSubobjectToExportsAssociation
}
func (s *SubobjectToExportsAssociation) encode(w *codec.Writer) {
	w.Sentinel(s.Target != NoSubobject, 0)
	w.Count(len(s.Exports))
	w.Zero(4)
	w.Sentinel(s.Exports != nil, 0)
	putNames(w, s.Exports)
}
func (s *SubobjectToExportsAssociation) decode(r *codec.Reader) {
	_, s.hasTarget = r.Sentinel()
	s.Target = NoSubobject
	var h exportsHeader
	h.n = r.U32()
	r.Skip(4)
	_, h.present = r.Sentinel()
	s.Exports = getNames(r, h)
}
func (s *SubobjectToExportsAssociation) clone(a *codec.Arena) StateSubobject {
	return &SubobjectToExportsAssociation{Target: s.Target, Exports: cloneNames(a, s.Exports)}
}

// DXILSubobjectToExportsAssociation associates exports with a subobject
// defined inside a DXIL library, by name.
type DXILSubobjectToExportsAssociation struct {
	Subobject codec.WString
	Exports   []codec.WString
}

func (s *DXILSubobjectToExportsAssociation) StateSubobjectType() StateSubobjectType {
	return StateSubobjectDXILSubobjectToExportsAssociation
}
func (s *DXILSubobjectToExportsAssociation) encode(w *codec.Writer) {
	w.Sentinel(!s.Subobject.IsNull(), 0)
	w.Count(len(s.Exports))
	w.Zero(4)
	w.Sentinel(s.Exports != nil, 0)
	s.Subobject.EncodeTail(w)
	putNames(w, s.Exports)
}
func (s *DXILSubobjectToExportsAssociation) decode(r *codec.Reader) {
	_, named := r.Sentinel()
	var h exportsHeader
	h.n = r.U32()
	r.Skip(4)
	_, h.present = r.Sentinel()
	s.Subobject.DecodeTail(r, named)
	s.Exports = getNames(r, h)
}
func (s *DXILSubobjectToExportsAssociation) clone(a *codec.Arena) StateSubobject {
	return &DXILSubobjectToExportsAssociation{Subobject: s.Subobject.Clone(a), Exports: cloneNames(a, s.Exports)}
}

type RaytracingShaderConfig struct {
	MaxPayloadSizeInBytes   uint32
	MaxAttributeSizeInBytes uint32
}

func (s *RaytracingShaderConfig) StateSubobjectType() StateSubobjectType {
	return StateSubobjectRaytracingShaderConfig
}
func (s *RaytracingShaderConfig) encode(w *codec.Writer) {
	w.U32(s.MaxPayloadSizeInBytes)
	w.U32(s.MaxAttributeSizeInBytes)
}
func (s *RaytracingShaderConfig) decode(r *codec.Reader) {
	s.MaxPayloadSizeInBytes = r.U32()
	s.MaxAttributeSizeInBytes = r.U32()
}
func (s *RaytracingShaderConfig) clone(*codec.Arena) StateSubobject { c := *s; return &c }

type RaytracingPipelineConfig struct {
	MaxTraceRecursionDepth uint32
}

func (s *RaytracingPipelineConfig) StateSubobjectType() StateSubobjectType {
	return StateSubobjectRaytracingPipelineConfig
}
func (s *RaytracingPipelineConfig) encode(w *codec.Writer) { w.U32(s.MaxTraceRecursionDepth) }
func (s *RaytracingPipelineConfig) decode(r *codec.Reader) { s.MaxTraceRecursionDepth = r.U32() }
func (s *RaytracingPipelineConfig) clone(*codec.Arena) StateSubobject {
	c := *s
	return &c
}

type RaytracingPipelineConfig1 struct {
	MaxTraceRecursionDepth uint32
	Flags                  uint32
}

func (s *RaytracingPipelineConfig1) StateSubobjectType() StateSubobjectType {
	return StateSubobjectRaytracingPipelineConfig1
}
func (s *RaytracingPipelineConfig1) encode(w *codec.Writer) {
	w.U32(s.MaxTraceRecursionDepth)
	w.U32(s.Flags)
}
func (s *RaytracingPipelineConfig1) decode(r *codec.Reader) {
	s.MaxTraceRecursionDepth = r.U32()
	s.Flags = r.U32()
}
func (s *RaytracingPipelineConfig1) clone(*codec.Arena) StateSubobject {
	c := *s
	return &c
}

// HitGroup is D3D12_HIT_GROUP_DESC.
type HitGroup struct {
	HitGroupExport           codec.WString
	Type                     uint32
	AnyHitShaderImport       codec.WString
	ClosestHitShaderImport   codec.WString
	IntersectionShaderImport codec.WString
}

func (s *HitGroup) StateSubobjectType() StateSubobjectType { return StateSubobjectHitGroup }
func (s *HitGroup) names() [4]*codec.WString {
	return [4]*codec.WString{&s.HitGroupExport, &s.AnyHitShaderImport, &s.ClosestHitShaderImport, &s.IntersectionShaderImport}
}
func (s *HitGroup) encode(w *codec.Writer) {
	w.Sentinel(!s.HitGroupExport.IsNull(), 0)
	w.U32(s.Type)
	w.Zero(4)
	w.Sentinel(!s.AnyHitShaderImport.IsNull(), 0)
	w.Sentinel(!s.ClosestHitShaderImport.IsNull(), 0)
	w.Sentinel(!s.IntersectionShaderImport.IsNull(), 0)
	for _, n := range s.names() {
		n.EncodeTail(w)
	}
}
func (s *HitGroup) decode(r *codec.Reader) {
	var present [4]bool
	_, present[0] = r.Sentinel()
	s.Type = r.U32()
	r.Skip(4)
	_, present[1] = r.Sentinel()
	_, present[2] = r.Sentinel()
	_, present[3] = r.Sentinel()
	for i, n := range s.names() {
		n.DecodeTail(r, present[i])
	}
}
func (s *HitGroup) clone(a *codec.Arena) StateSubobject {
	c := *s
	for _, n := range c.names() {
		*n = n.Clone(a)
	}
	return &c
}
