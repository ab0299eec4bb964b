package d3d12

import (
	"github.com/wippyai/d3d12-capture/codec"
)

// AGSDX12ExtensionParams is the AMD GPU Services extension block passed
// when creating a device through the driver extension.
type AGSDX12ExtensionParams struct {
	AppName       codec.WString
	EngineName    codec.WString
	AppVersion    uint32
	EngineVersion uint32
	UAVSlot       uint32
}

func (p *AGSDX12ExtensionParams) Encode(w *codec.Writer) {
	w.Sentinel(!p.AppName.IsNull(), 0)
	w.Sentinel(!p.EngineName.IsNull(), 0)
	w.U32(p.AppVersion)
	w.U32(p.EngineVersion)
	w.U32(p.UAVSlot)
	w.Zero(4)
	p.AppName.EncodeTail(w)
	p.EngineName.EncodeTail(w)
}

func (p *AGSDX12ExtensionParams) Decode(r *codec.Reader) {
	_, app := r.Sentinel()
	_, engine := r.Sentinel()
	p.AppVersion = r.U32()
	p.EngineVersion = r.U32()
	p.UAVSlot = r.U32()
	r.Skip(4)
	p.AppName.DecodeTail(r, app)
	p.EngineName.DecodeTail(r, engine)
}

func (p AGSDX12ExtensionParams) Clone(a *codec.Arena) AGSDX12ExtensionParams {
	p.AppName = p.AppName.Clone(a)
	p.EngineName = p.EngineName.Clone(a)
	return p
}
