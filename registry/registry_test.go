package registry

import (
	stderrors "errors"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/d3d12-capture/codec"
	"github.com/wippyai/d3d12-capture/command"
	"github.com/wippyai/d3d12-capture/d3d12"
	"github.com/wippyai/d3d12-capture/errors"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnObjectEvent(e Event) {
	o.events = append(o.events, e)
}

func TestRegistry_Basic(t *testing.T) {
	reg := New()

	key := reg.Track(Object{Kind: KindDevice, Ptr: 0x1000})
	if key != 1 {
		t.Fatalf("first key = %d, want 1", key)
	}

	obj, ok := reg.Lookup(key)
	if !ok || obj.Kind != KindDevice {
		t.Fatalf("Lookup = %+v, %v", obj, ok)
	}
	if k, ok := reg.KeyOf(0x1000); !ok || k != key {
		t.Fatalf("KeyOf = %d, %v", k, ok)
	}

	if _, ok := reg.Release(key); !ok {
		t.Fatal("Release failed")
	}
	if _, ok := reg.Lookup(key); ok {
		t.Fatal("Lookup after Release should fail")
	}
	if _, ok := reg.KeyOf(0x1000); ok {
		t.Fatal("KeyOf after Release should fail")
	}
	if reg.Len() != 0 {
		t.Fatalf("Len = %d", reg.Len())
	}
	if _, ok := reg.Lookup(0); ok {
		t.Fatal("key 0 must never resolve")
	}
}

func TestRegistry_KeyReuse(t *testing.T) {
	reg := New()
	a := reg.Track(Object{Kind: KindResource})
	b := reg.Track(Object{Kind: KindResource})
	reg.Release(a)

	c := reg.Track(Object{Kind: KindBlob})
	if c != a {
		t.Fatalf("released key %d not reused, got %d", a, c)
	}
	if d := reg.Track(Object{}); d != b+1 {
		t.Fatalf("next fresh key = %d, want %d", d, b+1)
	}
}

func TestRegistry_Adopt(t *testing.T) {
	reg := New()
	if err := reg.Adopt(5, Object{Kind: KindPipelineState}); err != nil {
		t.Fatal(err)
	}
	var e *errors.Error
	if err := reg.Adopt(5, Object{}); !stderrors.As(err, &e) || e.Kind != errors.KindInvalidInput {
		t.Fatalf("second Adopt = %v, want invalid_input", err)
	}
	if err := reg.Adopt(0, Object{}); err == nil {
		t.Fatal("Adopt of key 0 should fail")
	}

	// Gaps below an adopted key are handed out by Track.
	seen := map[codec.Key]bool{}
	for range 4 {
		seen[reg.Track(Object{})] = true
	}
	for k := codec.Key(1); k <= 4; k++ {
		if !seen[k] {
			t.Errorf("gap key %d not reused", k)
		}
	}
	if k := reg.Track(Object{}); k != 6 {
		t.Errorf("key after gaps = %d, want 6", k)
	}
}

func TestRegistry_ResolveAddress(t *testing.T) {
	reg := New()
	a := reg.Track(Object{Kind: KindResource, GPUBase: 0x10000, Size: 0x1000})
	b := reg.Track(Object{Kind: KindResource, GPUBase: 0x8000, Size: 0x100})

	tests := []struct {
		va     uint64
		key    codec.Key
		offset uint32
		ok     bool
	}{
		{0x10000, a, 0, true},
		{0x10fff, a, 0xfff, true},
		{0x11000, 0, 0, false},
		{0x8010, b, 0x10, true},
		{0x8100, 0, 0, false},
		{0x100, 0, 0, false},
	}
	for _, tt := range tests {
		key, off, ok := reg.ResolveAddress(tt.va)
		if ok != tt.ok || codec.Key(key) != tt.key || off != tt.offset {
			t.Errorf("ResolveAddress(%#x) = %d, %#x, %v", tt.va, key, off, ok)
		}
	}

	if va, ok := reg.Address(uint32(a), 0x20); !ok || va != 0x10020 {
		t.Errorf("Address = %#x, %v", va, ok)
	}
	if _, ok := reg.Address(uint32(a), 0x1000); ok {
		t.Error("Address past the end should fail")
	}

	reg.Release(b)
	if _, _, ok := reg.ResolveAddress(0x8010); ok {
		t.Error("released range still resolves")
	}
}

func TestRegistry_ResolveAliasedAddress(t *testing.T) {
	reg := New()
	heap := reg.Track(Object{Kind: KindResource, GPUBase: 0x10000, Size: 0x10000})
	inner := reg.Track(Object{Kind: KindResource, GPUBase: 0x11000, Size: 0x100})
	alias := reg.Track(Object{Kind: KindResource, GPUBase: 0x14000, Size: 0x1000})
	twin := reg.Track(Object{Kind: KindResource, GPUBase: 0x14000, Size: 0x1000})

	tests := []struct {
		va     uint64
		key    codec.Key
		offset uint32
		ok     bool
	}{
		{0x10000, heap, 0, true},
		{0x11080, inner, 0x80, true},
		{0x11100, heap, 0x1100, true},
		{0x14010, twin, 0x10, true},
		{0x18000, heap, 0x8000, true},
		{0x1ffff, heap, 0xffff, true},
		{0x20000, 0, 0, false},
	}
	for _, tt := range tests {
		key, off, ok := reg.ResolveAddress(tt.va)
		if ok != tt.ok || codec.Key(key) != tt.key || off != tt.offset {
			t.Errorf("ResolveAddress(%#x) = %d, %#x, %v; want %d, %#x, %v",
				tt.va, key, off, ok, tt.key, tt.offset, tt.ok)
		}
	}

	reg.Release(twin)
	if key, off, ok := reg.ResolveAddress(0x14010); !ok || codec.Key(key) != alias || off != 0x10 {
		t.Errorf("after release = %d, %#x, %v", key, off, ok)
	}
}

func TestRegistry_Descriptors(t *testing.T) {
	reg := New()
	heap := reg.Track(Object{
		Kind: KindDescriptorHeap,
		Heap: &Heap{CPUBase: 0x4000, GPUBase: 0x9000_0000, Increment: 32, Count: 8},
	})
	rtv := reg.Track(Object{
		Kind: KindDescriptorHeap,
		Heap: &Heap{CPUBase: 0x6000, Increment: 16, Count: 4},
	})

	if h, i, ok := reg.ResolveCPUDescriptor(0x4000 + 3*32); !ok || codec.Key(h) != heap || i != 3 {
		t.Errorf("CPU = %d, %d, %v", h, i, ok)
	}
	if h, i, ok := reg.ResolveCPUDescriptor(0x6000 + 16); !ok || codec.Key(h) != rtv || i != 1 {
		t.Errorf("RTV CPU = %d, %d, %v", h, i, ok)
	}
	if h, i, ok := reg.ResolveGPUDescriptor(0x9000_0000 + 7*32); !ok || codec.Key(h) != heap || i != 7 {
		t.Errorf("GPU = %d, %d, %v", h, i, ok)
	}

	for _, bad := range []uint64{0x4000 + 8*32, 0x4000 + 5, 0x3fff} {
		if _, _, ok := reg.ResolveCPUDescriptor(bad); ok {
			t.Errorf("ResolveCPUDescriptor(%#x) should fail", bad)
		}
	}

	if p, ok := reg.CPUDescriptor(uint32(heap), 3); !ok || p != 0x4000+3*32 {
		t.Errorf("CPUDescriptor = %#x, %v", p, ok)
	}
	if p, ok := reg.GPUDescriptor(uint32(heap), 7); !ok || p != 0x9000_0000+7*32 {
		t.Errorf("GPUDescriptor = %#x, %v", p, ok)
	}
	if _, ok := reg.GPUDescriptor(uint32(rtv), 0); ok {
		t.Error("non shader-visible heap has no GPU handles")
	}
	if _, ok := reg.CPUDescriptor(uint32(heap), 8); ok {
		t.Error("index past Count should fail")
	}
}

func TestRegistry_HeapIsCopied(t *testing.T) {
	reg := New()
	h := &Heap{CPUBase: 0x4000, Increment: 32, Count: 2}
	key := reg.Track(Object{Kind: KindDescriptorHeap, Heap: h})
	h.CPUBase = 0

	if p, ok := reg.CPUDescriptor(uint32(key), 1); !ok || p != 0x4020 {
		t.Errorf("CPUDescriptor = %#x, %v", p, ok)
	}
	obj, _ := reg.Lookup(key)
	obj.Heap.Count = 0
	if _, ok := reg.CPUDescriptor(uint32(key), 1); !ok {
		t.Error("Lookup result aliases registry state")
	}
}

func TestRegistry_Observer(t *testing.T) {
	reg := New()
	obs := &testObserver{}
	reg.Subscribe(obs)

	key := reg.Track(Object{Kind: KindResource})
	reg.SetName(key, "vb")
	reg.Release(key)
	reg.Track(Object{Kind: KindBlob})

	want := []EventType{EventCreated, EventRenamed, EventDropped, EventCreated}
	if len(obs.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(obs.events), len(want))
	}
	for i, e := range obs.events {
		if e.Type != want[i] {
			t.Errorf("event %d = %v, want %v", i, e.Type, want[i])
		}
	}
	if obs.events[1].Object.Name != "vb" {
		t.Errorf("rename event name = %q", obs.events[1].Object.Name)
	}

	reg.Unsubscribe(obs)
	reg.Track(Object{})
	if len(obs.events) != len(want) {
		t.Error("unsubscribed observer still notified")
	}
}

func TestRegistry_Close(t *testing.T) {
	reg := New()
	obs := &testObserver{}
	reg.Subscribe(obs)
	reg.Track(Object{Kind: KindDevice})
	reg.Track(Object{Kind: KindResource, GPUBase: 0x1000, Size: 16})

	if err := reg.Close(); err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 0 {
		t.Fatalf("Len after Close = %d", reg.Len())
	}
	dropped := 0
	for _, e := range obs.events {
		if e.Type == EventDropped {
			dropped++
		}
	}
	if dropped != 2 {
		t.Errorf("Close dropped %d objects, want 2", dropped)
	}
	if k := reg.Track(Object{}); k != 0 {
		t.Errorf("Track after Close = %d", k)
	}
	if err := reg.Adopt(1, Object{}); err == nil {
		t.Error("Adopt after Close should fail")
	}
	if err := reg.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := New()
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := range 100 {
				base := uint64(g+1)<<32 | uint64(i)<<12
				key := reg.Track(Object{Kind: KindResource, GPUBase: base, Size: 0x100})
				if k, _, ok := reg.ResolveAddress(base + 8); !ok || codec.Key(k) != key {
					t.Errorf("resolve %#x = %d, want %d", base+8, k, key)
				}
				reg.Release(key)
			}
		}(g)
	}
	wg.Wait()
	if reg.Len() != 0 {
		t.Errorf("Len = %d", reg.Len())
	}
}

func TestEncodeThroughRegistry(t *testing.T) {
	reg := New()
	cb := reg.Track(Object{Kind: KindResource, GPUBase: 0x20000, Size: 256})

	cmd := &command.SetGraphicsRootConstantBufferView{
		CommandList:    2,
		BufferLocation: codec.GPUAddress{Value: 0x20040},
	}
	buf, err := command.Encode(cmd, reg)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := command.Decode(command.CallSetGraphicsRootConstantBufferView, buf)
	if err != nil {
		t.Fatal(err)
	}
	got := decoded.(*command.SetGraphicsRootConstantBufferView).BufferLocation
	if got.Key != cb || got.Offset != 0x40 || got.Value != 0x20040 {
		t.Fatalf("BufferLocation = %+v", got)
	}

	replay := New()
	if err := replay.Adopt(got.Key, Object{Kind: KindResource, GPUBase: 0x7_0000, Size: 256}); err != nil {
		t.Fatal(err)
	}
	if va, ok := replay.Address(uint32(got.Key), got.Offset); !ok || va != 0x7_0040 {
		t.Errorf("replay address = %#x, %v", va, ok)
	}
}

func TestApply(t *testing.T) {
	reg := New()
	cmds := []command.Command{
		&command.AGSCreateDevice{Device: codec.ObjectOut{Addr: 1, Key: 1}},
		&command.CreateDescriptorHeap{
			Device: 1,
			Desc:   codec.PtrTo(d3d12.DescriptorHeapDesc{NumDescriptors: 64}),
			Heap:   codec.ObjectOut{Addr: 1, Key: 2},
		},
		&command.CreateCommittedResource{
			Device:   1,
			Desc:     codec.PtrTo(d3d12.ResourceDesc{Width: 4096}),
			Resource: codec.ObjectOut{Addr: 1, Key: 3},
		},
		&command.CreateComputePipelineState{
			Device:        1,
			PipelineState: codec.ObjectOut{Addr: 1, Key: 9},
			Result:        command.E_INVALIDARG,
		},
		&command.SerializeRootSignature{Blob: codec.ObjectOut{Addr: 1, Key: 4}},
		&command.SetName{Object: 3, Name: codec.NewWString("upload")},
		&command.SetPipelineState{CommandList: 5, PipelineState: 9},
	}
	for _, c := range cmds {
		if err := reg.Apply(c); err != nil {
			t.Fatalf("%s: %v", c.Call(), err)
		}
	}

	want := map[codec.Key]Kind{1: KindDevice, 2: KindDescriptorHeap, 3: KindResource, 4: KindBlob}
	if reg.Len() != len(want) {
		t.Fatalf("Len = %d, want %d", reg.Len(), len(want))
	}
	for k, kind := range want {
		obj, ok := reg.Lookup(k)
		if !ok || obj.Kind != kind {
			t.Errorf("key %d = %+v, %v", k, obj, ok)
		}
	}
	if obj, _ := reg.Lookup(2); obj.Heap == nil || obj.Heap.Count != 64 {
		t.Errorf("heap = %+v", obj.Heap)
	}
	if obj, _ := reg.Lookup(3); obj.Size != 4096 || obj.Name != "upload" {
		t.Errorf("resource = %+v", obj)
	}
	if _, ok := reg.Lookup(9); ok {
		t.Error("failed create must not register its output")
	}

	// Applying the same create twice is a key conflict.
	err := reg.Apply(cmds[0])
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Phase != errors.PhaseRegistry {
		t.Errorf("duplicate create = %v", err)
	}
}

func TestRegistry_LogsLookupMisses(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	reg := New()
	reg.Track(Object{Kind: KindResource, GPUBase: 0x10000, Size: 0x100})
	reg.ResolveAddress(0x20000)
	reg.ResolveCPUDescriptor(0x4000)
	if err := reg.Apply(&command.SetName{Object: 42, Name: codec.NewWString("lost")}); err != nil {
		t.Fatal(err)
	}

	want := []string{"unresolved GPU address", "unresolved descriptor handle", "rename of untracked object"}
	got := logs.AllUntimed()
	if len(got) != len(want) {
		t.Fatalf("logged %d entries, want %d", len(got), len(want))
	}
	for i, e := range got {
		if e.Message != want[i] || e.Level != zapcore.DebugLevel {
			t.Errorf("entry %d = %s %q", i, e.Level, e.Message)
		}
	}
}
