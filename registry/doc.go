// Package registry is a reference implementation of the key, address and
// descriptor-heap bookkeeping that encoding and replay depend on.
//
// During capture an interception layer tracks every object it wraps:
//
//	reg := registry.New()
//	key := reg.Track(registry.Object{
//	    Kind:    registry.KindResource,
//	    Ptr:     uintptr(unsafe.Pointer(res)),
//	    GPUBase: res.GetGPUVirtualAddress(),
//	    Size:    desc.Width,
//	})
//	buf, err := command.Encode(cmd, reg)
//
// Registry implements d3d12capture.Resolver, so GPU virtual addresses and
// descriptor handles inside the command are rewritten to keys, offsets and
// heap slots as it is encoded.
//
// # Replay
//
// On replay the recorded keys are reused. Apply learns keys from decoded
// create calls; once the replayer has recreated an object it registers the
// live values with Adopt, and Registry's d3d12capture.Replayer side maps
// keys back to addresses and handles of the current process.
//
// # Keys
//
// Keys start at 1. Zero always means "no object". Released keys are
// reused by later Track calls.
//
// # Observers
//
// Subscribe an Observer to follow creation, release and renaming. Close
// releases every object and reports each as dropped.
package registry
