package command

import "github.com/wippyai/d3d12-capture/codec"

// Detached is a command that owns all of its storage. It stays valid after
// the buffer it was decoded from is reused, until Release is called.
type Detached struct {
	Command Command
	arena   *codec.Arena
}

// Detach deep-copies cmd into a fresh arena.
func Detach(cmd Command) *Detached {
	a := codec.NewArena()
	return &Detached{Command: cmd.clone(a), arena: a}
}

// Allocs returns the number of allocations the copy made.
func (d *Detached) Allocs() int { return d.arena.Allocs() }

// Size returns the payload bytes owned by the copy.
func (d *Detached) Size() int { return d.arena.Size() }

// Release returns the storage to the pool and clears the command. Calling
// Release twice is a no-op.
func (d *Detached) Release() {
	if d.arena == nil {
		return
	}
	d.arena.Release()
	d.arena = nil
	d.Command = nil
}
