package registry

import "github.com/wippyai/d3d12-capture/codec"

// table maps keys to objects. Keys start at 1; dropped keys are reused.
// It is not synchronized; Registry holds the lock.
type table struct {
	entries  []entry
	freeList []codec.Key
	live     int
}

type entry struct {
	obj   Object
	valid bool
}

func newTable() *table {
	return &table{
		entries:  make([]entry, 0, 64),
		freeList: make([]codec.Key, 0, 16),
	}
}

// insert stores obj under a fresh key.
func (t *table) insert(obj Object) codec.Key {
	e := entry{obj: obj, valid: true}
	t.live++

	if len(t.freeList) > 0 {
		key := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[key-1] = e
		return key
	}

	t.entries = append(t.entries, e)
	return codec.Key(len(t.entries))
}

// insertAt stores obj under a key chosen elsewhere, such as a key read
// from a capture. It fails if the key is zero or in use.
func (t *table) insertAt(key codec.Key, obj Object) bool {
	if key == 0 {
		return false
	}
	for int(key) > len(t.entries) {
		t.entries = append(t.entries, entry{})
		if int(key) != len(t.entries) {
			t.freeList = append(t.freeList, codec.Key(len(t.entries)))
		}
	}
	e := &t.entries[key-1]
	if e.valid {
		return false
	}
	for i, k := range t.freeList {
		if k == key {
			t.freeList = append(t.freeList[:i], t.freeList[i+1:]...)
			break
		}
	}
	*e = entry{obj: obj, valid: true}
	t.live++
	return true
}

func (t *table) get(key codec.Key) *entry {
	if key == 0 || int(key) > len(t.entries) {
		return nil
	}
	e := &t.entries[key-1]
	if !e.valid {
		return nil
	}
	return e
}

func (t *table) drop(key codec.Key) (Object, bool) {
	e := t.get(key)
	if e == nil {
		return Object{}, false
	}
	obj := e.obj
	*e = entry{}
	t.live--
	t.freeList = append(t.freeList, key)
	return obj, true
}

func (t *table) each(fn func(codec.Key, Object) bool) {
	for i, e := range t.entries {
		if e.valid {
			if !fn(codec.Key(i+1), e.obj) {
				break
			}
		}
	}
}
