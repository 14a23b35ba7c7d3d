// Package relations maintains the Relation Dictionary: for every
// (head POS, dependent POS) pair seen in training, the set of relation
// labels observed on gold arcs with that pair.
//
// The dictionary prunes label search at decode time. During training it is
// shared by pointer between workers and mutated under a lock; once frozen
// (or loaded from a Store) it is read-only.
package relations

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/katalvlaran/deptree/sentence"
	"github.com/katalvlaran/deptree/structure"
)

var (
	// ErrFrozen indicates a Record call on a frozen dictionary.
	ErrFrozen = errors.New("relations: dictionary is frozen")

	// ErrDictionaryMissing indicates the persisted dictionary does not exist.
	// At inference start this is fatal; there is no derived default.
	ErrDictionaryMissing = errors.New("relations: persisted dictionary not found")

	// ErrLengthMismatch indicates gold and instance cover different sentences.
	ErrLengthMismatch = errors.New("relations: gold structure does not match sentence")
)

// Key is the composite (head POS, dependent POS) dictionary key.
type Key struct {
	Head string
	Dep  string
}

// String joins both tags with '|'.
func (k Key) String() string { return k.Head + "|" + k.Dep }

// Punctuation reports whether either tag contains a literal period.
func (k Key) Punctuation() bool {
	return strings.Contains(k.Head, ".") || strings.Contains(k.Dep, ".")
}

// Dictionary maps Key to the set of observed relations.
// The zero value is not usable; call New.
type Dictionary struct {
	mu      sync.RWMutex
	entries map[Key]map[string]struct{}
	frozen  bool
}

// New returns an empty, writable dictionary.
func New() *Dictionary {
	return &Dictionary{entries: make(map[Key]map[string]struct{})}
}

// Record adds rel to the set for (headPOS, depPOS), creating the set if
// absent. The read-check-insert sequence runs under the write lock, so any
// number of training workers may call Record concurrently.
func (d *Dictionary) Record(headPOS, depPOS, rel string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.frozen {
		return ErrFrozen
	}
	k := Key{Head: headPOS, Dep: depPOS}
	set, ok := d.entries[k]
	if !ok {
		set = make(map[string]struct{}, 1)
		d.entries[k] = set
	}
	set[rel] = struct{}{}

	return nil
}

// ObserveGold records every gold arc of one sentence. Arcs from the virtual
// root use the root POS sentinel as head tag.
func (d *Dictionary) ObserveGold(inst *sentence.Instance, gold *structure.Structure) error {
	if gold.Len() != inst.Len() {
		return fmt.Errorf("%w: %d tokens vs %d", ErrLengthMismatch, gold.Len(), inst.Len())
	}
	for i := 1; i <= gold.Len(); i++ {
		h := gold.Head(i)
		if h == structure.Unset {
			continue
		}
		if err := d.Record(inst.POS(h), inst.POS(i), gold.Relation(i)); err != nil {
			return err
		}
	}

	return nil
}

// Candidates returns the sorted relation set for (headPOS, depPOS); nil if unseen.
func (d *Dictionary) Candidates(headPOS, depPOS string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return sortedSet(d.entries[Key{Head: headPOS, Dep: depPOS}])
}

// Len returns the number of keys.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.entries)
}

// Keys returns all keys sorted by (Head, Dep).
func (d *Dictionary) Keys() []Key {
	d.mu.RLock()
	defer d.mu.RUnlock()
	keys := make([]Key, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sortKeys(keys)

	return keys
}

// Freeze makes the dictionary read-only. It cannot be undone.
func (d *Dictionary) Freeze() {
	d.mu.Lock()
	d.frozen = true
	d.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (d *Dictionary) Frozen() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.frozen
}

// Snapshot copies the contents as sorted label slices; stores persist this form.
func (d *Dictionary) Snapshot() map[Key][]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[Key][]string, len(d.entries))
	for k, set := range d.entries {
		out[k] = sortedSet(set)
	}

	return out
}

// FromSnapshot rebuilds a frozen dictionary with the same map type Record uses.
func FromSnapshot(snap map[Key][]string) *Dictionary {
	d := New()
	for k, labels := range snap {
		set := make(map[string]struct{}, len(labels))
		for _, l := range labels {
			set[l] = struct{}{}
		}
		d.entries[k] = set
	}
	d.frozen = true

	return d
}

func sortedSet(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Strings(out)

	return out
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Head != keys[j].Head {
			return keys[i].Head < keys[j].Head
		}
		return keys[i].Dep < keys[j].Dep
	})
}
