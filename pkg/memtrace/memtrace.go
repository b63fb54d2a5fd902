// Package memtrace implements an optional memory-accounting Recorder
// for pkg/value.Heap, the Go rendition of the source VM's compile-time
// DEBUG_MEM flag: instead of a build-time switch, it is a value a
// caller opts into at construction time via vm.WithMemRecorder.
package memtrace

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/clearlang/clearvm/pkg/value"
)

// Recorder accumulates allocation counts and byte totals per object
// kind. Safe for concurrent use, though a single clearvm VM never
// touches its heap from more than one goroutine (spec §5).
type Recorder struct {
	mu sync.Mutex

	allocCount map[value.ObjTag]int
	allocBytes map[value.ObjTag]int
	internHits int
	internSaved int
}

// New returns an empty Recorder ready to pass to vm.WithMemRecorder.
func New() *Recorder {
	return &Recorder{
		allocCount: make(map[value.ObjTag]int),
		allocBytes: make(map[value.ObjTag]int),
	}
}

// RecordAlloc implements value.Recorder.
func (r *Recorder) RecordAlloc(kind value.ObjTag, bytes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allocCount[kind]++
	r.allocBytes[kind] += bytes
}

// RecordInternHit implements value.Recorder. Each hit is a string
// allocation the interning table avoided.
func (r *Recorder) RecordInternHit(bytes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.internHits++
	r.internSaved += bytes
}

// Summary renders a closing report, using go-humanize so byte counts
// read the way a human would say them ("1.2 kB") rather than as a raw
// integer.
func (r *Recorder) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, n := range r.allocBytes {
		total += n
	}

	return fmt.Sprintf(
		"strings=%d structs=%d upvalues=%d allocated=%s intern_hits=%d saved=%s",
		r.allocCount[value.ObjString],
		r.allocCount[value.ObjStruct],
		r.allocCount[value.ObjUpvalue],
		humanize.Bytes(uint64(total)),
		r.internHits,
		humanize.Bytes(uint64(r.internSaved)),
	)
}
