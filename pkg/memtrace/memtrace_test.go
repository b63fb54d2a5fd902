package memtrace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clearlang/clearvm/pkg/memtrace"
	"github.com/clearlang/clearvm/pkg/value"
)

func TestSummaryCountsAllocationsByKind(t *testing.T) {
	rec := memtrace.New()
	rec.RecordAlloc(value.ObjString, 5)
	rec.RecordAlloc(value.ObjString, 3)
	rec.RecordAlloc(value.ObjStruct, 48)
	rec.RecordInternHit(5)

	summary := rec.Summary()
	assert.Contains(t, summary, "strings=2")
	assert.Contains(t, summary, "structs=1")
	assert.Contains(t, summary, "upvalues=0")
	assert.Contains(t, summary, "intern_hits=1")
}

func TestRecorderDrivenThroughHeap(t *testing.T) {
	rec := memtrace.New()
	heap := value.NewHeap(rec)
	heap.InternString("hi")
	heap.InternString("hi") // intern hit, not a new allocation

	summary := rec.Summary()
	assert.Contains(t, summary, "strings=1")
	assert.Contains(t, summary, "intern_hits=1")
}
