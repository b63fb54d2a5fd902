package value

import "fmt"

// Recorder receives allocation events for optional memory accounting
// (the target-language rendition of the source's DEBUG_MEM flag).
// NewHeap(nil) installs a no-op recorder.
type Recorder interface {
	RecordAlloc(kind ObjTag, bytes int)
	RecordInternHit(bytes int)
}

type nopRecorder struct{}

func (nopRecorder) RecordAlloc(ObjTag, int)  {}
func (nopRecorder) RecordInternHit(int)      {}

// Object is a heap-allocated record. Only the field matching Tag is
// meaningful. Objects are never freed individually: a clearvm heap is
// released all at once at VM teardown (spec §1 Non-goals), with the
// single exception that interned string storage is shared with the
// value pool rather than duplicated.
type Object struct {
	Tag ObjTag

	str    string  // ObjString
	fields []Value // ObjStruct

	// ObjUpvalue: an upvalue is OPEN while it targets a live stack slot
	// (identified by absolute index in the owning VM's stack) and
	// CLOSED once that slot has been popped, at which point it owns a
	// copy of the value instead.
	open   bool
	slot   uint16
	closed Value
}

// Str returns the backing string of an ObjString object.
func (o *Object) Str() string { return o.str }

// Fields returns the mutable field slice of an ObjStruct object.
func (o *Object) Fields() []Value { return o.fields }

// UpvalueSlot returns the absolute stack slot an open upvalue targets.
func (o *Object) UpvalueSlot() (uint16, bool) {
	if o.Tag != ObjUpvalue || !o.open {
		return 0, false
	}
	return o.slot, true
}

// UpvalueClosedValue returns the owned value of a closed upvalue.
func (o *Object) UpvalueClosedValue() (Value, bool) {
	if o.Tag != ObjUpvalue || o.open {
		return Nil, false
	}
	return o.closed, true
}

// CloseUpvalue transitions an open upvalue to CLOSED, copying v into its
// own storage. Closing an already-closed upvalue is a no-op: the source
// spec marks OPEN -> CLOSED as happening "at most once" and the VM is
// careful never to request it twice, but guarding here costs nothing.
func (o *Object) CloseUpvalue(v Value) {
	if o.Tag != ObjUpvalue || !o.open {
		return
	}
	o.open = false
	o.closed = v
}

// SetUpvalueClosedValue overwrites the storage of a closed upvalue. Used
// by OP_SET_REF when writing through an upvalue that has already closed.
func (o *Object) SetUpvalueClosedValue(v Value) {
	o.closed = v
}

// Heap owns every allocation a VM makes: interned strings, structs, and
// upvalues. There is no garbage collector; Teardown releases everything
// at once.
type Heap struct {
	objects  []*Object
	interned map[string]ObjHandle
	rec      Recorder
}

// NewHeap constructs an empty heap. Pass a non-nil Recorder to enable
// per-allocation memory accounting.
func NewHeap(rec Recorder) *Heap {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Heap{
		interned: make(map[string]ObjHandle),
		rec:      rec,
	}
}

func (h *Heap) alloc(o *Object) ObjHandle {
	handle := ObjHandle(len(h.objects))
	h.objects = append(h.objects, o)
	return handle
}

// Object resolves a handle to its backing record.
func (h *Heap) Object(handle ObjHandle) *Object {
	return h.objects[handle]
}

// ObjTagOf reports the concrete object type behind a handle. Used by
// OP_IS_OBJ_TYPE, which must never be reached with a non-Obj Value (the
// caller gates on Tag == TagObj first — see vm/ops_type.go).
func (h *Heap) ObjTagOf(handle ObjHandle) ObjTag {
	return h.objects[handle].Tag
}

// InternString returns the Value for a string, allocating and linking a
// new ObjString the first time a given byte sequence is seen and
// returning the existing handle on every subsequent request. Two
// byte-equal strings are always the same Obj after this call, which is
// what makes OP_EQUAL's string-by-identity fast path correct.
func (h *Heap) InternString(s string) Value {
	if handle, ok := h.interned[s]; ok {
		h.rec.RecordInternHit(len(s))
		return Obj(handle)
	}
	handle := h.alloc(&Object{Tag: ObjString, str: s})
	h.interned[s] = handle
	h.rec.RecordAlloc(ObjString, len(s))
	return Obj(handle)
}

// NewStruct allocates a struct with the given fields, in push order
// (field 0 is the first value OP_STRUCT popped in reverse, i.e. the
// first one pushed by the compiler-generated code).
func (h *Heap) NewStruct(fields []Value) Value {
	cp := make([]Value, len(fields))
	copy(cp, fields)
	handle := h.alloc(&Object{Tag: ObjStruct, fields: cp})
	h.rec.RecordAlloc(ObjStruct, len(cp)*int(unsafeSizeofValue))
	return Obj(handle)
}

// NewOpenUpvalue allocates an upvalue referencing the given absolute
// stack slot.
func (h *Heap) NewOpenUpvalue(slot uint16) Value {
	handle := h.alloc(&Object{Tag: ObjUpvalue, open: true, slot: slot})
	h.rec.RecordAlloc(ObjUpvalue, 0)
	return Obj(handle)
}

// Teardown releases the heap's allocations (spec: no GC, no individual
// frees — everything goes at once when the VM that owns this heap
// stops running) and reports how many objects were ever allocated, for
// a closing diagnostic line. Byte-level detail is the Recorder's job
// (see pkg/memtrace), since only the Recorder was told the size of
// every allocation as it happened.
func (h *Heap) Teardown() string {
	count := len(h.objects)
	h.objects = nil
	h.interned = nil
	return fmt.Sprintf("%d object(s) released", count)
}

// unsafeSizeofValue is a rough accounting constant for struct field
// storage; memtrace reporting is advisory, not exact (spec §1:
// "implementation-defined" memory accounting).
const unsafeSizeofValue = 24

// Equal implements OP_EQUAL's comparison rules: Bool/Nil/Int compare by
// value, Num compares within 1e-7, Obj compares by identity except that
// two String objects compare by bytes (which interning makes equivalent
// to identity, but the explicit check documents the invariant rather
// than relying on it silently). Values of different tags are always
// unequal.
func (h *Heap) Equal(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TagNil:
		return true
	case TagBool:
		ab, _ := a.AsBool()
		bb, _ := b.AsBool()
		return ab == bb
	case TagInt:
		ai, _ := a.AsInt()
		bi, _ := b.AsInt()
		return ai == bi
	case TagNum:
		an, _ := a.AsNum()
		bn, _ := b.AsNum()
		diff := an - bn
		if diff < 0 {
			diff = -diff
		}
		return diff < 1e-7
	case TagObj:
		ah, _ := a.AsObj()
		bh, _ := b.AsObj()
		if ah == bh {
			return true
		}
		ao, bo := h.Object(ah), h.Object(bh)
		if ao.Tag == ObjString && bo.Tag == ObjString {
			return ao.str == bo.str
		}
		return false
	default:
		// IP and FP values are never compared by OP_EQUAL in practice;
		// fall back to raw field equality for completeness.
		return a == b
	}
}
