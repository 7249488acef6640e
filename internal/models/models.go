// Package models defines the value model the encoder operates on: an
// ordered, immutable tree of text, integer, and float scalars grouped
// into sequences and records.
package models

import "fmt"

// Kind discriminates the variants of Value.
type Kind uint8

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindSequence
	KindRecord
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindSequence:
		return "sequence"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Value is a tagged union. Exactly one variant is active, selected by
// the constructor used; there is no coercion between variants.
// Values are immutable once constructed and safe to share across
// goroutines.
type Value struct {
	kind Kind

	// Scalar variants (only one valid based on kind)
	textVal  string
	intVal   int64
	floatVal float64

	// Container variants
	seqVal []Value
	recVal Record
}

// Field is one named entry in a record.
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered field list. Fields encode in the order they
// appear here; keys are never sorted.
type Record []Field

// Text constructs a text value.
func Text(s string) Value {
	return Value{kind: KindText, textVal: s}
}

// Int constructs an integer value.
func Int(n int64) Value {
	return Value{kind: KindInt, intVal: n}
}

// Float constructs a floating-point value.
func Float(f float64) Value {
	return Value{kind: KindFloat, floatVal: f}
}

// Sequence constructs a sequence value from its elements. The slice
// is copied so later mutation of the argument cannot reach the value.
func Sequence(elems ...Value) Value {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return Value{kind: KindSequence, seqVal: cp}
}

// Object constructs a record value from an ordered field list. The
// list is copied.
func Object(fields ...Field) Value {
	cp := make(Record, len(fields))
	copy(cp, fields)
	return Value{kind: KindRecord, recVal: cp}
}

// Kind reports which variant is active.
func (v Value) Kind() Kind {
	return v.kind
}

// IsScalar reports whether the value is text, int, or float.
func (v Value) IsScalar() bool {
	return v.kind == KindText || v.kind == KindInt || v.kind == KindFloat
}

// Text returns the text variant. It panics on any other kind; callers
// switch on Kind first.
func (v Value) Text() string {
	v.mustBe(KindText)
	return v.textVal
}

// Int returns the integer variant.
func (v Value) Int() int64 {
	v.mustBe(KindInt)
	return v.intVal
}

// Float returns the floating-point variant.
func (v Value) Float() float64 {
	v.mustBe(KindFloat)
	return v.floatVal
}

// Sequence returns the elements of a sequence variant. The returned
// slice must not be modified.
func (v Value) Sequence() []Value {
	v.mustBe(KindSequence)
	return v.seqVal
}

// Fields returns the ordered field list of a record variant. The
// returned slice must not be modified.
func (v Value) Fields() Record {
	v.mustBe(KindRecord)
	return v.recVal
}

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("models: %s accessor called on %s value", k, v.kind))
	}
}

// Document holds one parsed root value on its way to the encoder.
type Document struct {
	Root        Value
	RootIsArray bool // True if the root of the JSON is an array vs an object
}
