// Package encoder turns values from the models package into compact
// JSON text. Output is deterministic: a given value always encodes to
// the same bytes, across calls and across runs.
package encoder

import (
	"math"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/jemit/internal/errors"
	"github.com/mcncl/jemit/internal/escape"
	"github.com/mcncl/jemit/internal/models"
)

// NonFinitePolicy decides what happens when a float is NaN or
// infinite. JSON has no literal for these, so the encoder must either
// substitute or fail; it never emits malformed output.
type NonFinitePolicy uint8

const (
	// NonFiniteSentinel replaces the value with Options.Sentinel.
	NonFiniteSentinel NonFinitePolicy = iota

	// NonFiniteError rejects the value with errors.ErrNonFinite.
	NonFiniteError
)

// KeyCase selects an optional rewrite of field names into JSON keys.
type KeyCase uint8

const (
	KeyCaseNone KeyCase = iota
	KeyCaseSnake
	KeyCaseCamel
	KeyCasePascal
)

// DefaultSentinel is substituted for non-finite floats unless
// configured otherwise. The sentinel must itself be finite, or the
// substitution would reintroduce the token it exists to avoid.
const DefaultSentinel = -1.0

// Options configures an Encoder.
type Options struct {
	// Precision is the number of digits after the decimal point for
	// floats. Floats are always fixed-point, never scientific.
	Precision int

	// NonFinite selects the policy for NaN and infinities.
	NonFinite NonFinitePolicy

	// Sentinel is the value substituted under NonFiniteSentinel.
	Sentinel float64

	// EscapeMode selects byte-wise or codepoint-wise string escaping.
	EscapeMode escape.Mode

	// KeyCase rewrites record field names into JSON keys. Values of
	// text fields are never rewritten.
	KeyCase KeyCase
}

// DefaultOptions returns the conventional settings: one decimal
// place, -1.0 substituted for non-finite floats, byte-wise escaping,
// field names passed through untouched.
func DefaultOptions() Options {
	return Options{
		Precision:  1,
		NonFinite:  NonFiniteSentinel,
		Sentinel:   DefaultSentinel,
		EscapeMode: escape.ModeBytes,
		KeyCase:    KeyCaseNone,
	}
}

// Encoder encodes values to JSON text. It holds no per-call state and
// is safe for concurrent use.
type Encoder struct {
	opts Options
}

// New creates an Encoder with DefaultOptions.
func New() *Encoder {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates an Encoder with custom options. Unusable
// settings are normalized: a negative precision becomes zero, and a
// non-finite sentinel falls back to DefaultSentinel.
func NewWithOptions(opts Options) *Encoder {
	if opts.Precision < 0 {
		opts.Precision = 0
	}
	if math.IsNaN(opts.Sentinel) || math.IsInf(opts.Sentinel, 0) {
		opts.Sentinel = DefaultSentinel
	}
	return &Encoder{opts: opts}
}

// EncodeValue encodes any value to its JSON token.
func (e *Encoder) EncodeValue(v models.Value) (string, error) {
	var sb strings.Builder
	if err := e.writeValue(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// EncodeRecord encodes an ordered field list to a JSON object. Fields
// appear in list order with no trailing comma and no whitespace.
func (e *Encoder) EncodeRecord(r models.Record) (string, error) {
	var sb strings.Builder
	if err := e.writeRecord(&sb, r); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// EncodeSequence encodes a scalar list to a JSON array. An empty list
// encodes as "[]".
func (e *Encoder) EncodeSequence(elems []models.Value) (string, error) {
	var sb strings.Builder
	if err := e.writeSequence(&sb, elems); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// EncodeDocument encodes a parsed document's root value.
func (e *Encoder) EncodeDocument(doc models.Document) (string, error) {
	return e.EncodeValue(doc.Root)
}

func (e *Encoder) writeValue(sb *strings.Builder, v models.Value) error {
	switch v.Kind() {
	case models.KindText:
		e.writeText(sb, v.Text())
		return nil
	case models.KindInt:
		sb.WriteString(strconv.FormatInt(v.Int(), 10))
		return nil
	case models.KindFloat:
		return e.writeFloat(sb, v.Float())
	case models.KindSequence:
		return e.writeSequence(sb, v.Sequence())
	case models.KindRecord:
		return e.writeRecord(sb, v.Fields())
	default:
		return errors.NewEncodingError("unknown value kind", nil)
	}
}

func (e *Encoder) writeText(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	sb.WriteString(escape.EscapeMode(s, e.opts.EscapeMode))
	sb.WriteByte('"')
}

// writeFloat emits fixed-point notation with Precision fractional
// digits. strconv rounds to the nearest representable decimal, so
// 40.05 (stored as 40.049999...) comes out as "40.0" at the default
// precision.
func (e *Encoder) writeFloat(sb *strings.Builder, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		if e.opts.NonFinite == NonFiniteError {
			return errors.NewEncodingError("cannot encode non-finite float", errors.ErrNonFinite)
		}
		f = e.opts.Sentinel
	}
	sb.WriteString(strconv.FormatFloat(f, 'f', e.opts.Precision, 64))
	return nil
}

func (e *Encoder) writeSequence(sb *strings.Builder, elems []models.Value) error {
	sb.WriteByte('[')
	for i, elem := range elems {
		if i > 0 {
			sb.WriteByte(',')
		}
		if err := e.writeValue(sb, elem); err != nil {
			return err
		}
	}
	sb.WriteByte(']')
	return nil
}

func (e *Encoder) writeRecord(sb *strings.Builder, r models.Record) error {
	sb.WriteByte('{')
	for i, field := range r {
		if i > 0 {
			sb.WriteByte(',')
		}
		e.writeText(sb, e.key(field.Name))
		sb.WriteByte(':')
		if err := e.writeValue(sb, field.Value); err != nil {
			return err
		}
	}
	sb.WriteByte('}')
	return nil
}

// key applies the configured case rewrite to a field name.
func (e *Encoder) key(name string) string {
	switch e.opts.KeyCase {
	case KeyCaseSnake:
		return strcase.ToSnake(name)
	case KeyCaseCamel:
		return strcase.ToLowerCamel(name)
	case KeyCasePascal:
		return strcase.ToCamel(name)
	default:
		return name
	}
}
