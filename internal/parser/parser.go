// Package parser reads JSON text into the record model. It sits at
// the input boundary: the encoder itself never parses anything. A
// token-level decoder is used so that object key order survives the
// trip; decoding into maps would lose it.
package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	stderrors "errors"

	"github.com/mcncl/jemit/internal/errors"
	"github.com/mcncl/jemit/internal/models"
)

// Parse converts JSON data from an io.Reader into a Document.
func Parse(reader io.Reader) (models.Document, error) {
	dec := json.NewDecoder(reader)
	dec.UseNumber() // Ensure numbers are read as json.Number

	tok, err := dec.Token()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.Document{}, syntaxError(err)
	}

	root, err := parseValue(dec, tok)
	if err != nil {
		return models.Document{}, err
	}

	// Anything after the first value means multiple roots.
	if _, err := dec.Token(); !stderrors.Is(err, io.EOF) {
		if err == nil {
			return models.Document{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
		}
		return models.Document{}, syntaxError(err)
	}

	return models.Document{
		Root:        root,
		RootIsArray: root.Kind() == models.KindSequence,
	}, nil
}

// parseValue converts the value starting at tok, consuming the rest
// of it from dec when it is a container.
func parseValue(dec *json.Decoder, tok json.Token) (models.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return models.Value{}, errors.NewParsingError(fmt.Sprintf("unexpected delimiter %q", t.String()), errors.ErrInvalidJSON)
	case string:
		return models.Text(t), nil
	case json.Number:
		return parseNumber(t)
	case bool:
		return models.Value{}, errors.NewParsingError("booleans are not supported", errors.ErrUnsupportedValue)
	case nil:
		return models.Value{}, errors.NewParsingError("nulls are not supported", errors.ErrUnsupportedValue)
	default:
		return models.Value{}, errors.NewParsingError(fmt.Sprintf("unexpected token %v", tok), errors.ErrInvalidJSON)
	}
}

// parseObject reads the fields of an object whose opening brace has
// already been consumed. Field order is the document order.
func parseObject(dec *json.Decoder) (models.Value, error) {
	var fields models.Record
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return models.Value{}, syntaxError(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return models.Value{}, errors.NewParsingError(fmt.Sprintf("object key is not a string: %v", keyTok), errors.ErrInvalidJSON)
		}

		valTok, err := dec.Token()
		if err != nil {
			return models.Value{}, syntaxError(err)
		}
		val, err := parseValue(dec, valTok)
		if err != nil {
			return models.Value{}, err
		}
		fields = append(fields, models.Field{Name: key, Value: val})
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return models.Value{}, syntaxError(err)
	}
	return models.Object(fields...), nil
}

// parseArray reads the elements of an array whose opening bracket has
// already been consumed. Elements must be scalars of one kind.
func parseArray(dec *json.Decoder) (models.Value, error) {
	var elems []models.Value
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return models.Value{}, syntaxError(err)
		}
		if d, ok := tok.(json.Delim); ok && (d == '{' || d == '[') {
			return models.Value{}, errors.NewParsingError("array element is not a scalar", errors.ErrMixedArray)
		}
		elem, err := parseValue(dec, tok)
		if err != nil {
			return models.Value{}, err
		}
		if len(elems) > 0 && elem.Kind() != elems[0].Kind() {
			return models.Value{}, errors.NewParsingError(
				fmt.Sprintf("array mixes %s and %s elements", elems[0].Kind(), elem.Kind()),
				errors.ErrMixedArray,
			)
		}
		elems = append(elems, elem)
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return models.Value{}, syntaxError(err)
	}
	return models.Sequence(elems...), nil
}

// parseNumber maps a JSON number to an integer when it has no
// fraction or exponent, and to a float otherwise.
func parseNumber(n json.Number) (models.Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		i, err := n.Int64()
		if err == nil {
			return models.Int(i), nil
		}
		// Out of int64 range; fall through to float.
	}
	f, err := n.Float64()
	if err != nil && !stderrors.Is(err, strconv.ErrRange) {
		return models.Value{}, errors.NewParsingError(fmt.Sprintf("invalid number %q", s), errors.ErrInvalidJSON)
	}
	// Out-of-range literals clamp to ±Inf and flow into the encoder's
	// non-finite policy.
	return models.Float(f), nil
}

func syntaxError(err error) error {
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d", syntaxErr.Offset),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError("failed to decode JSON", err)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Document, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.Document{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Document, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Document{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Document{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	// Check for empty file before parsing
	stat, err := file.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}
