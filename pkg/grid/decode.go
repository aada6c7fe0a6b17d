// Package grid decodes the hidden grid payload embedded in the recent-decisions
// page into decision records.
//
// The page stores its rows in one of a few shapes:
//
//	[]                                              plain list (usually empty)
//	{"compressed": true, "data": {"compressed": true, "data": "<base64 zlib>"}}
//	{"compressed": true, "data": {"schema": [...], "data": [[...], ...]}}
//
// and the decompressed payload is a {"schema", "data"} table or, rarely, a
// list of row objects.
package grid

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/tidwall/gjson"
	"github.com/wavewatch/wavewatch/pkg/decisions"
)

// ErrDecode marks a payload that looked like a known envelope but could not
// be read (bad JSON, bad base64, corrupt zlib stream).
var ErrDecode = errors.New("grid payload decode failed")

// shape recognizes one payload layout and turns it into records.
type shape struct {
	name   string
	match  func(v gjson.Result) bool
	decode func(v gjson.Result) ([]decisions.Record, error)
}

// Shapes accepted for the raw hidden-input value, tried in order.
var outerShapes = []shape{
	{name: "list", match: gjson.Result.IsArray, decode: decodeList},
	{name: "envelope", match: isCompressed, decode: decodeEnvelope},
}

// Shapes accepted for the payload found inside the envelope, tried in order.
var payloadShapes = []shape{
	{name: "table", match: isTable, decode: decodeTable},
	{name: "list", match: gjson.Result.IsArray, decode: decodeList},
}

// Decode turns the raw hidden-input value into records, preserving row order.
// Well-formed JSON of an unknown shape yields no records and no error.
func Decode(raw string) ([]decisions.Record, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrDecode)
	}
	return dispatch(gjson.Parse(raw), outerShapes)
}

func dispatch(v gjson.Result, shapes []shape) ([]decisions.Record, error) {
	for _, s := range shapes {
		if s.match(v) {
			return s.decode(v)
		}
	}
	return nil, nil
}

func isCompressed(v gjson.Result) bool {
	return v.IsObject() && v.Get("compressed").Bool()
}

func isTable(v gjson.Result) bool {
	return v.IsObject() && v.Get("schema").Exists() && v.Get("data").Exists()
}

func decodeEnvelope(v gjson.Result) ([]decisions.Record, error) {
	inner := v.Get("data")
	if !isCompressed(inner) {
		return dispatch(inner, payloadShapes)
	}

	payload, err := inflate(inner.Get("data"))
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("%w: decompressed payload is not valid JSON", ErrDecode)
	}
	return dispatch(gjson.ParseBytes(payload), payloadShapes)
}

// inflate base64-decodes and zlib-decompresses the inner envelope data.
func inflate(data gjson.Result) ([]byte, error) {
	if data.Type != gjson.String {
		return nil, fmt.Errorf("%w: compressed data is not a string", ErrDecode)
	}
	compressed, err := decodeBase64(data.Str)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return out, nil
}

// decodeBase64 accepts standard and URL-safe alphabets, padded or not.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// decodeTable zips every row with the schema. Short rows leave the trailing
// columns out and extra cells are ignored.
func decodeTable(v gjson.Result) ([]decisions.Record, error) {
	schema := v.Get("schema")
	rows := v.Get("data")
	if !schema.IsArray() || !rows.IsArray() {
		return nil, fmt.Errorf("%w: schema and data must be arrays", ErrDecode)
	}

	columns := make([]string, 0, len(schema.Array()))
	for _, c := range schema.Array() {
		columns = append(columns, c.String())
	}

	var records []decisions.Record
	for i, row := range rows.Array() {
		if !row.IsArray() {
			return nil, fmt.Errorf("%w: row %d is not an array", ErrDecode, i)
		}
		cells := row.Array()
		m := make(map[string]any, len(columns))
		for j, col := range columns {
			if j >= len(cells) {
				break
			}
			m[col] = cells[j].Value()
		}
		records = append(records, decisions.FromMap(m))
	}
	return records, nil
}

// decodeList reads a list of row objects. Elements that are not objects are skipped.
func decodeList(v gjson.Result) ([]decisions.Record, error) {
	var records []decisions.Record
	v.ForEach(func(_, elem gjson.Result) bool {
		if m, ok := elem.Value().(map[string]interface{}); ok {
			records = append(records, decisions.FromMap(m))
		}
		return true
	})
	return records, nil
}
