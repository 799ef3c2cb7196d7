package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"

	"github.com/taskboard-api/models"
)

// WriteMode tells request appliers how to treat absent fields
type WriteMode int

const (
	// ModeCreate requires every required field
	ModeCreate WriteMode = iota
	// ModeReplace is a full PUT over an existing row; required fields must be present
	ModeReplace
	// ModePatch applies only the fields present in the body
	ModePatch
)

// Optional records whether a JSON field was present and whether it was null
// A value that does not decode into T is kept as a field error for Apply
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T

	err error
}

// Some builds a present, non-null Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// UnmarshalJSON implements json.Unmarshaler. It only runs when the key is present
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		o.err = err
	}
	return nil
}

// DecodeMessage turns a value decoding failure into the message reported on
// its field
func DecodeMessage(err error) string {
	var dateErr *models.DateFormatError
	if errors.As(err, &dateErr) {
		return msgDateFormat
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return "Incorrect type. Expected " + WireType(typeErr.Type) + "."
	}
	return "Invalid value."
}

// WireType names the JSON type a Go type is decoded from
func WireType(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Pointer:
		return WireType(t.Elem())
	}
	return "value"
}

// fieldErrors accumulates per-field validation messages
type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

const (
	msgRequired   = "This field is required."
	msgNotNull    = "This field may not be null."
	msgDateFormat = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
)

// applyValue handles a non-nullable field. An absent field leaves dst as it
// is, unless it is required and mode is not ModePatch
func applyValue[T any](errs fieldErrors, name string, o Optional[T], mode WriteMode, required bool, dst *T) {
	switch {
	case o.err != nil:
		errs.add(name, DecodeMessage(o.err))
	case o.Set && o.Null:
		errs.add(name, msgNotNull)
	case o.Set:
		*dst = o.Value
	case required && mode != ModePatch:
		errs.add(name, msgRequired)
	}
}

// applyNullable handles a nullable field. An absent field leaves dst as it is
func applyNullable[T any](errs fieldErrors, name string, o Optional[T], dst **T) {
	switch {
	case o.err != nil:
		errs.add(name, DecodeMessage(o.err))
	case o.Set && o.Null:
		*dst = nil
	case o.Set:
		v := o.Value
		*dst = &v
	}
}
