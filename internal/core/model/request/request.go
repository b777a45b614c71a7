package request

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strconv"

	"todolist/internal/core/domain"
)

type CreateTodoRequest struct {
	Value string `json:"value" validate:"required,min=1,max=50"`
}

// UpdateTodoRequest fields are all optional. Value and Order use their zero
// values as "absent"; Done records presence separately so that false and null
// still clear the completion time.
type UpdateTodoRequest struct {
	Value string      `json:"value"`
	Order WholeNumber `json:"order"`
	Done  Flag        `json:"done"`
}

func (r UpdateTodoRequest) ToPatch() domain.TodoPatch {
	patch := domain.TodoPatch{
		Value: r.Value,
		Order: int(r.Order),
	}

	if r.Done.Set {
		done := r.Done.Value
		patch.Done = &done
	}

	return patch
}

// Flag is a JSON value reduced to its truthiness. Set reports whether the key
// appeared in the payload at all.
type Flag struct {
	Set   bool
	Value bool
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	f.Set = true
	f.Value = truthy(bytes.TrimSpace(data))

	return nil
}

func truthy(raw []byte) bool {
	if len(raw) == 0 {
		return false
	}

	switch raw[0] {
	case 'n', 'f':
		return false
	case 't', '[', '{':
		return true
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return false
		}
		return s != ""
	default:
		n, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && n != 0
	}
}

// WholeNumber accepts any JSON number without a fractional part, so 2 and
// 2.0 decode to the same value. null decodes to 0.
type WholeNumber int

func (n *WholeNumber) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "null" {
		*n = 0
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value != math.Trunc(value) || math.Abs(value) > math.MaxInt32 {
		return &json.UnmarshalTypeError{
			Value: describe(raw),
			Type:  reflect.TypeFor[int](),
		}
	}

	*n = WholeNumber(value)
	return nil
}

func describe(raw string) string {
	if raw == "" {
		return "empty"
	}

	switch raw[0] {
	case '"':
		return "string"
	case 't', 'f':
		return "bool"
	case '[':
		return "array"
	case '{':
		return "object"
	default:
		return "number " + raw
	}
}
