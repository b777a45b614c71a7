package validation

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"todolist/internal/core/domain"
	"todolist/internal/core/model/request"
	"todolist/internal/core/util"
)

func TestValidateStruct_CreateTodoRequest(t *testing.T) {
	RegisterTestingT(t)

	Expect(ValidateStruct(request.CreateTodoRequest{Value: "a"})).To(Succeed())
	Expect(ValidateStruct(request.CreateTodoRequest{Value: strings.Repeat("x", 50)})).To(Succeed())

	// Length is counted in characters, not bytes.
	Expect(ValidateStruct(request.CreateTodoRequest{Value: strings.Repeat("할", 50)})).To(Succeed())

	cases := map[string]string{
		"empty":    "",
		"too long": strings.Repeat("x", 51),
	}

	for name, value := range cases {
		err := ValidateStruct(request.CreateTodoRequest{Value: value})

		var validationErr *domain.ValidationError
		Expect(errors.As(err, &validationErr)).To(BeTrue(), name)
		Expect(validationErr.Field).To(Equal("value"), name)
		Expect(validationErr.Message).To(ContainSubstring("value"), name)
	}
}

func TestBindError(t *testing.T) {
	RegisterTestingT(t)

	Expect(BindError(nil)).To(BeNil())
	Expect(BindError(io.EOF)).To(BeNil())

	var req request.CreateTodoRequest
	err := BindError(json.Unmarshal([]byte(`{"value": 12}`), &req))

	var validationErr *domain.ValidationError
	Expect(errors.As(err, &validationErr)).To(BeTrue())
	Expect(validationErr.Message).To(Equal("value must be of type string"))

	err = BindError(json.Unmarshal([]byte(`{"value": `), &req))
	Expect(errors.As(err, &validationErr)).To(BeTrue())
	Expect(validationErr.Message).To(Equal("request body is not valid JSON"))

	err = BindError(util.ErrTrailingData)
	Expect(errors.As(err, &validationErr)).To(BeTrue())
	Expect(validationErr.Field).To(Equal("body"))
}

func TestBindError_UnknownField(t *testing.T) {
	RegisterTestingT(t)

	decoder := json.NewDecoder(strings.NewReader(`{"value": "ok", "foo": 1}`))
	decoder.DisallowUnknownFields()

	var req request.CreateTodoRequest
	err := BindError(decoder.Decode(&req))

	var validationErr *domain.ValidationError
	Expect(errors.As(err, &validationErr)).To(BeTrue())
	Expect(validationErr.Field).To(Equal("foo"))
	Expect(validationErr.Message).To(Equal(`"foo" is not allowed`))
}
