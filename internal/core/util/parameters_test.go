package util

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

type payload struct {
	Value string `json:"value"`
}

func contextWithBody(body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest("POST", "/", nil)
	} else {
		req, _ = http.NewRequest("POST", "/", strings.NewReader(body))
	}
	c.Request = req

	return c
}

func TestBindJSON(t *testing.T) {
	RegisterTestingT(t)

	params, err := BindJSON[payload](contextWithBody(`{"value": "ok", "extra": 1}`))
	Expect(err).To(BeNil())
	Expect(params.Value).To(Equal("ok"))

	params, err = BindJSON[payload](contextWithBody(""))
	Expect(err).To(BeNil())
	Expect(params).To(Equal(payload{}))

	_, err = BindJSON[payload](contextWithBody("{\"value\": \"ok\"}\n\t "))
	Expect(err).To(BeNil())
}

func TestBindJSON_TrailingData(t *testing.T) {
	RegisterTestingT(t)

	for _, body := range []string{`{"value":"ok"} trailing`, `{"value":"ok"}{}`, `{"value":"ok"} 1`} {
		_, err := BindJSON[payload](contextWithBody(body))
		Expect(err).To(MatchError(ErrTrailingData), body)

		_, err = BindStrictJSON[payload](contextWithBody(body))
		Expect(err).To(MatchError(ErrTrailingData), body)
	}
}

func TestBindStrictJSON_UnknownFields(t *testing.T) {
	RegisterTestingT(t)

	_, err := BindStrictJSON[payload](contextWithBody(`{"value": "ok", "foo": 1}`))
	Expect(err).To(MatchError(ContainSubstring(`unknown field "foo"`)))

	params, err := BindStrictJSON[payload](contextWithBody(`{"value": "ok"}`))
	Expect(err).To(BeNil())
	Expect(params.Value).To(Equal("ok"))
}
