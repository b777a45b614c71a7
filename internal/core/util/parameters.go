package util

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

var ErrTrailingData = errors.New("request body must contain a single JSON value")

// BindJSON decodes the request body into T. A missing or empty body yields
// the zero value so callers can validate it like any other payload. Keys
// that T does not declare are ignored.
func BindJSON[T any](c *gin.Context) (T, error) {
	return bindJSON[T](c, false)
}

// BindStrictJSON is BindJSON that also rejects keys T does not declare.
func BindStrictJSON[T any](c *gin.Context) (T, error) {
	return bindJSON[T](c, true)
}

func bindJSON[T any](c *gin.Context, strict bool) (T, error) {
	var params T

	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return params, nil
	}

	decoder := json.NewDecoder(c.Request.Body)
	if strict {
		decoder.DisallowUnknownFields()
	}

	if err := decoder.Decode(&params); err != nil {
		if errors.Is(err, io.EOF) {
			return params, nil
		}
		return params, err
	}

	// Anything after the first value, other than whitespace, is malformed.
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return params, ErrTrailingData
	}

	return params, nil
}
