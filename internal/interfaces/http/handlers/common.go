// Package handlers holds the gin handlers for the public API.
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Doommen3/congress-bill-stats/pkg/errors"
)

// errorBody is the standard error response shape.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error onto an HTTP status and the
// standard error body.  Server-side failures are masked.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	body := errorBody{Code: string(code), Message: err.Error()}
	if errors.IsServerError(code) {
		body.Message = errors.DefaultMessageForCode(code)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// intQuery parses a positive integer query parameter, falling back to def
// when absent or malformed.
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// boolQuery parses a boolean query parameter, false when absent or
// malformed.
func boolQuery(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}

// writeRawJSON serves already-marshaled JSON unchanged.
func writeRawJSON(c *gin.Context, status int, data []byte) {
	c.Data(status, "application/json; charset=utf-8", data)
}

//Personal.AI order the ending
