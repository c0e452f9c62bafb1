package iorest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gnames/gn"
	"github.com/gnames/gnforms/pkg/errcode"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

var emTags = strings.NewReplacer("<em>", "", "</em>", "")

// status maps error codes to HTTP statuses.
func status(code gn.ErrorCode) (int, string) {
	switch code {
	case errcode.ValidationError, errcode.CSVDecodeError:
		return http.StatusBadRequest, "validation"
	case errcode.UnauthenticatedError:
		return http.StatusUnauthorized, "unauthenticated"
	case errcode.UnauthorizedError:
		return http.StatusForbidden, "unauthorized"
	case errcode.NotFoundError:
		return http.StatusNotFound, "not_found"
	case errcode.ConflictError:
		return http.StatusConflict, "conflict"
	case errcode.StoreError:
		return http.StatusInternalServerError, "store_failure"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// message renders the user-facing part of an error without markup and
// without the "How to fix" hint.
func message(err error) string {
	var gnErr *gn.Error
	if !errors.As(err, &gnErr) {
		return err.Error()
	}
	msg := gnErr.Msg
	if len(gnErr.Vars) > 0 {
		msg = fmt.Sprintf(msg, gnErr.Vars...)
	}
	msg, _, _ = strings.Cut(msg, "\n\n")
	return emTags.Replace(strings.TrimSpace(msg))
}

func respondError(c *gin.Context, err error) {
	st, kind := status(errcode.Of(err))
	reqID := c.GetString(ctxRequestID)
	if st >= http.StatusInternalServerError {
		slog.Error("Request failed", "request_id", reqID, "error", err)
	}
	c.AbortWithStatusJSON(st, ErrorResponse{
		Error:     message(err),
		Code:      kind,
		RequestID: reqID,
	})
}

// paramID parses a positive numeric path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		respondError(c, BadIDError(name, raw))
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the body or responds with a validation error.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondError(c, BodyError(err))
		return false
	}
	return true
}

func attachment(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
