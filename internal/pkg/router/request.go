package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Request gives handlers typed access to params, queries and the body.
type Request struct {
	*http.Request
}

// GetParam returns a path parameter.
func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// GetParamInt64 parses a path parameter as int64.
func (r *Request) GetParamInt64(key string) (int64, error) {
	value, err := strconv.ParseInt(r.GetParam(key), 10, 64)
	if err != nil {
		return 0, goerror.NewInvalidFormat("param " + key + " must be an integer")
	}
	return value, nil
}

// GetQuery returns a query string value.
func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// GetQueryInt64 returns 0 for an absent query.
func (r *Request) GetQueryInt64(key string) (int64, error) {
	raw := r.GetQuery(key)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerror.NewInvalidFormat("query " + key + " must be an integer")
	}
	return value, nil
}

// GetQueryInt32 returns 0 for an absent query.
func (r *Request) GetQueryInt32(key string) (int32, error) {
	raw := r.GetQuery(key)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, goerror.NewInvalidFormat("query " + key + " must be an integer")
	}
	return int32(value), nil
}

// DecodeBody decodes exactly one JSON value and rejects unknown fields.
func (r *Request) DecodeBody(dst any) error {
	if r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}

	return nil
}
