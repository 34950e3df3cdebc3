package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/linkgraph/pkg/errors"
	"github.com/matzehuels/linkgraph/pkg/storage"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 8 << 20

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError maps err to a status through its error code. Uncoded errors
// are reported as internal errors without their message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if stderrors.Is(err, storage.ErrNotFound) && errors.GetCode(err) == "" {
		err = errors.Wrap(errors.ErrCodeSnapshotNotFound, err, "snapshot not found")
	}

	code := errors.GetCode(err)
	body := errorBody{Code: code, Message: errors.UserMessage(err)}
	if code == "" {
		body = errorBody{Code: errors.ErrCodeInternal, Message: "internal error"}
	}
	status := errors.HTTPStatus(body.Code)
	if status >= 500 {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, body)
}

// decodeJSON decodes a bounded request body into v. An empty body leaves v
// unchanged when allowEmpty is set.
func decodeJSON(r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if allowEmpty && stderrors.Is(err, io.EOF) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func uuidParam(r *http.Request, name string, notFound errors.Code) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errors.New(notFound, "no such id %q", chi.URLParam(r, name))
	}
	return id, nil
}

// nodeParam returns the unescaped {node} path segment, validated.
func nodeParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "node")
	node, err := url.PathUnescape(raw)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidNode, err, "bad node %q", raw)
	}
	if err := errors.ValidateNodeID(node); err != nil {
		return "", err
	}
	return node, nil
}
