package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	werrors "github.com/matzehuels/waveplan/pkg/errors"
	"github.com/matzehuels/waveplan/pkg/observability"
)

type errorResponse struct {
	Code    werrors.Code `json:"code"`
	Message string       `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError reports err as {"code","message"}. Nothing is written once the
// request context is done: the timeout middleware answers those requests.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	observability.HTTP().OnError(ctx, r.Method, r.URL.Path, err)

	if ctx.Err() != nil {
		s.logger.Warn("request aborted", "request_id", middleware.GetReqID(ctx), "err", ctx.Err())
		return
	}

	status, resp := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", middleware.GetReqID(ctx), "err", err)
	}
	writeJSON(w, status, resp)
}

// errorStatus maps an error to its HTTP status and response body.
func errorStatus(err error) (int, errorResponse) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, errorResponse{
			Code:    werrors.ErrCodeInvalidInput,
			Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		}
	}

	err = werrors.FromGraph(err)
	code := werrors.GetCode(err)
	resp := errorResponse{Code: code, Message: werrors.UserMessage(err)}

	switch code {
	case werrors.ErrCodeCyclicGraph:
		return http.StatusUnprocessableEntity, resp
	case werrors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType, resp
	case werrors.ErrCodeInternal:
		resp.Message = "internal error"
		return http.StatusInternalServerError, resp
	}
	return http.StatusBadRequest, resp
}

// requestLog logs one line per request and reports it to the HTTP hooks.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		observability.HTTP().OnResponse(ctx, r.Method, r.URL.Path, status, dur)

		kv := []any{
			"request_id", middleware.GetReqID(ctx),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", dur,
		}
		if status >= http.StatusInternalServerError {
			s.logger.Error("http request", kv...)
			return
		}
		s.logger.Info("http request", kv...)
	})
}
