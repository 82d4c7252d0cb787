package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	RequestIDHeader    = "X-Request-ID"
	requestIDAttribute = "requestID"
)

// RequestID reuses the caller's X-Request-ID or generates one, and echoes it on the response.
func RequestID(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	id := req.HeaderParameter(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}

	req.SetAttribute(requestIDAttribute, id)
	resp.AddHeader(RequestIDHeader, id)

	chain.ProcessFilter(req, resp)
}

// RequestIDFrom returns the id assigned by the RequestID filter, or "" if it did not run.
func RequestIDFrom(req *restful.Request) string {
	id, _ := req.Attribute(requestIDAttribute).(string)
	return id
}

// Logger writes one access log line per request. Bodies are never logged.
func Logger(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()

	chain.ProcessFilter(req, resp)

	log.Info().
		Str("method", req.Request.Method).
		Str("path", req.Request.URL.Path).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Str("requestID", RequestIDFrom(req)).
		Msg("HTTP request")
}

func RecoverPanic(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("path", req.Request.URL.Path).
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			HandleError(resp, fmt.Errorf("internal server error"), http.StatusInternalServerError)
		}
	}()

	chain.ProcessFilter(req, resp)
}
