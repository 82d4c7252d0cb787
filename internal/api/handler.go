package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/labbot/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/labbot/internal/executor"
	"github.com/rs/zerolog"
)

// MaxBodyBytes bounds the request body; fifty lab values fit comfortably.
const MaxBodyBytes = 1 << 20

// errServiceUnavailable is the single message shown for every upstream failure kind.
var errServiceUnavailable = errors.New("lab interpretation service is temporarily unavailable, please try again later")

type Handler struct {
	executor *executor.Executor
	logger   *zerolog.Logger
}

func NewHandler(executor *executor.Executor, logger *zerolog.Logger) *Handler {
	return &Handler{
		executor: executor,
		logger:   logger,
	}
}

// POST /api/interpret
// Body: LabResultsInput
// Returns: InterpretationResponse
func (h *Handler) Interpret(req *restful.Request, resp *restful.Response) {
	body, err := io.ReadAll(http.MaxBytesReader(resp.ResponseWriter, req.Request.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn().Int64("limit", tooLarge.Limit).Msg("Request body too large")
			middleware.HandleError(resp, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.Error().Err(err).Msg("Failed to read request body")
		middleware.HandleError(resp, fmt.Errorf("unable to read request body"), http.StatusBadRequest)
		return
	}

	ctx := executor.WithRequestID(req.Request.Context(), middleware.RequestIDFrom(req))
	outcome := h.executor.Execute(ctx, body)

	switch outcome.State {
	case executor.StateResponded:
		resp.WriteHeaderAndEntity(http.StatusOK, outcome.Response)
	case executor.StateRejectedInvalid:
		middleware.HandleError(resp, outcome.Err, http.StatusUnprocessableEntity)
	case executor.StateRejectedPII:
		resp.WriteHeaderAndEntity(http.StatusBadRequest, PIIErrorResponse{
			Error: "PII detected",
			Types: outcome.PIITypes,
		})
	case executor.StateFailedUpstream:
		middleware.HandleError(resp, errServiceUnavailable, http.StatusServiceUnavailable)
	default:
		h.logger.Error().Str("state", string(outcome.State)).Msg("Unexpected pipeline state")
		middleware.HandleError(resp, fmt.Errorf("internal server error"), http.StatusInternalServerError)
	}
}

// Health handler GET /health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ServiceVersion,
	})
}

// GET /
func (h *Handler) Info(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, InfoResponse{
		Message: ServiceName,
		Version: ServiceVersion,
		Docs:    OpenAPIPath,
	})
}
