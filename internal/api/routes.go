package api

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/labbot/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/labbot/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	root := new(restful.WebService)

	root.
		Path("/").
		Produces(restful.MIME_JSON)

	root.
		Route(root.GET("/").
			To(handler.Info).
			Doc("API information").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(InfoResponse{}).
			Returns(http.StatusOK, "OK", InfoResponse{}))

	// Health endpoint
	root.
		Route(root.GET("/health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(http.StatusOK, "OK", HealthResponse{}))

	container.Add(root)

	ws := new(restful.WebService)

	ws.
		Path("/api").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.
		Route(ws.POST("/interpret").
			To(handler.Interpret).
			Doc("Interpret lab values").
			Notes("Rejects payloads containing personally identifiable information before any model call.").
			Metadata(restfulspec.KeyOpenAPITags, []string{"interpret"}).
			Reads(models.LabResultsInput{}).
			Writes(models.InterpretationResponse{}).
			Returns(http.StatusOK, "OK", models.InterpretationResponse{}).
			Returns(http.StatusBadRequest, "PII detected", PIIErrorResponse{}).
			Returns(http.StatusRequestEntityTooLarge, "Request body too large", middleware.ErrorResponse{}).
			Returns(http.StatusUnprocessableEntity, "Invalid lab values", middleware.ErrorResponse{}).
			Returns(http.StatusServiceUnavailable, "Interpretation service unavailable", middleware.ErrorResponse{}).
			Returns(http.StatusInternalServerError, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}
