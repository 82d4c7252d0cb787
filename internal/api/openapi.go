package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
)

const OpenAPIPath = "/api/openapi.json"

// RegisterOpenAPI serves the OpenAPI document for every web service already in the container.
// Call it after RegisterRoutes.
func RegisterOpenAPI(container *restful.Container, disclaimer string) {
	config := restfulspec.Config{
		WebServices: container.RegisteredWebServices(),
		APIPath:     OpenAPIPath,
		PostBuildSwaggerObjectHandler: func(swo *spec.Swagger) {
			enrichSwaggerObject(swo, disclaimer)
		},
	}

	container.Add(restfulspec.NewOpenAPIService(config))
}

func enrichSwaggerObject(swo *spec.Swagger, disclaimer string) {
	description := "Plain-language interpretation of lab results with a PII gate and cited sources."
	if disclaimer != "" {
		description += "\n\n" + disclaimer
	}

	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       ServiceName,
			Description: description,
			Version:     ServiceVersion,
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "interpret", Description: "Lab value interpretation"}},
	}
}
