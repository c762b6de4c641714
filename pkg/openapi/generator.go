package openapi

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// BearerAuth is the security scheme name of routes marked Secured
const BearerAuth = "bearerAuth"

// RouteDocs documents one method and path
type RouteDocs struct {
	Summary     string
	Description string
	Tags        []string
	Query       []Parameter
	RequestBody interface{} // Struct for request body schema
	Secured     bool        // requires a bearer token
	Responses   map[int]ResponseDoc
}

// ResponseDoc documents one response status
type ResponseDoc struct {
	Description string
	Model       interface{} // Struct for response schema
	ContentType string      // defaults to application/json
	Example     interface{}
}

// QueryParam documents an optional query parameter of the given schema type
func QueryParam(name, typ, description string) Parameter {
	return Parameter{Name: name, In: "query", Description: description, Schema: &Schema{Type: typ}}
}

// Generator builds an OpenAPI document from the routes of a gin engine
type Generator struct {
	engine    *gin.Engine
	info      Info
	servers   []Server
	tags      []Tag
	prefixes  []string
	routeDocs map[string]RouteDocs
}

// NewGenerator creates a generator over engine. When prefixes are given,
// only routes under one of them are documented.
func NewGenerator(engine *gin.Engine, info Info, servers []Server, tags []Tag, prefixes ...string) *Generator {
	return &Generator{
		engine:    engine,
		info:      info,
		servers:   servers,
		tags:      tags,
		prefixes:  prefixes,
		routeDocs: make(map[string]RouteDocs),
	}
}

// RegisterDocs registers documentation for a specific route
// method: GET, POST, etc.
// path: /api/v1/meta/commits/:id/rows
func (g *Generator) RegisterDocs(method, path string, docs RouteDocs) {
	g.routeDocs[method+" "+path] = docs
}

func (g *Generator) included(path string) bool {
	if len(g.prefixes) == 0 {
		return true
	}
	for _, p := range g.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Generate builds the document from the engine's current routes
func (g *Generator) Generate() *OpenAPI {
	spec := &OpenAPI{
		OpenAPI: "3.0.3",
		Info:    g.info,
		Servers: g.servers,
		Tags:    g.tags,
		Paths:   make(map[string]*PathItem),
		Components: Components{
			Schemas: make(map[string]*Schema),
		},
	}

	routes := g.engine.Routes()
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	secured := false
	for _, route := range routes {
		if !g.included(route.Path) {
			continue
		}

		// /api/v1/meta/commits/:id/rows -> /api/v1/meta/commits/{id}/rows
		openAPIPath := convertPath(route.Path)
		pathItem, ok := spec.Paths[openAPIPath]
		if !ok {
			pathItem = &PathItem{}
			spec.Paths[openAPIPath] = pathItem
		}

		operation := &Operation{
			Summary:     route.Handler,
			OperationID: getOperationID(route.Handler),
			Parameters:  extractPathParams(route.Path),
			Responses:   make(map[string]Response),
		}

		if docs, hasDocs := g.routeDocs[route.Method+" "+route.Path]; hasDocs {
			applyDocs(operation, docs)
			if docs.Secured {
				secured = true
			}
		}

		if len(operation.Responses) == 0 {
			operation.Responses["200"] = Response{Description: "Successful response"}
		}

		switch route.Method {
		case "GET":
			pathItem.Get = operation
		case "POST":
			pathItem.Post = operation
		case "PUT":
			pathItem.Put = operation
		case "DELETE":
			pathItem.Delete = operation
		case "PATCH":
			pathItem.Patch = operation
		case "HEAD":
			pathItem.Head = operation
		case "OPTIONS":
			pathItem.Options = operation
		}
	}

	if secured {
		spec.Components.SecuritySchemes = map[string]interface{}{
			BearerAuth: map[string]string{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"},
		}
	}
	return spec
}

func applyDocs(operation *Operation, docs RouteDocs) {
	if docs.Summary != "" {
		operation.Summary = docs.Summary
	}
	operation.Description = docs.Description
	operation.Tags = docs.Tags
	operation.Parameters = append(operation.Parameters, docs.Query...)
	if docs.Secured {
		operation.Security = []map[string][]string{{BearerAuth: {}}}
	}

	if docs.RequestBody != nil {
		operation.RequestBody = &RequestBody{
			Content: map[string]MediaType{
				"application/json": {Schema: GenerateSchema(docs.RequestBody)},
			},
			Required: true,
		}
	}

	for status, respDoc := range docs.Responses {
		resp := Response{Description: respDoc.Description}
		if respDoc.Model != nil || respDoc.Example != nil || respDoc.ContentType != "" {
			mediaType := MediaType{}
			if respDoc.Model != nil {
				mediaType.Schema = GenerateSchema(respDoc.Model)
				if respDoc.Example != nil {
					mediaType.Schema.Example = respDoc.Example
				}
			}
			contentType := respDoc.ContentType
			if contentType == "" {
				contentType = "application/json"
			}
			resp.Content = map[string]MediaType{contentType: mediaType}
		}
		operation.Responses[strconv.Itoa(status)] = resp
	}
}

func convertPath(ginPath string) string {
	parts := strings.Split(ginPath, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			parts[i] = "{" + part[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

func extractPathParams(ginPath string) []Parameter {
	var params []Parameter
	for _, part := range strings.Split(ginPath, "/") {
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			params = append(params, Parameter{
				Name:     part[1:],
				In:       "path",
				Required: true,
				Schema:   &Schema{Type: "string"},
			})
		}
	}
	return params
}

func getOperationID(handlerName string) string {
	// handlerName is usually "github.com/bravo68web/folio/internal/transport/http/handler.(*MetaHandler).View-fm"
	// We want something cleaner like "handler_MetaHandler_View"
	parts := strings.Split(handlerName, "/")
	lastPart := parts[len(parts)-1]

	if idx := strings.Index(lastPart, "-fm"); idx != -1 {
		lastPart = lastPart[:idx]
	}

	lastPart = strings.ReplaceAll(lastPart, "(", "")
	lastPart = strings.ReplaceAll(lastPart, ")", "")
	lastPart = strings.ReplaceAll(lastPart, "*", "")
	lastPart = strings.ReplaceAll(lastPart, ".", "_")

	return lastPart
}
