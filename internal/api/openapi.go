package api

import (
	"net/http"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/users-api/internal/api/middleware"
	"github.com/phrazzld/users-api/internal/api/shared"
)

// OpenAPIVersion is the version of the OpenAPI format produced by BuildOpenAPI.
const OpenAPIVersion = "3.0.3"

// bearerScheme is the name of the security scheme in the document.
const bearerScheme = "bearerAuth"

// Info is the document metadata.
type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// Document is an OpenAPI 3 document restricted to what the route catalog uses.
type Document struct {
	OpenAPI    string              `json:"openapi"`
	Info       Info                `json:"info"`
	Servers    []Server            `json:"servers"`
	Paths      map[string]PathItem `json:"paths"`
	Components Components          `json:"components"`
}

// Server is a base URL the paths are relative to.
type Server struct {
	URL string `json:"url"`
}

// PathItem maps lower-case HTTP methods to operations.
type PathItem map[string]*Operation

// Operation describes one route.
type Operation struct {
	OperationID string                `json:"operationId"`
	Summary     string                `json:"summary,omitempty"`
	Tags        []string              `json:"tags,omitempty"`
	Parameters  []Parameter           `json:"parameters,omitempty"`
	RequestBody *RequestBody          `json:"requestBody,omitempty"`
	Responses   map[string]Response   `json:"responses"`
	Security    []map[string][]string `json:"security,omitempty"`
}

// Parameter is a path parameter.
type Parameter struct {
	Name     string  `json:"name"`
	In       string  `json:"in"`
	Required bool    `json:"required"`
	Schema   *Schema `json:"schema"`
}

// RequestBody is a JSON request body.
type RequestBody struct {
	Required bool                 `json:"required"`
	Content  map[string]MediaType `json:"content"`
}

// Response is one documented response of an operation.
type Response struct {
	Description string               `json:"description"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

// MediaType wraps the schema of a body.
type MediaType struct {
	Schema *Schema `json:"schema"`
}

// Components holds reusable schemas and security schemes.
type Components struct {
	Schemas         map[string]*Schema        `json:"schemas"`
	SecuritySchemes map[string]SecurityScheme `json:"securitySchemes"`
}

// SecurityScheme describes the bearer token scheme.
type SecurityScheme struct {
	Type         string `json:"type"`
	Scheme       string `json:"scheme"`
	BearerFormat string `json:"bearerFormat,omitempty"`
}

// Schema is the subset of JSON Schema used for request and response bodies.
type Schema struct {
	Ref        string             `json:"$ref,omitempty"`
	Type       string             `json:"type,omitempty"`
	Format     string             `json:"format,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	MinLength  *int               `json:"minLength,omitempty"`
	MaxLength  *int               `json:"maxLength,omitempty"`
	Minimum    *int64             `json:"minimum,omitempty"`
}

var pathParamPattern = regexp.MustCompile(`\{([^}/]+)\}`)

var timeType = reflect.TypeOf(time.Time{})

// BuildOpenAPI renders the document for routes. Paths are relative to the
// /api server URL.
func BuildOpenAPI(routes []Route, info Info) *Document {
	doc := &Document{
		OpenAPI: OpenAPIVersion,
		Info:    info,
		Servers: []Server{{URL: "/api"}},
		Paths:   make(map[string]PathItem),
		Components: Components{
			Schemas: make(map[string]*Schema),
			SecuritySchemes: map[string]SecurityScheme{
				bearerScheme: {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
			},
		},
	}

	for _, route := range routes {
		item, ok := doc.Paths[route.Pattern]
		if !ok {
			item = make(PathItem)
			doc.Paths[route.Pattern] = item
		}
		item[strings.ToLower(route.Method)] = doc.operation(route)
	}

	return doc
}

func (d *Document) operation(route Route) *Operation {
	op := &Operation{
		OperationID: route.OperationID,
		Summary:     route.Summary,
		Responses:   make(map[string]Response),
		Security:    securityFor(route.Policy),
	}
	if route.Tag != "" {
		op.Tags = []string{route.Tag}
	}

	for _, m := range pathParamPattern.FindAllStringSubmatch(route.Pattern, -1) {
		op.Parameters = append(op.Parameters, Parameter{
			Name:     m[1],
			In:       "path",
			Required: true,
			Schema:   &Schema{Type: "integer", Format: "int64", Minimum: int64Ptr(1)},
		})
	}

	if route.Request != nil {
		op.RequestBody = &RequestBody{
			Required: true,
			Content: map[string]MediaType{
				"application/json": {Schema: d.schemaFor(reflect.TypeOf(route.Request))},
			},
		}
	}

	responses := route.Responses
	if route.Policy == middleware.PolicyRequired {
		if _, ok := responses[http.StatusUnauthorized]; !ok {
			responses = withResponse(responses, http.StatusUnauthorized, shared.ErrorResponse{})
		}
	}

	codes := make([]int, 0, len(responses))
	for code := range responses {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	for _, code := range codes {
		resp := Response{Description: http.StatusText(code)}
		if body := responses[code]; body != nil {
			resp.Content = map[string]MediaType{
				"application/json": {Schema: d.schemaFor(reflect.TypeOf(body))},
			}
		}
		op.Responses[strconv.Itoa(code)] = resp
	}

	return op
}

// securityFor lists the accepted security requirements. An empty requirement
// object marks authentication as optional.
func securityFor(policy middleware.Policy) []map[string][]string {
	switch policy {
	case middleware.PolicyRequired:
		return []map[string][]string{{bearerScheme: {}}}
	case middleware.PolicyOptional:
		return []map[string][]string{{bearerScheme: {}}, {}}
	default:
		return nil
	}
}

// schemaFor returns an inline schema for scalars and arrays and a reference
// to a component schema for named structs.
func (d *Document) schemaFor(t reflect.Type) *Schema {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == timeType {
		return &Schema{Type: "string", Format: "date-time"}
	}

	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		return &Schema{Type: "integer", Format: "int64"}
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return &Schema{Type: "integer", Format: "int32"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: d.schemaFor(t.Elem())}
	case reflect.Struct:
		name := t.Name()
		if name == "" {
			return structSchema(d, t)
		}
		if _, ok := d.Components.Schemas[name]; !ok {
			// Reserve the name first so self-referencing types terminate.
			d.Components.Schemas[name] = &Schema{}
			*d.Components.Schemas[name] = *structSchema(d, t)
		}
		return &Schema{Ref: "#/components/schemas/" + name}
	default:
		return &Schema{}
	}
}

func structSchema(d *Document, t reflect.Type) *Schema {
	s := &Schema{Type: "object", Properties: make(map[string]*Schema)}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, opts, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" && opts == "" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		prop := d.schemaFor(field.Type)
		applyValidateTag(prop, field.Tag.Get("validate"))
		s.Properties[name] = prop

		if hasRule(field.Tag.Get("validate"), "required") {
			s.Required = append(s.Required, name)
		}
	}

	return s
}

// applyValidateTag copies length bounds from validator tags onto string schemas.
func applyValidateTag(s *Schema, tag string) {
	if s.Type != "string" {
		return
	}
	for _, rule := range strings.Split(tag, ",") {
		key, value, ok := strings.Cut(rule, "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		switch key {
		case "max":
			s.MaxLength = intPtr(n)
		case "min":
			s.MinLength = intPtr(n)
		}
	}
	if hasRule(tag, "required") && s.MinLength == nil {
		s.MinLength = intPtr(1)
	}
}

func hasRule(tag, rule string) bool {
	for _, r := range strings.Split(tag, ",") {
		if r == rule {
			return true
		}
	}
	return false
}

func withResponse(responses map[int]interface{}, code int, body interface{}) map[int]interface{} {
	out := make(map[int]interface{}, len(responses)+1)
	for k, v := range responses {
		out[k] = v
	}
	out[code] = body
	return out
}

func intPtr(n int) *int { return &n }

func int64Ptr(n int64) *int64 { return &n }

// OpenAPIHandler serves doc as JSON.
func OpenAPIHandler(doc *Document) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, doc)
	}
}
