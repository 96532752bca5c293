// Command swaggergen generates OpenAPI 3.0 specification files (JSON and YAML)
// for the PulseDash dashboard API and writes them to the api/ directory.
//
// Usage:
//
//	go run ./tools/swaggergen
//
// # For Contributors
//
// When you modify the API (add/change endpoints, request/response schemas, etc.),
// update this file to keep the swagger spec in sync:
//
//  1. Endpoints: Edit buildPaths() to add/modify path items and operations
//  2. Schemas: Edit buildSchemas() to add/modify request/response types
//  3. Regenerate: Run `go run ./tools/swaggergen` from the project root
//  4. Verify: Check api/swagger.yaml and api/swagger.json for correctness
//
// Helper functions:
//   - errContent(): Returns standard error response content (reuse for error responses)
//   - videoIDParam(): Returns the {videoID} path parameter definition
//   - asOfParam(): Returns the as_of query parameter definition
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Lightweight OpenAPI 3.0 types
// ---------------------------------------------------------------------------

type OpenAPI struct {
	OpenAPI    string               `json:"openapi"              yaml:"openapi"`
	Info       Info                 `json:"info"                 yaml:"info"`
	Paths      map[string]*PathItem `json:"paths"                yaml:"paths"`
	Components Components           `json:"components"           yaml:"components"`
}

type Info struct {
	Title       string `json:"title"       yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Version     string `json:"version"     yaml:"version"`
}

type PathItem struct {
	Get  *Operation `json:"get,omitempty"  yaml:"get,omitempty"`
	Post *Operation `json:"post,omitempty" yaml:"post,omitempty"`
}

type Operation struct {
	Tags        []string              `json:"tags"                  yaml:"tags"`
	Summary     string                `json:"summary"               yaml:"summary"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string                `json:"operationId"           yaml:"operationId"`
	Security    []map[string][]string `json:"security,omitempty"    yaml:"security,omitempty"`
	Parameters  []Parameter           `json:"parameters,omitempty"  yaml:"parameters,omitempty"`
	RequestBody *RequestBody          `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response   `json:"responses"             yaml:"responses"`
}

type Parameter struct {
	Name        string `json:"name"        yaml:"name"`
	In          string `json:"in"          yaml:"in"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required"    yaml:"required"`
	Schema      Schema `json:"schema"      yaml:"schema"`
}

type RequestBody struct {
	Required    bool                 `json:"required"              yaml:"required"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Content     map[string]MediaType `json:"content"               yaml:"content"`
}

type MediaType struct {
	Schema Schema `json:"schema" yaml:"schema"`
}

type Response struct {
	Description string               `json:"description"       yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type Schema struct {
	Type                 string            `json:"type,omitempty"                 yaml:"type,omitempty"`
	Format               string            `json:"format,omitempty"               yaml:"format,omitempty"`
	Description          string            `json:"description,omitempty"          yaml:"description,omitempty"`
	Properties           map[string]Schema `json:"properties,omitempty"           yaml:"properties,omitempty"`
	Items                *Schema           `json:"items,omitempty"                yaml:"items,omitempty"`
	Required             []string          `json:"required,omitempty"             yaml:"required,omitempty"`
	Enum                 []string          `json:"enum,omitempty"                 yaml:"enum,omitempty"`
	Ref                  string            `json:"$ref,omitempty"                 yaml:"$ref,omitempty"`
	AdditionalProperties *Schema           `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
	Minimum              *int              `json:"minimum,omitempty"              yaml:"minimum,omitempty"`
	Maximum              *int              `json:"maximum,omitempty"              yaml:"maximum,omitempty"`
	Default              any               `json:"default,omitempty"              yaml:"default,omitempty"`
	Example              any               `json:"example,omitempty"              yaml:"example,omitempty"`
}

type Components struct {
	Schemas         map[string]Schema         `json:"schemas"         yaml:"schemas"`
	SecuritySchemes map[string]SecurityScheme `json:"securitySchemes" yaml:"securitySchemes"`
}

type SecurityScheme struct {
	Type         string `json:"type"         yaml:"type"`
	Scheme       string `json:"scheme"       yaml:"scheme"`
	BearerFormat string `json:"bearerFormat" yaml:"bearerFormat"`
	Description  string `json:"description"  yaml:"description"`
}

// ---------------------------------------------------------------------------
// Spec builder
// ---------------------------------------------------------------------------

func buildSpec() OpenAPI {
	bearerAuth := []map[string][]string{{"BearerAuth": {}}}

	return OpenAPI{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       "PulseDash Dashboard API",
			Description: "REST API for review trend analytics and the simulated video moderation pipeline.",
			Version:     "1.0.0",
		},
		Paths: buildPaths(bearerAuth),
		Components: Components{
			Schemas:         buildSchemas(),
			SecuritySchemes: buildSecuritySchemes(),
		},
	}
}

func buildPaths(bearerAuth []map[string][]string) map[string]*PathItem {
	return map[string]*PathItem{
		"/api/v1/trends": {
			Get: &Operation{
				Tags:        []string{"Trends"},
				Summary:     "Topic trend report",
				Description: "Ranks seed topics by review counts over the trailing 31-day window ending at as_of.",
				OperationID: "getTrendReport",
				Security:    bearerAuth,
				Parameters:  []Parameter{asOfParam()},
				Responses: map[string]Response{
					"200": {
						Description: "The ranked trend report",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/TrendReportResponse"}},
						},
					},
					"400": {Description: "Invalid as_of date", Content: errContent()},
					"401": {Description: "Unauthorized - missing or invalid JWT"},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
		"/api/v1/trends/chart": {
			Get: &Operation{
				Tags:        []string{"Trends"},
				Summary:     "Per-date chart rows",
				Description: "Returns one row per window date with counts for the top-N topics, zero-filled.",
				OperationID: "getTrendChart",
				Security:    bearerAuth,
				Parameters:  []Parameter{asOfParam(), topParam()},
				Responses: map[string]Response{
					"200": {
						Description: "Chart rows, oldest date first",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{
								Type:  "array",
								Items: &Schema{Ref: "#/components/schemas/ChartRow"},
							}},
						},
					},
					"400": {Description: "Invalid as_of date or top value", Content: errContent()},
					"401": {Description: "Unauthorized"},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
		"/api/v1/dashboard/stats": {
			Get: &Operation{
				Tags:        []string{"Trends"},
				Summary:     "Dashboard stat cards",
				Description: "Aggregate counts rendered on the dashboard header.",
				OperationID: "getDashboardStats",
				Security:    bearerAuth,
				Parameters:  []Parameter{asOfParam()},
				Responses: map[string]Response{
					"200": {
						Description: "The stat card values",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/DashboardStats"}},
						},
					},
					"400": {Description: "Invalid as_of date", Content: errContent()},
					"401": {Description: "Unauthorized"},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
		"/api/v1/videos": {
			Post: &Operation{
				Tags:        []string{"Videos"},
				Summary:     "Register an upload",
				Description: "Registers a new video and starts its simulated upload immediately.",
				OperationID: "uploadVideo",
				Security:    bearerAuth,
				RequestBody: &RequestBody{
					Required:    true,
					Description: "Video metadata",
					Content: map[string]MediaType{
						"application/json": {Schema: Schema{Ref: "#/components/schemas/UploadVideoRequest"}},
					},
				},
				Responses: map[string]Response{
					"201": {
						Description: "Upload registered",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/UploadVideoResponse"}},
						},
					},
					"400": {Description: "Invalid request body or validation error", Content: errContent()},
					"401": {Description: "Unauthorized"},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
			Get: &Operation{
				Tags:        []string{"Videos"},
				Summary:     "List own videos",
				Description: "Returns the authenticated owner's videos, newest first.",
				OperationID: "listVideos",
				Security:    bearerAuth,
				Responses: map[string]Response{
					"200": {
						Description: "The owner's videos",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{
								Type:  "array",
								Items: &Schema{Ref: "#/components/schemas/Video"},
							}},
						},
					},
					"401": {Description: "Unauthorized"},
				},
			},
		},
		"/api/v1/videos/{videoID}": {
			Get: &Operation{
				Tags:        []string{"Videos"},
				Summary:     "Get a video",
				Description: "Returns the current snapshot of one video, including its pipeline state and progress.",
				OperationID: "getVideo",
				Security:    bearerAuth,
				Parameters:  []Parameter{videoIDParam()},
				Responses: map[string]Response{
					"200": {
						Description: "The video snapshot",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/Video"}},
						},
					},
					"400": {Description: "Missing video ID", Content: errContent()},
					"401": {Description: "Unauthorized"},
					"404": {Description: "Video not found", Content: errContent()},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
		"/api/v1/videos/{videoID}/stream": {
			Get: &Operation{
				Tags:        []string{"Videos"},
				Summary:     "Read a byte range",
				Description: "Serves a simulated byte range of a video. Only videos in the safe state are streamable; unknown ids and non-safe states answer 409.",
				OperationID: "streamVideo",
				Security:    bearerAuth,
				Parameters: []Parameter{
					videoIDParam(),
					{
						Name:        "start",
						In:          "query",
						Description: "Range start byte offset (default 0)",
						Schema:      Schema{Type: "integer", Format: "int64"},
					},
					{
						Name:        "end",
						In:          "query",
						Description: "Range end byte offset, inclusive (default start + one chunk, clamped to the video size)",
						Schema:      Schema{Type: "integer", Format: "int64"},
					},
				},
				Responses: map[string]Response{
					"200": {
						Description: "The requested range",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/VideoChunk"}},
						},
					},
					"400": {Description: "Missing video ID or non-integer range bound", Content: errContent()},
					"401": {Description: "Unauthorized"},
					"409": {Description: "Video not available for streaming", Content: errContent()},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func videoIDParam() Parameter {
	return Parameter{
		Name:        "videoID",
		In:          "path",
		Description: "Unique identifier of the video",
		Required:    true,
		Schema:      Schema{Type: "string"},
	}
}

func asOfParam() Parameter {
	return Parameter{
		Name:        "as_of",
		In:          "query",
		Description: "End of the reporting window as a YYYY-MM-DD date (default: today)",
		Schema:      Schema{Type: "string", Format: "date"},
	}
}

func topParam() Parameter {
	one, ten := 1, 10
	return Parameter{
		Name:        "top",
		In:          "query",
		Description: "How many top topics to chart",
		Schema:      Schema{Type: "integer", Minimum: &one, Maximum: &ten, Default: 5},
	}
}

func errContent() map[string]MediaType {
	return map[string]MediaType{
		"application/json": {Schema: Schema{Ref: "#/components/schemas/ErrorResponse"}},
	}
}

func buildSecuritySchemes() map[string]SecurityScheme {
	return map[string]SecurityScheme{
		"BearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
			Description:  "JWT token with a 'sub' claim identifying the owner.",
		},
	}
}

func buildSchemas() map[string]Schema {
	return map[string]Schema{
		"ErrorResponse": {
			Type: "object",
			Properties: map[string]Schema{
				"error": {Type: "string", Description: "Human-readable error message"},
			},
			Required: []string{"error"},
		},
		"UploadVideoRequest": {
			Type: "object",
			Properties: map[string]Schema{
				"filename": {
					Type:        "string",
					Description: "Original filename (max 255 chars)",
					Example:     "clip.mp4",
				},
				"size_bytes": {
					Type:        "integer",
					Format:      "int64",
					Description: "Declared size in bytes, must be positive",
				},
			},
			Required: []string{"filename", "size_bytes"},
		},
		"UploadVideoResponse": {
			Type: "object",
			Properties: map[string]Schema{
				"video_id": {Type: "string", Description: "Identifier of the registered video"},
			},
			Required: []string{"video_id"},
		},
		"TrendReportResponse": {
			Type:        "object",
			Description: "Ranked topic report plus the window's date columns.",
			Properties: map[string]Schema{
				"as_of":  {Type: "string", Format: "date"},
				"dates":  {Type: "array", Items: &Schema{Type: "string", Format: "date"}},
				"report": {Type: "array", Items: &Schema{Ref: "#/components/schemas/TopicTrend"}},
			},
			Required: []string{"as_of", "dates", "report"},
		},
		"TopicTrend": {
			Type:        "object",
			Description: "Per-day review counts for one topic over the window.",
			Properties: map[string]Schema{
				"topic": {Type: "string"},
				"dates": {
					Type:                 "object",
					AdditionalProperties: &Schema{Type: "integer"},
					Description:          "Review count per YYYY-MM-DD date key",
				},
				"total": {Type: "integer"},
			},
			Required: []string{"topic", "dates", "total"},
		},
		"ChartRow": {
			Type:        "object",
			Description: "One per-date chart point with counts for each charted topic.",
			Properties: map[string]Schema{
				"date": {Type: "string", Format: "date"},
				"counts": {
					Type:                 "object",
					AdditionalProperties: &Schema{Type: "integer"},
				},
			},
			Required: []string{"date", "counts"},
		},
		"DashboardStats": {
			Type: "object",
			Properties: map[string]Schema{
				"total_reviews":   {Type: "integer"},
				"top_issue_topic": {Type: "string"},
				"top_issue_count": {Type: "integer"},
				"positive_count":  {Type: "integer"},
				"issues_count":    {Type: "integer"},
			},
			Required: []string{"total_reviews", "top_issue_topic", "top_issue_count", "positive_count", "issues_count"},
		},
		"Video": {
			Type:        "object",
			Description: "A video moving through the moderation pipeline.",
			Properties: map[string]Schema{
				"id":       {Type: "string"},
				"owner_id": {Type: "string"},
				"filename": {Type: "string"},
				"state": {
					Type: "string",
					Enum: []string{"uploading", "processing", "safe", "flagged"},
				},
				"progress":         {Type: "number", Description: "Upload progress percentage [0, 100]"},
				"uploaded_at":      {Type: "string", Format: "date-time"},
				"processed_at":     {Type: "string", Format: "date-time"},
				"duration_seconds": {Type: "integer"},
				"size_bytes":       {Type: "integer", Format: "int64"},
			},
			Required: []string{"id", "owner_id", "filename", "state", "progress", "uploaded_at"},
		},
		"VideoChunk": {
			Type:        "object",
			Description: "The result of a range read against a safe video.",
			Properties: map[string]Schema{
				"chunk":      {Type: "string", Description: "Placeholder identifying the served span"},
				"total_size": {Type: "integer", Format: "int64"},
				"start":      {Type: "integer", Format: "int64"},
				"end":        {Type: "integer", Format: "int64"},
			},
			Required: []string{"chunk", "total_size", "start", "end"},
		},
	}
}

// ---------------------------------------------------------------------------
// File writers
// ---------------------------------------------------------------------------

func writeJSON(spec OpenAPI, path string) error {
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

func writeYAML(spec OpenAPI, path string) error {
	data, err := yaml.Marshal(spec)
	if err != nil {
		return fmt.Errorf("marshal YAML: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func main() {
	_, src, _, _ := runtime.Caller(0)
	outDir := filepath.Join(filepath.Join(filepath.Dir(src), "..", ".."), "api")

	if err := os.MkdirAll(outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create api/ directory: %v\n", err)
		os.Exit(1)
	}

	spec := buildSpec()

	jsonPath := filepath.Join(outDir, "swagger.json")
	if err := writeJSON(spec, jsonPath); err != nil {
		fmt.Fprintf(os.Stderr, "error writing JSON: %v\n", err)
		os.Exit(1)
	}

	yamlPath := filepath.Join(outDir, "swagger.yaml")
	if err := writeYAML(spec, yamlPath); err != nil {
		fmt.Fprintf(os.Stderr, "error writing YAML: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Swagger specs generated:\n  %s\n  %s\n", jsonPath, yamlPath)
}
