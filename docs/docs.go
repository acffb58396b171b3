// Package docs registers the OpenAPI document served by the swagger UI.
// Regenerate with `swag init -g cmd/nlpd/docs.go -o docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {"get": {"produces": ["text/plain"], "tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "ok"}}}},
        "/readyz": {"get": {"produces": ["text/plain"], "tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "ready"}, "503": {"description": "loading"}}}},
        "/models": {"get": {"produces": ["application/json"], "tags": ["models"], "summary": "List GGUF models and kind assignments", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ModelsResponse"}}}}},
        "/status": {"get": {"produces": ["application/json"], "tags": ["status"], "summary": "Worker status", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}}}},
        "/v1/sentiment": {"post": {
            "consumes": ["application/json"], "produces": ["application/json"], "tags": ["inference"], "summary": "Classify sentiment",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.TextsRequest"}}],
            "responses": {
                "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SentimentResponse"}},
                "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
            }}},
        "/v1/summarize": {"post": {
            "consumes": ["application/json"], "produces": ["application/json"], "tags": ["inference"], "summary": "Summarize texts",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.TextsRequest"}}],
            "responses": {
                "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SummarizeResponse"}},
                "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
            }}},
        "/v1/answer": {"post": {
            "consumes": ["application/json"], "produces": ["application/json"], "tags": ["inference"], "summary": "Answer a question from a context",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.AnswerRequest"}}],
            "responses": {
                "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.AnswerResponse"}},
                "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
            }}},
        "/v1/keywords": {"post": {
            "consumes": ["application/json"], "produces": ["application/json"], "tags": ["inference"], "summary": "Extract keywords",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/types.TextsRequest"}}],
            "responses": {
                "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.KeywordsResponse"}},
                "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
            }}},
        "/v1/requests": {"get": {
            "produces": ["application/json"], "tags": ["history"], "summary": "Recent model calls",
            "parameters": [{"in": "query", "name": "kind", "type": "string"}, {"in": "query", "name": "limit", "type": "integer"}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.RequestsResponse"}}}}},
        "/v1/analyses": {"get": {
            "produces": ["application/json"], "tags": ["history"], "summary": "Stored analysis reports",
            "parameters": [{"in": "query", "name": "query", "type": "string"}, {"in": "query", "name": "limit", "type": "integer"}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.AnalysesResponse"}}}}},
        "/v1/analyses/{id}": {"get": {
            "produces": ["application/json"], "tags": ["history"], "summary": "One analysis report",
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
            "responses": {
                "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Report"}},
                "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
            }}}
    },
    "definitions": {
        "types.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}, "code": {"type": "integer"}}},
        "types.Model": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "path": {"type": "string"}, "quant": {"type": "string"}}},
        "types.ModelsResponse": {"type": "object", "properties": {
            "backend": {"type": "string"},
            "assigned": {"type": "object", "additionalProperties": {"type": "string"}},
            "models": {"type": "array", "items": {"$ref": "#/definitions/types.Model"}}}},
        "types.WorkerStatus": {"type": "object", "properties": {
            "kind": {"type": "string"}, "state": {"type": "string"}, "queue_len": {"type": "integer"}, "queue_cap": {"type": "integer"},
            "inflight": {"type": "integer"}, "served": {"type": "integer"}, "failed": {"type": "integer"}, "abandoned": {"type": "integer"},
            "last_error": {"type": "string"}}},
        "types.StatusResponse": {"type": "object", "properties": {
            "state": {"type": "string"}, "backend": {"type": "string"},
            "workers": {"type": "array", "items": {"$ref": "#/definitions/types.WorkerStatus"}},
            "last_error": {"type": "string"}, "uptime_seconds": {"type": "integer"}, "server_time_unix": {"type": "integer"}}},
        "types.TextsRequest": {"type": "object", "properties": {"texts": {"type": "array", "items": {"type": "string"}}}},
        "classifier.Sentiment": {"type": "object", "properties": {"label": {"type": "string"}, "score": {"type": "number"}}},
        "classifier.Answer": {"type": "object", "properties": {"answer": {"type": "string"}, "score": {"type": "number"}, "start": {"type": "integer"}, "end": {"type": "integer"}}},
        "classifier.Keyword": {"type": "object", "properties": {"text": {"type": "string"}, "score": {"type": "number"}}},
        "types.SentimentResponse": {"type": "object", "properties": {"id": {"type": "string"}, "results": {"type": "array", "items": {"$ref": "#/definitions/classifier.Sentiment"}}}},
        "types.SummarizeResponse": {"type": "object", "properties": {"id": {"type": "string"}, "summaries": {"type": "array", "items": {"type": "string"}}}},
        "types.AnswerRequest": {"type": "object", "properties": {"question": {"type": "string"}, "context": {"type": "string"}, "top_k": {"type": "integer"}}},
        "types.AnswerResponse": {"type": "object", "properties": {"id": {"type": "string"}, "answers": {"type": "array", "items": {"$ref": "#/definitions/classifier.Answer"}}}},
        "types.KeywordsResponse": {"type": "object", "properties": {"id": {"type": "string"}, "keywords": {"type": "array", "items": {"type": "array", "items": {"$ref": "#/definitions/classifier.Keyword"}}}}},
        "types.RequestRecord": {"type": "object", "properties": {
            "id": {"type": "string"}, "kind": {"type": "string"}, "inputs": {"type": "integer"}, "duration_ms": {"type": "integer"},
            "outcome": {"type": "string"}, "error": {"type": "string"}, "created_at": {"type": "string"}}},
        "types.RequestsResponse": {"type": "object", "properties": {"requests": {"type": "array", "items": {"$ref": "#/definitions/types.RequestRecord"}}}},
        "types.CommentSentiment": {"type": "object", "properties": {"text": {"type": "string"}, "label": {"type": "string"}, "score": {"type": "number"}}},
        "types.Report": {"type": "object", "properties": {
            "id": {"type": "string"}, "query": {"type": "string"}, "video_id": {"type": "string"}, "title": {"type": "string"},
            "channel": {"type": "string"}, "published_at": {"type": "string"}, "question": {"type": "string"}, "answer": {"type": "string"},
            "answer_score": {"type": "number"}, "summary": {"type": "string"},
            "transcript_keywords": {"type": "array", "items": {"$ref": "#/definitions/classifier.Keyword"}},
            "comment_keywords": {"type": "array", "items": {"$ref": "#/definitions/classifier.Keyword"}},
            "comments": {"type": "array", "items": {"$ref": "#/definitions/types.CommentSentiment"}},
            "positive": {"type": "integer"}, "negative": {"type": "integer"}, "created_at": {"type": "string"}}},
        "types.AnalysesResponse": {"type": "object", "properties": {"analyses": {"type": "array", "items": {"$ref": "#/definitions/types.Report"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "nlpd API",
	Description:      "Text analysis models served by dedicated worker threads.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
