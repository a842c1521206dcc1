package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Advisor Scheduling API",
        "description": "Builds conflict-free term schedules from outstanding degree requirements and student preferences.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Schedules", "description": "Schedule builds, history and exports"},
        {"name": "Preferences", "description": "Stored scheduling preferences per student"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check against postgres and redis",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/api/v1/students/{id}/schedules": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Build a term schedule for a student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BuildScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Built schedule", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing term", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "No requirement data for the student", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Requirement source or section catalog failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Schedules"],
                "summary": "List stored schedules of a student, newest first",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "term", "in": "query", "required": false, "type": "string"}
                ],
                "responses": {"200": {"description": "Schedules", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/me/schedules": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Build a term schedule for the authenticated student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BuildScheduleRequest"}}
                ],
                "responses": {"201": {"description": "Built schedule", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/schedules/{scheduleId}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get a stored schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "scheduleId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Schedule", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules/{scheduleId}/export": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Download a stored schedule as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "scheduleId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "required": false, "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "Export file", "schema": {"type": "file"}}}
            }
        },
        "/api/v1/students/{id}/preferences": {
            "get": {
                "tags": ["Preferences"],
                "summary": "Get scheduling preferences and their parsed rules",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "Preferences", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Preferences"],
                "summary": "Replace scheduling preferences",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePreferencesRequest"}}
                ],
                "responses": {"200": {"description": "Preferences", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "BuildScheduleRequest": {
            "type": "object",
            "required": ["term"],
            "properties": {
                "term": {"type": "string", "example": "Fall 2025"}
            }
        },
        "UpdatePreferencesRequest": {
            "type": "object",
            "properties": {
                "schedule_preferences": {"type": "array", "items": {"type": "string"}},
                "extracurriculars": {"type": "array", "items": {"type": "string"}},
                "ideal_min_credits": {"type": "integer"},
                "ideal_max_credits": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
