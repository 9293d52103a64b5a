package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Exam Scheduler API",
        "description": "Exam conflict detection and surveillant assignment",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Invigilation", "description": "Conflict checks and surveillant assignment"},
        {"name": "Rosters", "description": "Asynchronous surveillant roster exports"},
        {"name": "Ops", "description": "Health and metrics"}
    ],
    "paths": {
        "/exams/conflicts": {
            "post": {
                "tags": ["Invigilation"],
                "summary": "Detect conflicts for a candidate exam window",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConflictCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/surveillants/available": {
            "get": {
                "tags": ["Invigilation"],
                "summary": "List teachers free to invigilate a window",
                "description": "Lists teachers with no overlapping invigilation. Auto-assign draws from a narrower pool: it also skips the responsible teacher of the exam and of every overlapping exam.",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "required": true},
                    {"name": "startTime", "in": "query", "type": "string", "required": true},
                    {"name": "duration", "in": "query", "type": "integer", "required": true},
                    {"name": "excludeExamId", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exams/{id}/invigilation": {
            "get": {
                "tags": ["Invigilation"],
                "summary": "Invigilation status of an exam",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Exam not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exams/{id}/surveillants/auto-assign": {
            "post": {
                "tags": ["Invigilation"],
                "summary": "Auto-assign free surveillants to an exam",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/AutoAssignRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Exam cancelled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No available surveillants", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exams/{id}/surveillants": {
            "put": {
                "tags": ["Invigilation"],
                "summary": "Replace the surveillants of an exam",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ManualAssignRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exams/surveillants/auto-assign": {
            "post": {
                "tags": ["Invigilation"],
                "summary": "Auto-assign surveillants to every exam that still lacks them",
                "parameters": [
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/AutoAssignAllRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/workload": {
            "get": {
                "tags": ["Invigilation"],
                "summary": "Surveillance workload per teacher",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rosters": {
            "post": {
                "tags": ["Rosters"],
                "summary": "Queue a surveillant roster export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RosterExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rosters/{id}": {
            "get": {
                "tags": ["Rosters"],
                "summary": "Roster job status",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Job not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rosters/download/{token}": {
            "get": {
                "tags": ["Rosters"],
                "summary": "Download a generated roster",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "token", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Roster file"},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ConflictCheckRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2025-01-15"},
                "startTime": {"type": "string", "example": "09:00"},
                "duration": {"type": "integer"},
                "moduleId": {"type": "integer"},
                "roomIds": {"type": "array", "items": {"type": "integer"}},
                "surveillantIds": {"type": "array", "items": {"type": "integer"}},
                "excludeExamId": {"type": "integer"}
            },
            "required": ["date", "startTime", "duration"]
        },
        "AutoAssignRequest": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"}
            }
        },
        "AutoAssignAllRequest": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "dateFrom": {"type": "string"},
                "dateTo": {"type": "string"}
            }
        },
        "ManualAssignRequest": {
            "type": "object",
            "properties": {
                "surveillantIds": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "RosterExportRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "dateFrom": {"type": "string"},
                "dateTo": {"type": "string"},
                "teacherId": {"type": "integer"}
            },
            "required": ["format"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
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
