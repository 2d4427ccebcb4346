// Package docs registers the OpenAPI descriptor served on /swagger/*any.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign up",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/auth/sign-in": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {
                    "200": {"description": "token", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/analyses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Newest first.",
                "produces": ["application/json"],
                "tags": ["analyses"],
                "summary": "List analysis runs",
                "parameters": [
                    {"enum": ["PENDING", "RUNNING", "COMPLETED", "FAILED"], "type": "string", "description": "Run status", "name": "status", "in": "query"},
                    {"type": "integer", "description": "Maximum number of runs (default 100, max 500)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, runs", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stores the request as a PENDING run; the background runner executes it.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analyses"],
                "summary": "Queue an analysis",
                "parameters": [{"description": "Analysis request", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.AnalysisRequest"}}],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/models.Run"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/analyses/evaluate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analyses"],
                "summary": "Run an analysis synchronously",
                "parameters": [{"description": "Analysis request", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.AnalysisRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Report"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/analyses/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["analyses"],
                "summary": "Get an analysis run",
                "parameters": [{"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Run"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Filter run events by run, type and date. A date-only 'to' is inclusive to the end of that day.",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List run logs",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "name": "to", "in": "query"},
                    {"enum": ["QUEUED", "STARTED", "COMPLETED", "FAILED"], "type": "string", "name": "type", "in": "query"},
                    {"type": "string", "name": "run_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        },
        "/api/v1/climates": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["climates"],
                "summary": "List climate zones",
                "responses": {"200": {"description": "zones, periods", "schema": {"type": "object"}}}
            }
        },
        "/ws": {
            "get": {
                "description": "Pushes {\"type\":\"run\",\"data\":Run} until the run is COMPLETED or FAILED, then closes.",
                "tags": ["analyses"],
                "summary": "Follow a run",
                "parameters": [
                    {"type": "string", "name": "run_id", "in": "query", "required": true},
                    {"type": "string", "name": "interval", "in": "query"},
                    {"type": "integer", "name": "interval_ms", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.authCredentials": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string", "example": "s3cr3t"},
                "username": {"type": "string", "example": "engineer"}
            }
        },
        "handlers.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "models.AnalysisRequest": {
            "type": "object",
            "properties": {
                "climate": {
                    "type": "object",
                    "properties": {
                        "zone": {"type": "string", "example": "2A"},
                        "period": {"type": "string", "example": "present"},
                        "file": {"type": "string"}
                    }
                },
                "samples": {
                    "type": "array",
                    "items": {"type": "object", "properties": {"t_dry": {"type": "number"}, "w": {"type": "number"}}}
                },
                "components": {
                    "type": "array",
                    "items": {"type": "object", "properties": {"type": {"type": "string", "example": "DEC"}, "efficiency": {"type": "number", "example": 0.85}}}
                },
                "parameters": {
                    "type": "object",
                    "properties": {
                        "t_su_min": {"type": "number"},
                        "t_su_max": {"type": "number"},
                        "t_reg": {"type": "number"},
                        "t_in": {"type": "number"},
                        "rh_in": {"type": "number"},
                        "w_in": {"type": "number"},
                        "t_wb_in": {"type": "number"}
                    }
                },
                "humidification": {"type": "boolean"},
                "comfort_threshold": {"type": "number", "example": 0.98},
                "include_hours": {"type": "boolean"}
            }
        },
        "models.Report": {
            "type": "object",
            "properties": {
                "location": {"type": "string"},
                "hours": {"type": "integer"},
                "humidification": {"type": "boolean"},
                "components": {"type": "array", "items": {"type": "object"}},
                "parameters": {"type": "object"},
                "notes": {"type": "array", "items": {"type": "string"}},
                "zones": {"type": "array", "items": {"type": "object"}},
                "boundaries": {"type": "array", "items": {"type": "object"}},
                "recommendation": {"type": "object"}
            }
        },
        "models.Run": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "status": {"type": "string", "enum": ["PENDING", "RUNNING", "COMPLETED", "FAILED"]},
                "request": {"$ref": "#/definitions/models.AnalysisRequest"},
                "report": {"$ref": "#/definitions/models.Report"},
                "error": {"type": "string"},
                "created_by": {"type": "integer"},
                "created_at": {"type": "string"},
                "started_at": {"type": "string"},
                "finished_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Feasibility Analysis API",
	Description:      "Classifies hourly climate data into evaporative and desiccant cooling modes and recommends a component set.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
