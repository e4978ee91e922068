package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Army Personnel API",
        "description": "Personnel registry, weekly points ledger and promotions for a role-play army unit.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "Session": {"type": "apiKey", "in": "header", "name": "Authorization"}
    },
    "tags": [
        {"name": "Setup", "description": "First admin bootstrap"},
        {"name": "Authentication", "description": "Admin sessions"},
        {"name": "Personnel", "description": "Member registry"},
        {"name": "Points", "description": "Weekly points ledger"},
        {"name": "Promotions", "description": "Rank changes"},
        {"name": "Reference", "description": "Ranks and special positions"},
        {"name": "Dashboard", "description": "Roster summaries"}
    ],
    "paths": {
        "/setup": {
            "post": {
                "tags": ["Setup"],
                "summary": "Create the first admin",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetupRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already initialized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate admin",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "security": [{"Session": []}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/user": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current admin",
                "security": [{"Session": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/personnel": {
            "get": {
                "tags": ["Personnel"],
                "summary": "List personnel",
                "security": [{"Session": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "rankId", "in": "query", "type": "integer"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Personnel"],
                "summary": "Add personnel",
                "security": [{"Session": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePersonnelRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Army ID taken", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/personnel/eligible": {
            "get": {
                "tags": ["Personnel"],
                "summary": "Personnel ready for promotion",
                "security": [{"Session": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/personnel/export": {
            "get": {
                "tags": ["Personnel"],
                "summary": "Export the roster",
                "security": [{"Session": []}],
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/personnel/army/{armyId}": {
            "get": {
                "tags": ["Personnel"],
                "summary": "Get personnel by army id",
                "security": [{"Session": []}],
                "parameters": [{"name": "armyId", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/personnel/{id}": {
            "get": {
                "tags": ["Personnel"],
                "summary": "Get personnel detail",
                "security": [{"Session": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "patch": {
                "tags": ["Personnel"],
                "summary": "Update personnel",
                "security": [{"Session": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePersonnelRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Personnel"],
                "summary": "Deactivate personnel",
                "security": [{"Session": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/point-entries": {
            "get": {
                "tags": ["Points"],
                "summary": "List point entries",
                "security": [{"Session": []}],
                "parameters": [
                    {"name": "personnelId", "in": "query", "type": "integer"},
                    {"name": "weekStart", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Points"],
                "summary": "Record weekly points",
                "security": [{"Session": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePointEntryRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error or duplicate week", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/point-entries/export": {
            "get": {
                "tags": ["Points"],
                "summary": "Export the points ledger",
                "security": [{"Session": []}],
                "parameters": [
                    {"name": "personnelId", "in": "query", "type": "integer"},
                    {"name": "weekStart", "in": "query", "type": "string", "format": "date"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/promotions": {
            "get": {
                "tags": ["Promotions"],
                "summary": "List promotions",
                "security": [{"Session": []}],
                "parameters": [{"name": "personnelId", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Promotions"],
                "summary": "Promote a member",
                "security": [{"Session": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePromotionRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/ranks": {
            "get": {
                "tags": ["Reference"],
                "summary": "List ranks",
                "security": [{"Session": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/ranks/{id}": {
            "get": {
                "tags": ["Reference"],
                "summary": "Get rank",
                "security": [{"Session": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/special-positions": {
            "get": {
                "tags": ["Reference"],
                "summary": "List special positions",
                "security": [{"Session": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/dashboard/stats": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Roster summary",
                "security": [{"Session": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/dashboard/rank-distribution": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Members per rank",
                "security": [{"Session": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "SetupRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreatePersonnelRequest": {
            "type": "object",
            "required": ["armyId", "firstName", "lastName", "currentRankId"],
            "properties": {
                "armyId": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "currentRankId": {"type": "integer"},
                "specialPositionId": {"type": "integer"},
                "joinDate": {"type": "string", "format": "date"}
            }
        },
        "UpdatePersonnelRequest": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "specialPositionId": {"type": "integer", "x-nullable": true},
                "isActive": {"type": "boolean"}
            }
        },
        "CreatePointEntryRequest": {
            "type": "object",
            "required": ["personnelId", "weekStart", "activityPoints"],
            "properties": {
                "personnelId": {"type": "integer"},
                "weekStart": {"type": "string", "format": "date"},
                "activityPoints": {"type": "integer", "minimum": 0, "maximum": 35},
                "notes": {"type": "string"}
            }
        },
        "CreatePromotionRequest": {
            "type": "object",
            "required": ["personnelId", "toRankId"],
            "properties": {
                "personnelId": {"type": "integer"},
                "toRankId": {"type": "integer"},
                "notes": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "array", "items": {"type": "object"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "message": {"type": "string"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
