// Package docs holds the OpenAPI document built from the handler annotations.
// Regenerate with `swag init` after changing any @Router block.
package docs

import "github.com/swaggo/swag/v2"

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
        "/register": {
            "post": {
                "description": "Creates a user account. Setting admin creates the single administrator account.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Identity", "Authentication"],
                "summary": "Register user",
                "parameters": [
                    {"description": "Register payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/inbound.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "User registered successfully", "schema": {"allOf": [{"$ref": "#/definitions/router.successResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/inbound.RegisterResponse"}}}]}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "409": {"description": "Username or email already taken, or admin already exists", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "422": {"description": "Validation error", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "description": "Validates credentials and returns a JWT access token carrying the user role.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Identity", "Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"description": "Login payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/inbound.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Authentication result", "schema": {"allOf": [{"$ref": "#/definitions/router.successResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/inbound.LoginResponse"}}}]}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "422": {"description": "Validation error", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the identity and role of the token owner.",
                "produces": ["application/json"],
                "tags": ["Identity", "Profile"],
                "summary": "Get current user",
                "responses": {
                    "200": {"description": "Current user", "schema": {"allOf": [{"$ref": "#/definitions/router.successResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/inbound.ProfileResponse"}}}]}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        },
        "/admin/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns all users with the USER role.",
                "produces": ["application/json"],
                "tags": ["Identity", "Admin"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "User list", "schema": {"allOf": [{"$ref": "#/definitions/router.successResponse"}, {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/inbound.User"}}}}]}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        },
        "/admin/users/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Deletes a user and every OTP code issued to them. The admin account cannot be deleted.",
                "tags": ["Identity", "Admin"],
                "summary": "Delete user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Invalid path parameter", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        },
        "/otp/generate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates a one-time code for the caller and operation and sends it over the configured delivery channel. The code itself is never returned.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["OTP"],
                "summary": "Generate OTP code",
                "parameters": [
                    {"description": "Generate payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/inbound.GenerateRequest"}}
                ],
                "responses": {
                    "201": {"description": "OTP code has been sent", "schema": {"allOf": [{"$ref": "#/definitions/router.successResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/inbound.GenerateResponse"}}}]}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "409": {"description": "An active OTP code already exists for this operation", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "422": {"description": "Validation error", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "502": {"description": "Failed to deliver OTP code", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        },
        "/otp/validate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Consumes the active code of the caller for an operation. A code can be validated only once.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["OTP"],
                "summary": "Validate OTP code",
                "parameters": [
                    {"description": "Validate payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/inbound.ValidateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OTP code is valid", "schema": {"allOf": [{"$ref": "#/definitions/router.successResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/inbound.ValidateResponse"}}}]}},
                    "400": {"description": "Invalid or expired OTP code", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "422": {"description": "Validation error", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        },
        "/admin/otp-config": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the code length, TTL and delivery channel used for new codes.",
                "produces": ["application/json"],
                "tags": ["OTP", "Admin"],
                "summary": "Get OTP config",
                "responses": {
                    "200": {"description": "OTP config", "schema": {"allOf": [{"$ref": "#/definitions/router.successResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/inbound.ConfigResponse"}}}]}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Sets the code length (4-12) and TTL in seconds (60-86400) for codes generated from now on.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["OTP", "Admin"],
                "summary": "Update OTP config",
                "parameters": [
                    {"description": "Config payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/inbound.ConfigRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated OTP config", "schema": {"allOf": [{"$ref": "#/definitions/router.successResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/inbound.ConfigResponse"}}}]}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "422": {"description": "Validation error", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        },
        "/admin/otp-events": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns generated, validated, expired and delivery_failed events, newest first.",
                "produces": ["application/json"],
                "tags": ["Audit", "Admin"],
                "summary": "List OTP lifecycle events",
                "parameters": [
                    {"type": "integer", "description": "Filter by user ID", "name": "user_id", "in": "query"},
                    {"type": "integer", "description": "Pagination page", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Pagination size (max 100)", "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Event list", "schema": {"allOf": [{"$ref": "#/definitions/router.successResponse"}, {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/inbound.Event"}}}}]}},
                    "400": {"description": "Invalid query parameters", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "inbound.ConfigRequest": {
            "type": "object",
            "properties": {
                "code_length": {"type": "integer"},
                "ttl_seconds": {"type": "integer"}
            }
        },
        "inbound.ConfigResponse": {
            "type": "object",
            "properties": {
                "code_length": {"type": "integer"},
                "delivery_channel": {"type": "string"},
                "ttl_seconds": {"type": "integer"}
            }
        },
        "inbound.Event": {
            "type": "object",
            "properties": {
                "event_id": {"type": "string"},
                "id": {"type": "string"},
                "metadata": {"type": "object"},
                "occurred_at": {"type": "string"},
                "operation_id": {"type": "string"},
                "otp_id": {"type": "string"},
                "recorded_at": {"type": "string"},
                "type": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "inbound.GenerateRequest": {
            "type": "object",
            "properties": {
                "operation_id": {"type": "string"}
            }
        },
        "inbound.GenerateResponse": {
            "type": "object",
            "properties": {
                "channel": {"type": "string"},
                "expires_at": {"type": "string"},
                "id": {"type": "string"}
            }
        },
        "inbound.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "inbound.LoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"}
            }
        },
        "inbound.ProfileResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "string"},
                "role": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "inbound.RegisterRequest": {
            "type": "object",
            "properties": {
                "admin": {"type": "boolean"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "phone": {"type": "string"},
                "telegram_chat_id": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "inbound.RegisterResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "inbound.User": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "phone": {"type": "string"},
                "telegram_chat_id": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "inbound.ValidateRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "operation_id": {"type": "string"}
            }
        },
        "inbound.ValidateResponse": {
            "type": "object",
            "properties": {
                "valid": {"type": "boolean"}
            }
        },
        "router.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "object", "additionalProperties": {"type": "string"}},
                "message": {"type": "string", "example": "example string message"}
            }
        },
        "router.successResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "message": {"type": "string", "example": "example string message"},
                "meta": {"type": "object"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT.",
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
	Title:            "otpgate API",
	Description:      "otpgate issues, delivers and validates one-time passwords.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
