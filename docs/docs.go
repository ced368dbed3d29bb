// Package docs registers the OpenAPI document served at /swagger.
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
        "/auth/login": {
            "post": {
                "description": "Verifies the Mini App init data, creates or refreshes the user and applies a referral from start_param on first login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login with Telegram init data",
                "parameters": [
                    {"description": "Init data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/LoginResult"}}}]}},
                    "400": {"description": "MISSING_INIT_DATA or PARSE_ERROR", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "INVALID_SIGNATURE", "schema": {"$ref": "#/definitions/Envelope"}},
                    "500": {"description": "DATABASE_ERROR or INTERNAL_ERROR", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user profile",
                "responses": {
                    "501": {"description": "NOT_IMPLEMENTED", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/referrals": {
            "get": {
                "description": "Users whose referrer is telegram_id, newest first",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "List referred users",
                "parameters": [
                    {"type": "integer", "description": "Telegram user id", "name": "telegram_id", "in": "query", "required": true},
                    {"type": "integer", "description": "Page size (default 100, max 1000)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"},
                    {"type": "string", "description": "tma <initData>", "name": "Authorization", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/Envelope"}, {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/User"}}}}]}},
                    "400": {"description": "MISSING_TELEGRAM_ID", "schema": {"$ref": "#/definitions/Envelope"}},
                    "403": {"description": "FORBIDDEN", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/wallet/connect": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Connect a TON wallet",
                "parameters": [
                    {"description": "Wallet", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WalletConnectRequest"}},
                    {"type": "string", "description": "tma <initData>", "name": "Authorization", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/User"}}}]}},
                    "400": {"description": "MISSING_TELEGRAM_ID, MISSING_WALLET_DATA or WALLET_CONNECT_FAILED", "schema": {"$ref": "#/definitions/Envelope"}},
                    "403": {"description": "FORBIDDEN", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/wallet/disconnect": {
            "post": {
                "description": "Idempotent: disconnecting without a wallet succeeds",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["wallet"],
                "summary": "Disconnect the TON wallet",
                "parameters": [
                    {"description": "User", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WalletDisconnectRequest"}},
                    {"type": "string", "description": "tma <initData>", "name": "Authorization", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/User"}}}]}},
                    "400": {"description": "MISSING_TELEGRAM_ID or WALLET_DISCONNECT_FAILED", "schema": {"$ref": "#/definitions/Envelope"}},
                    "403": {"description": "FORBIDDEN", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {"200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/HealthStatus"}}}]}}}
            }
        },
        "/health/ready": {
            "get": {
                "description": "Pings Postgres and Redis when they are configured",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/HealthStatus"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/HealthStatus"}}
                }
            }
        },
        "/health/live": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "INVALID_SIGNATURE"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/AppError"},
                "timestamp": {"type": "integer", "example": 1700000000000},
                "request_id": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {"initData": {"type": "string"}}
        },
        "LoginResult": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/User"},
                "isNewUser": {"type": "boolean"},
                "referralApplied": {"type": "boolean"},
                "degraded": {"type": "boolean"}
            }
        },
        "WalletConnectRequest": {
            "type": "object",
            "properties": {
                "telegram_id": {"type": "integer", "example": 123456789},
                "wallet": {
                    "type": "object",
                    "properties": {
                        "address": {"type": "string", "example": "0:83dfd552e63729b472fcbcc8c45ebcc6691702558b68ec7527e1ba403a0f31a8"},
                        "addressFriendly": {"type": "string"},
                        "chain": {"type": "string", "example": "-239"},
                        "appName": {"type": "string"}
                    }
                }
            }
        },
        "WalletDisconnectRequest": {
            "type": "object",
            "properties": {"telegram_id": {"type": "integer", "example": 123456789}}
        },
        "HealthStatus": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "timestamp": {"type": "string"},
                "version": {"type": "string"},
                "uptime": {"type": "string"},
                "checks": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "User": {
            "type": "object",
            "properties": {
                "telegram_id": {"type": "integer", "example": 123456789},
                "username": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "language_code": {"type": "string", "example": "en"},
                "is_premium": {"type": "boolean"},
                "photo_url": {"type": "string"},
                "role": {"type": "string", "enum": ["user", "admin"]},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "last_login": {"type": "string"},
                "referrer_id": {"type": "integer"},
                "referral_code": {"type": "string", "example": "r8d3d17b1e6b8ed5"},
                "wallet_address": {"type": "string"},
                "wallet_address_friendly": {"type": "string"},
                "wallet_chain": {"type": "integer", "example": -239},
                "wallet_app_name": {"type": "string"},
                "wallet_connected_at": {"type": "string"},
                "wallet_connected": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "TMA Backend API",
	Description:      "Telegram Mini App authentication, referrals and TON wallet linking.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
