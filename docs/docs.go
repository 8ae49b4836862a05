// Package docs swagger 文档，路由注释变更后用 swag init -g cmd/market/main.go 重新生成
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
        "/healthz": {
            "get": {
                "tags": ["system"],
                "summary": "健康检查",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/api/v1/users": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "注册用户（含地址）",
                "parameters": [
                    {"description": "user and address drafts", "name": "body", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/server.CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/server.CreateUserResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/api/v1/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "用户详情（含地址），只能查看自己",
                "parameters": [
                    {"type": "string", "description": "user id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/api/v1/validate/{kind}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["validation"],
                "summary": "按字段类别校验单个值",
                "parameters": [
                    {"type": "string", "description": "field kind, e.g. email", "name": "kind", "in": "path", "required": true},
                    {"description": "raw value", "name": "body", "in": "body", "required": true,
                     "schema": {"$ref": "#/definitions/server.ValidateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.ValidateResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/api/v1/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["vehicles"],
                "summary": "车辆类别",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/ads": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ads"],
                "summary": "在售广告列表，新发布的在前",
                "parameters": [
                    {"type": "integer", "description": "page size (max 100)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "offset", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ads"],
                "summary": "发布广告，user_id 取自令牌",
                "parameters": [
                    {"description": "vehicle ad draft", "name": "body", "in": "body", "required": true,
                     "schema": {"type": "object", "additionalProperties": true}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/api/v1/ads/{id}": {
            "get": {
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "tags": ["ads"],
                "summary": "广告详情，已下架、成交或隐藏的广告只有卖家可见",
                "parameters": [
                    {"type": "string", "description": "advertisement id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        },
        "/api/v1/ads/{id}/sale": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["ads"],
                "summary": "以当前用户为买家成交",
                "parameters": [
                    {"type": "string", "description": "advertisement id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/server.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/server.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "server.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "request_id": {"type": "string"},
                "report": {"type": "object"}
            }
        },
        "server.CreateUserRequest": {
            "type": "object",
            "properties": {
                "user": {"type": "object", "additionalProperties": true},
                "address": {"type": "object", "additionalProperties": true}
            }
        },
        "server.CreateUserResponse": {
            "type": "object",
            "properties": {
                "user": {"type": "object"},
                "token": {"type": "string"}
            }
        },
        "server.ValidateRequest": {
            "type": "object",
            "properties": {"value": {}}
        },
        "server.ValidateResponse": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "valid": {"type": "boolean"},
                "value": {},
                "reasons": {"type": "array", "items": {"type": "object"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo 运行时可覆盖 Host 等字段
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Vehicle Market API",
	Description:      "Registration, vehicle advertisements and sales with field-level validation reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
