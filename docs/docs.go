// Package docs registers the lightd OpenAPI document with swag.
// Regenerate with `swag init -g cmd/lightd/docs.go -o docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "lightd maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/slots": {
            "get": {
                "produces": ["application/json"],
                "tags": ["slots"],
                "summary": "List slots",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SlotsResponse"}}
                }
            },
            "post": {
                "produces": ["application/json"],
                "tags": ["slots"],
                "summary": "Add a slot",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.SlotsResponse"}}
                }
            }
        },
        "/slots/{index}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["slots"],
                "summary": "Remove a slot",
                "parameters": [
                    {"type": "integer", "description": "slot index", "name": "index", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SlotsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/slots/{index}/activate": {
            "post": {
                "produces": ["application/json"],
                "tags": ["slots"],
                "summary": "Switch the active slot",
                "parameters": [
                    {"type": "integer", "description": "slot index", "name": "index", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SlotsResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/fields": {
            "get": {
                "produces": ["application/json"],
                "tags": ["fields"],
                "summary": "Read the live fields",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.FieldsResponse"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["fields"],
                "summary": "Edit live fields",
                "parameters": [
                    {"description": "field values by key", "name": "fields", "in": "body", "required": true, "schema": {"type": "object", "additionalProperties": true}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.FieldsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/document": {
            "get": {
                "produces": ["application/json"],
                "tags": ["document"],
                "summary": "Serialize the slot store",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Document"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["document"],
                "summary": "Restore the slot store",
                "description": "A document without slots leaves the store unchanged. Every slot needs a positive intensity and a #RRGGBB color.",
                "parameters": [
                    {"description": "saved document", "name": "document", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.Document"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SlotsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/prompts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["prompts"],
                "summary": "Relighting prompts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PromptsResponse"}}
                }
            }
        },
        "/image": {
            "post": {
                "consumes": ["image/png", "image/jpeg", "image/gif"],
                "produces": ["application/json"],
                "tags": ["surface"],
                "summary": "Deliver a rendered image",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/types.SurfaceStatus"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/geometry": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["surface"],
                "summary": "Report a container size change",
                "parameters": [
                    {"description": "container size", "name": "size", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.GeometryRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted"},
                    "204": {"description": "Suppressed"}
                }
            }
        },
        "/surface": {
            "get": {
                "produces": ["application/json"],
                "tags": ["surface"],
                "summary": "Surface handshake status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SurfaceStatus"}}
                }
            }
        }
    },
    "definitions": {
        "types.ParameterRecord": {
            "type": "object",
            "properties": {
                "azimuth": {"type": "number", "example": 90},
                "elevation": {"type": "number", "example": 30},
                "intensity": {"type": "number", "example": 5},
                "colorHex": {"type": "string", "example": "#FFFFFF"}
            }
        },
        "types.Document": {
            "type": "object",
            "properties": {
                "slots": {"type": "array", "items": {"$ref": "#/definitions/types.ParameterRecord"}},
                "activeIndex": {"type": "integer"}
            }
        },
        "types.SlotsResponse": {
            "type": "object",
            "properties": {
                "slots": {"type": "array", "items": {"$ref": "#/definitions/types.ParameterRecord"}},
                "activeIndex": {"type": "integer", "example": 0},
                "summary": {"type": "string", "example": "Outputs: 2 | Active: 1"}
            }
        },
        "types.FieldsResponse": {
            "type": "object",
            "properties": {
                "fields": {"type": "object", "additionalProperties": true}
            }
        },
        "types.PromptsResponse": {
            "type": "object",
            "properties": {
                "prompts": {"type": "array", "items": {"type": "string"}}
            }
        },
        "types.GeometryRequest": {
            "type": "object",
            "properties": {
                "width": {"type": "number", "example": 320},
                "height": {"type": "number", "example": 360}
            }
        },
        "types.SurfaceStatus": {
            "type": "object",
            "properties": {
                "ready": {"type": "boolean"},
                "pending_image": {"type": "boolean"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid JSON body"},
                "code": {"type": "integer", "example": 400}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "lightd API",
	Description:      "HTTP control API for a multi-slot lighting panel synchronized with a rendering surface.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
