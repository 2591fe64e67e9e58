// Package docs - OpenAPI описание ML TM Utils API, отдаётся через /swagger/*.
// Пересобирается командой: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Проверка состояния",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/api/v1/tiles/{z}/{x}/{y}/children": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tiles"],
                "summary": "Дочерние тайлы",
                "parameters": [
                    {"type": "integer", "name": "z", "in": "path", "required": true},
                    {"type": "integer", "name": "x", "in": "path", "required": true},
                    {"type": "integer", "name": "y", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/tiles/{z}/{x}/{y}/bounds": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tiles"],
                "summary": "Границы тайла",
                "parameters": [
                    {"type": "integer", "name": "z", "in": "path", "required": true},
                    {"type": "integer", "name": "x", "in": "path", "required": true},
                    {"type": "integer", "name": "y", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/tiles/{z}/{x}/{y}/pyramid": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tiles"],
                "summary": "Пирамида тайлов",
                "parameters": [
                    {"type": "integer", "name": "z", "in": "path", "required": true},
                    {"type": "integer", "name": "x", "in": "path", "required": true},
                    {"type": "integer", "name": "y", "in": "path", "required": true},
                    {"type": "integer", "default": 18, "name": "max_zoom", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/tiles/{z}/{x}/{y}/area": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tiles"],
                "summary": "Площадь зданий в тайле задачи",
                "parameters": [
                    {"type": "integer", "name": "z", "in": "path", "required": true},
                    {"type": "integer", "name": "x", "in": "path", "required": true},
                    {"type": "integer", "name": "y", "in": "path", "required": true},
                    {"type": "integer", "default": 18, "name": "max_zoom", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/pixel-area": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tiles"],
                "summary": "Площадь пикселя",
                "parameters": [
                    {"type": "number", "name": "lat", "in": "query", "required": true},
                    {"type": "integer", "name": "zoom", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/areas/total": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Areas"],
                "summary": "Сумма площадей по тайлам",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.TotalAreaRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/projects": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Projects"],
                "summary": "Регистрация проекта",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateProjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/projects/augment": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Projects"],
                "summary": "Обогащение документа проекта",
                "parameters": [
                    {"name": "document", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/projects/{tm_index}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Projects"],
                "summary": "Проект по TM index",
                "parameters": [
                    {"type": "integer", "name": "tm_index", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/projects/{tm_index}/geometry": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Projects"],
                "summary": "Синхронизация геометрии проекта",
                "parameters": [
                    {"type": "integer", "name": "tm_index", "in": "path", "required": true},
                    {"name": "document", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/projects/{tm_index}/tile-areas": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Projects"],
                "summary": "Площади тайлов проекта",
                "parameters": [
                    {"type": "integer", "name": "tm_index", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Projects"],
                "summary": "Загрузка площадей по тайлам",
                "parameters": [
                    {"type": "integer", "name": "tm_index", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.IngestTileAreasRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.TotalAreaRequest": {
            "type": "object",
            "required": ["tile_ids"],
            "properties": {
                "tile_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.CreateProjectRequest": {
            "type": "object",
            "required": ["tm_index"],
            "properties": {
                "tm_index": {"type": "integer"},
                "document": {"type": "object"}
            }
        },
        "dto.TileAreaInput": {
            "type": "object",
            "required": ["tile_index"],
            "properties": {
                "tile_index": {"type": "string"},
                "building_area_ml": {"type": "number", "minimum": 0},
                "building_area_osm": {"type": "number", "minimum": 0}
            }
        },
        "dto.IngestTileAreasRequest": {
            "type": "object",
            "required": ["areas"],
            "properties": {
                "areas": {"type": "array", "items": {"$ref": "#/definitions/dto.TileAreaInput"}}
            }
        },
        "errors.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "utils.Meta": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "time_ms": {"type": "number"}
            }
        },
        "utils.SuccessResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "meta": {"$ref": "#/definitions/utils.Meta"}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/errors.AppError"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "ML TM Utils API",
	Description:      "Площади зданий (ML и OSM) по тайлам задач Tasking Manager.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
