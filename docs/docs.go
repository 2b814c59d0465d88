// Package docs registers the OpenAPI document served under /swagger/.
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
        "/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/mapper.UserResource"}
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/errors.ErrorResponse"}
                    }
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create user",
                "parameters": [
                    {
                        "description": "User payload",
                        "name": "user",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.CreateUserInput"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/mapper.UserResource"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/errors.ErrorResponse"}
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {"$ref": "#/definitions/errors.ValidationResponse"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/errors.ErrorResponse"}
                    }
                }
            }
        },
        "/users/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get user by id",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/mapper.UserResource"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/errors.ErrorResponse"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/errors.ErrorResponse"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/errors.ErrorResponse"}
                    }
                }
            },
            "put": {
                "description": "Only supplied fields change. Text fields are trimmed; a blank password is ignored.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Fields to change",
                        "name": "user",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.UpdateUserInput"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/mapper.UserResource"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/errors.ErrorResponse"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/errors.ErrorResponse"}
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {"$ref": "#/definitions/errors.ValidationResponse"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/errors.ErrorResponse"}
                    }
                }
            },
            "delete": {
                "description": "Succeeds whether or not the user existed.",
                "tags": ["users"],
                "summary": "Delete user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/errors.ErrorResponse"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/errors.ErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "errors.ValidationResponse": {
            "type": "object",
            "properties": {
                "errors": {
                    "type": "object",
                    "additionalProperties": {"type": "array", "items": {"type": "string"}}
                },
                "message": {"type": "string"}
            }
        },
        "mapper.UserResource": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "nickname": {"type": "string"}
            }
        },
        "model.CreateUserInput": {
            "type": "object",
            "required": ["email", "nickname"],
            "properties": {
                "email": {"type": "string", "maxLength": 191},
                "name": {"type": "string", "maxLength": 191, "minLength": 1},
                "nickname": {"type": "string", "maxLength": 30},
                "password": {"type": "string", "maxLength": 191, "minLength": 8}
            }
        },
        "model.UpdateUserInput": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "maxLength": 191},
                "name": {"type": "string", "maxLength": 191, "minLength": 1},
                "nickname": {"type": "string", "maxLength": 30, "minLength": 1},
                "password": {"type": "string", "maxLength": 191, "minLength": 8}
            }
        }
    }
}`

// SwaggerInfo is the registered document; the router overrides Host from SWAGGER_HOST.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "User API",
	Description:      "CRUD API for users with case-insensitive nickname and email uniqueness.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
