// Package docs registers the OpenAPI document served at /swagger/*.
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
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "responses": {
                    "200": {"description": "token and user"},
                    "401": {"description": "invalid credentials"}
                }
            }
        },
        "/api/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "API login",
                "responses": {
                    "200": {"description": "token, user and expires_in"},
                    "401": {"description": "invalid credentials"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new customer",
                "responses": {
                    "201": {"description": "created account"},
                    "409": {"description": "user already exists"}
                }
            }
        },
        "/api/verify-token": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Verify a bearer token",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "claims"},
                    "401": {"description": "invalid or expired token"}
                }
            }
        },
        "/api/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List products",
                "responses": {"200": {"description": "product list"}}
            }
        },
        "/api/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Get a product",
                "responses": {
                    "200": {"description": "product"},
                    "404": {"description": "product not found"}
                }
            }
        },
        "/cart/add": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Add a product to the cart",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "cart item token"}}
            }
        },
        "/cart/build": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Build a cart token from item tokens",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "cart token"}}
            }
        },
        "/checkout": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Checkout a cart",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "created order"},
                    "422": {"description": "empty or invalid cart"}
                }
            }
        },
        "/order/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get an order",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "order"},
                    "404": {"description": "order not found"}
                }
            }
        },
        "/api/admin/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List all user accounts",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "accounts"},
                    "403": {"description": "forbidden"}
                }
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

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Minimarket Storefront API",
	Description:      "Transactional storefront with session-token authentication and cart checkout.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
