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
        "/investors": {
            "get": {
                "produces": ["application/json"],
                "tags": ["investors"],
                "summary": "List investors"
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["investors"],
                "summary": "Create investor"
            }
        },
        "/accounts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "List accounts"
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Open account"
            }
        },
        "/stocks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stocks"],
                "summary": "List stocks"
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["stocks"],
                "summary": "Create stock"
            }
        },
        "/trades/buy": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["trades"],
                "summary": "Buy stock"
            }
        },
        "/trades/sell": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["trades"],
                "summary": "Sell stock"
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Investrack API",
	Description:      "Investrack tracks investors, accounts, stock positions, and executes buy/sell trades.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
