// Package docs registers the OpenAPI document served under /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/prices/current/{type}/{symbol}": {
            "get": {
                "description": "Returns the cached price when fresh, otherwise fetches it from the providers. A zero price with source Fallback means every provider failed.",
                "produces": ["application/json"],
                "tags": ["prices"],
                "summary": "Current price of an asset",
                "parameters": [
                    {"enum": ["crypto", "stock", "index", "domestic"], "type": "string", "description": "Asset type", "name": "type", "in": "path", "required": true},
                    {"type": "string", "example": "BTC", "description": "Ticker symbol", "name": "symbol", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CurrentPriceResponse"}},
                    "400": {"description": "Invalid asset type or symbol", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/prices/historical/{type}/{symbol}": {
            "get": {
                "description": "Returns the closing price for a calendar day. Dates within the last ten years are cached permanently once found.",
                "produces": ["application/json"],
                "tags": ["prices"],
                "summary": "Price of an asset on a date",
                "parameters": [
                    {"enum": ["crypto", "stock", "index", "domestic"], "type": "string", "description": "Asset type", "name": "type", "in": "path", "required": true},
                    {"type": "string", "example": "AAPL", "description": "Ticker symbol", "name": "symbol", "in": "path", "required": true},
                    {"type": "string", "example": "2024-03-05", "description": "Calendar day (YYYY-MM-DD)", "name": "date", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HistoricalPriceResponse"}},
                    "400": {"description": "Invalid asset type, symbol or date", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/assets": {
            "get": {
                "description": "Lists the symbols offered for each asset type",
                "produces": ["application/json"],
                "tags": ["prices"],
                "summary": "Supported assets",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SupportedAssetsResponse"}}
                }
            }
        },
        "/api/v1/cache/stats": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Counts current and historical entries. All counts are zero when running without a store.",
                "produces": ["application/json"],
                "tags": ["cache"],
                "summary": "Cache statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CacheStatsResponse"}}
                }
            }
        },
        "/api/v1/cache/cleanup": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["cache"],
                "summary": "Remove expired current prices",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CacheMutationResponse"}}
                }
            }
        },
        "/api/v1/cache": {
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Removes current and historical entries of the given types",
                "produces": ["application/json"],
                "tags": ["cache"],
                "summary": "Clear cached prices of some asset types",
                "parameters": [
                    {"type": "string", "example": "crypto,stock", "description": "Comma separated asset types", "name": "types", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CacheMutationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/cache/all": {
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["cache"],
                "summary": "Clear every cached price",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CacheMutationResponse"}}
                }
            }
        },
        "/ws/prices": {
            "get": {
                "description": "Upgrades to a websocket and pushes a prices message for the requested assets on every interval.",
                "tags": ["prices"],
                "summary": "Websocket price stream",
                "parameters": [
                    {"type": "string", "example": "crypto:BTC,stock:AAPL", "description": "Comma separated type:SYMBOL list", "name": "assets", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols", "schema": {"$ref": "#/definitions/dto.StreamMessage"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Verifies that the service is running.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Basic health check",
                "responses": {
                    "200": {"description": "Service is running correctly", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/ready": {
            "get": {
                "description": "Verifies the cache store is reachable.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Service is ready to receive traffic", "schema": {"$ref": "#/definitions/dto.HealthResponse"}},
                    "503": {"description": "Cache store is unreachable", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.CurrentPriceResponse": {
            "type": "object",
            "properties": {
                "assetType": {"type": "string", "example": "crypto"},
                "symbol": {"type": "string", "example": "BTC"},
                "price": {"type": "number", "example": 97000},
                "source": {"type": "string", "example": "Kraken"},
                "timestamp": {"type": "integer", "example": 1718445600000},
                "change24h": {"type": "number", "example": 1250.5},
                "change24hPercent": {"type": "number", "example": 1.31},
                "degraded": {"type": "boolean", "example": false}
            }
        },
        "dto.HistoricalPriceResponse": {
            "type": "object",
            "properties": {
                "assetType": {"type": "string", "example": "stock"},
                "symbol": {"type": "string", "example": "AAPL"},
                "exists": {"type": "boolean", "example": true},
                "price": {"type": "number", "example": 170.12},
                "date": {"type": "string", "example": "2024-03-05"},
                "source": {"type": "string", "example": "Yahoo Finance"},
                "error": {"type": "string", "example": "no trading data for this date"}
            }
        },
        "dto.SupportedAssetsResponse": {
            "type": "object",
            "properties": {
                "assets": {
                    "type": "object",
                    "properties": {
                        "crypto": {"type": "array", "items": {"type": "string"}},
                        "stock": {"type": "array", "items": {"type": "string"}},
                        "index": {"type": "array", "items": {"type": "string"}},
                        "domestic": {"type": "array", "items": {"type": "string"}}
                    }
                }
            }
        },
        "dto.CacheStatsResponse": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean", "example": true},
                "current": {"type": "integer", "example": 12},
                "historical": {"type": "integer", "example": 40},
                "total": {"type": "integer", "example": 52}
            }
        },
        "dto.CacheMutationResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "cache cleared"},
                "removed": {"type": "integer", "example": 3},
                "types": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.StreamMessage": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "prices"},
                "prices": {"type": "array", "items": {"$ref": "#/definitions/dto.CurrentPriceResponse"}},
                "error": {"type": "string"},
                "sentAt": {"type": "integer"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "required": ["error"],
            "properties": {
                "error": {"type": "string", "example": "INVALID_PARAMETER"},
                "message": {"type": "string", "example": "unknown asset type: \"bond\""},
                "code": {"type": "string", "example": "400"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "required": ["status", "timestamp"],
            "properties": {
                "status": {"type": "string", "enum": ["healthy", "ready", "degraded", "unhealthy"], "example": "healthy"},
                "timestamp": {"type": "string", "example": "2025-06-15T10:30:00Z"},
                "services": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Price Cache Service API",
	Description:      "Current and historical asset prices served through a TTL cache with permanent historical entries.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
