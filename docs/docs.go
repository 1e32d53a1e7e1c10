// Package docs registers the OpenAPI document served at /swagger. It is kept
// in step with the @Router annotations in internal/handlers; a handler test
// fails when a route is missing here.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a grower",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.GrowerCredentials"}}],
                "responses": {"201": {"description": "id", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/auth/sign-in": {
            "post": {
                "description": "Returns a bearer token for the /api/v1 routes, valid until the device session ends.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.GrowerCredentials"}}],
                "responses": {"200": {"description": "token", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/v1/session": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Current operator",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Operator"}}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/v1/session/end": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stops streaming, forgets the device and signs every grower out.",
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "End the device session",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/ws/functions/{metric}": {
            "get": {
                "description": "WebSocket. Publishes {\"type\":\"value\",\"data\":{\"metric\",\"value\"}} every interval until the socket closes.",
                "tags": ["functions"],
                "summary": "Stream a sensor",
                "parameters": [
                    {"type": "string", "description": "Metric", "name": "metric", "in": "path", "required": true},
                    {"type": "string", "example": "2s", "description": "Go duration, max 10s", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "Milliseconds, max 10000", "name": "interval_ms", "in": "query"}
                ],
                "responses": {"101": {"description": "Switching Protocols"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/functions/{metric}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Device failures yield the metric's fallback (-1 for numbers, \"Error\" for states).",
                "produces": ["application/json"],
                "tags": ["functions"],
                "summary": "Read a sensor once",
                "parameters": [{"enum": ["relay", "soil-moisture", "temperature", "humidity", "soil-temperature", "visible", "infra-red", "ultra-violet", "button1", "button2"], "type": "string", "description": "Metric", "name": "metric", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.FunctionValue"}}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/relay": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["relay"],
                "summary": "Get relay state",
                "responses": {"200": {"description": "relay: On | Off | Error"}, "401": {"description": "Unauthorized"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Device failures are reported in the returned status event, not as an HTTP error.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["relay"],
                "summary": "Switch relay",
                "parameters": [{"description": "Relay payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SetRelayRequest"}}],
                "responses": {"200": {"description": "status event"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/v1/device": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["device"],
                "summary": "Get device origin",
                "responses": {"200": {"description": "origin"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}, "502": {"description": "Bad Gateway"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Probes the device and, when reachable, makes it the session device.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["device"],
                "summary": "Set device",
                "parameters": [{"description": "Device payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SetDeviceRequest"}}],
                "responses": {"200": {"description": "origin"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/api/v1/history/start": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Runs one history merge right away, then every DataPollTime seconds.",
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "Start streaming",
                "responses": {"200": {"description": "status, state"}, "401": {"description": "Unauthorized"}, "503": {"description": "Service Unavailable"}}
            }
        },
        "/api/v1/history/stop": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "Stop streaming",
                "responses": {"200": {"description": "status, state"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/v1/history/state": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "Streaming state",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/v1/history/clear": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Empties the snapshot row and the data window. Failures are reported in the returned status event.",
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "Clear data",
                "responses": {"200": {"description": "status event"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/v1/history/sheet": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "Data In sheet",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/api/v1/status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "The most recent status event, as shown under the taskpane buttons.",
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "Status label",
                "responses": {"200": {"description": "OK"}, "204": {"description": "No Content"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/api/v1/status/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Filter by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive (23:59:59.999999999Z).",
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "List status events",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "description": "End of range. Date-only treated as end of day.", "name": "to", "in": "query"},
                    {"enum": ["RELAY", "DEVICE", "STREAM", "DATA"], "type": "string", "description": "Event source", "name": "source", "in": "query"}
                ],
                "responses": {"200": {"description": "count, events"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/api/v1/workbook.xlsx": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "The Configuration and Data In sheets as an .xlsx file.",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["workbook"],
                "summary": "Download workbook",
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}
            }
        }
    },
    "definitions": {
        "handlers.GrowerCredentials": {
            "type": "object",
            "required": ["name", "password"],
            "properties": {
                "name": {"type": "string", "example": "north-field"},
                "password": {"type": "string", "example": "tomatoes1"}
            }
        },
        "handlers.FunctionValue": {
            "type": "object",
            "properties": {
                "metric": {"type": "string", "example": "soil-moisture"},
                "value": {"type": "string", "example": "512"}
            }
        },
        "handlers.SetDeviceRequest": {
            "type": "object",
            "required": ["device_id"],
            "properties": {
                "device_id": {"description": "Host name, IP or origin; \"farmbeats\" becomes https://farmbeats.local", "type": "string", "example": "farmbeats"}
            }
        },
        "handlers.SetRelayRequest": {
            "type": "object",
            "required": ["value"],
            "properties": {
                "value": {"description": "Desired relay state", "type": "boolean", "example": true}
            }
        },
        "models.Operator": {
            "type": "object",
            "properties": {
                "grower_id": {"type": "integer"},
                "name": {"type": "string"},
                "session_id": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the token.",
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
	Title:            "FarmBeats Sheets API",
	Description:      "Bridges a FarmBeats device into a spreadsheet workbook: custom functions, relay control and history streaming.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
