// Package swagger provides API documentation
package swagger

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
        "/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a user",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/requests.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/responses.AuthResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/requests.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.AuthResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log out",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.StatusResponse"}}}
            }
        },
        "/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.UserResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "Search users",
                "parameters": [{"type": "string", "in": "query", "name": "search"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/responses.UserResponse"}}}}
            }
        },
        "/conversations": {
            "get": {
                "tags": ["Conversations"],
                "summary": "List conversation peers",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/responses.UserResponse"}}}}
            },
            "delete": {
                "tags": ["Conversations"],
                "summary": "Delete a conversation",
                "parameters": [{"type": "string", "in": "query", "name": "conversationId", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.DeleteConversationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/messages": {
            "get": {
                "tags": ["Messages"],
                "summary": "Messages with a user",
                "parameters": [{"type": "string", "in": "query", "name": "receiver", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/responses.MessageResponse"}}}}
            },
            "post": {
                "tags": ["Messages"],
                "summary": "Send a message",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/requests.SendMessageRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/responses.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/messages/{conversationId}": {
            "get": {
                "tags": ["Conversations"],
                "summary": "Conversation history",
                "parameters": [{"type": "string", "in": "path", "name": "conversationId", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/responses.ConversationMessageResponse"}}}}
            }
        },
        "/delete": {
            "patch": {
                "tags": ["Conversations"],
                "summary": "Clear a conversation",
                "parameters": [
                    {"type": "string", "in": "query", "name": "conversationId", "required": true},
                    {"type": "string", "in": "query", "name": "otherUserId", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.ClearConversationResponse"}}}
            }
        },
        "/delete/chat": {
            "delete": {
                "tags": ["Messages"],
                "summary": "Delete a message",
                "parameters": [{"type": "string", "in": "query", "name": "messageId", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.DeleteMessageResponse"}}}
            }
        }
    },
    "definitions": {
        "requests.RegisterRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "cpassword": {"type": "string"},
                "confirmPassword": {"type": "string"}
            }
        },
        "requests.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "requests.SendMessageRequest": {
            "type": "object",
            "required": ["content", "receiver"],
            "properties": {"receiver": {"type": "string"}, "content": {"type": "string"}, "replyToMessageId": {"type": "string"}}
        },
        "responses.UserResponse": {
            "type": "object",
            "properties": {"_id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}}
        },
        "responses.AuthResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "user": {"$ref": "#/definitions/responses.UserResponse"}}
        },
        "responses.StatusResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "responses.MessageResponse": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "sender": {"type": "string"},
                "receiver": {"type": "string"},
                "content": {"type": "string"},
                "timestamp": {"type": "string"},
                "conversationId": {"type": "string"},
                "replyToMessageId": {"type": "string"}
            }
        },
        "responses.ConversationMessageResponse": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "sender": {"$ref": "#/definitions/responses.UserResponse"},
                "receiver": {"type": "string"},
                "content": {"type": "string"},
                "timestamp": {"type": "string"},
                "conversationId": {"type": "string"},
                "replyToMessageId": {"type": "string"}
            }
        },
        "responses.DeleteConversationResponse": {
            "type": "object",
            "properties": {"success": {"type": "string"}, "conversationId": {"type": "string"}, "messagesDeleted": {"type": "integer"}}
        },
        "responses.ClearConversationResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "conversationId": {"type": "string"}, "deleted": {"type": "integer"}}
        },
        "responses.DeleteMessageResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}}
        },
        "responses.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"$ref": "#/definitions/responses.ErrorDetail"}}
        },
        "responses.ErrorDetail": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "type": {"type": "string"}, "code": {"type": "string"}, "request_id": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "DM Server API",
	Description:      "Direct messaging between registered users.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
