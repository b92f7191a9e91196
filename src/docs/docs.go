// Package docs registers the OpenAPI description served at /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/auth/register": {"post": {"tags": ["Auth"], "summary": "Log in with a wallet signature", "security": [], "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}], "responses": {"200": {"description": "token issued"}, "400": {"description": "missing or malformed fields"}, "403": {"description": "signature does not match address"}}}},
        "/auth/logout": {"post": {"tags": ["Auth"], "summary": "Revoke the current token", "responses": {"200": {"description": "logged out"}, "401": {"description": "no valid token"}}}},
        "/auth/complete-profile": {"post": {"tags": ["Auth"], "summary": "Complete the caller's profile", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ProfileFields"}}], "responses": {"200": {"description": "profile stored"}, "400": {"description": "invalid profile"}}}},
        "/auth/profile": {
            "get": {"tags": ["Auth"], "summary": "Get the caller's profile with owned documents", "responses": {"200": {"description": "profile"}, "404": {"description": "not registered"}}},
            "put": {"tags": ["Auth"], "summary": "Update the caller's profile", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ProfileFields"}}], "responses": {"200": {"description": "profile"}, "404": {"description": "not registered"}}},
            "delete": {"tags": ["Auth"], "summary": "Delete the caller's identity, documents and access requests", "responses": {"200": {"description": "deleted"}, "404": {"description": "not registered"}}}
        },
        "/documents/upload": {"post": {"tags": ["Documents"], "summary": "Upload a document", "consumes": ["multipart/form-data"], "parameters": [{"in": "formData", "name": "file", "type": "file", "required": true}], "responses": {"201": {"description": "uploaded"}, "400": {"description": "no file"}, "502": {"description": "storage failure"}}}},
        "/documents/user-documents": {"get": {"tags": ["Documents"], "summary": "List the caller's documents", "responses": {"200": {"description": "documents"}}}},
        "/documents/verify": {"post": {"tags": ["Documents"], "summary": "Check whether a file's hash was anchored", "consumes": ["multipart/form-data"], "parameters": [{"in": "formData", "name": "file", "type": "file", "required": true}], "responses": {"200": {"description": "result"}, "502": {"description": "anchor unavailable"}}}},
        "/documents/approved": {"get": {"tags": ["Documents"], "summary": "Documents shared with the caller", "responses": {"200": {"description": "documents"}}}},
        "/documents/{id}": {"delete": {"tags": ["Documents"], "summary": "Delete an owned document and its access requests", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "deleted"}, "403": {"description": "not the owner"}, "404": {"description": "not found"}}}},
        "/documents/{id}/access": {"get": {"tags": ["Documents"], "summary": "Whether the caller may read a document", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "access level"}, "404": {"description": "not found"}}}},
        "/documents/{id}/qrcode": {"get": {"tags": ["Documents"], "summary": "QR code linking to the document on the IPFS gateway", "produces": ["image/png"], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "png"}, "403": {"description": "no access"}}}},
        "/access-requests": {"post": {"tags": ["AccessRequests"], "summary": "Ask a document owner for access", "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RequestAccessRequest"}}], "responses": {"201": {"description": "pending request"}, "404": {"description": "unknown document"}, "409": {"description": "own document or already pending"}}}},
        "/access-requests/incoming": {"get": {"tags": ["AccessRequests"], "summary": "List access requests for the caller's documents", "responses": {"200": {"description": "requests"}}}},
        "/access-requests/outgoing": {"get": {"tags": ["AccessRequests"], "summary": "List access requests the caller has made", "responses": {"200": {"description": "requests"}}}},
        "/access-requests/new": {"get": {"tags": ["AccessRequests"], "summary": "Pending requests created since the caller last looked", "responses": {"200": {"description": "has_new and requests"}}}},
        "/access-requests/pending": {"get": {"tags": ["AccessRequests"], "summary": "Whether any request to the caller is still pending", "responses": {"200": {"description": "has_pending"}}}},
        "/access-requests/mark-seen": {"post": {"tags": ["AccessRequests"], "summary": "Mark incoming requests as seen", "responses": {"200": {"description": "marked"}}}},
        "/access-requests/{id}/approve": {"post": {"tags": ["AccessRequests"], "summary": "Approve an incoming access request", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "approved"}, "403": {"description": "not the target"}, "409": {"description": "already decided"}}}},
        "/access-requests/{id}/reject": {"post": {"tags": ["AccessRequests"], "summary": "Reject an incoming access request", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "rejected"}, "403": {"description": "not the target"}, "409": {"description": "already decided"}}}}
    },
    "definitions": {
        "RegisterRequest": {"type": "object", "properties": {"address": {"type": "string"}, "message": {"type": "string"}, "signature": {"type": "string"}}},
        "ProfileFields": {"type": "object", "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"}}},
        "RequestAccessRequest": {"type": "object", "required": ["document_id"], "properties": {"document_id": {"type": "string", "format": "uuid"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:9000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "DocVault API",
	Description:      "Wallet-authenticated document custody with owner-approved sharing",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
