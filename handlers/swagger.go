package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints:
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(r *gin.Engine) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>susradar-server — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "susradar-server", "version": "v1.0.0" },
  "paths": {
    "/api/register": {
      "post": {
        "summary": "Register a new user",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"username":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "201": { "description": "registered" }, "400": { "description": "validation failure" }, "409": { "description": "username already exists" } }
      }
    },
    "/api/login": {
      "post": {
        "summary": "Authenticate and receive a bearer token",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"username":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "token, username, expires_in" }, "401": { "description": "invalid credentials" } }
      }
    },
    "/api/data": {
      "get": { "summary": "Get the user's document", "responses": { "200": { "description": "companies and mappings" }, "401": { "description": "unauthorized" } } },
      "post": { "summary": "Overwrite the user's document", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"companies":{"type":"object"},"mappings":{"type":"object"}}}}}}, "responses": { "200": { "description": "saved" }, "400": { "description": "invalid structure" } } }
    },
    "/api/data/sync": {
      "post": { "summary": "Merge client document into server state (client wins)", "responses": { "200": { "description": "merged document" } } }
    },
    "/api/companies/{companyId}": {
      "delete": { "summary": "Delete a company and its mappings", "parameters": [{"name":"companyId","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "deleted (idempotent)" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
