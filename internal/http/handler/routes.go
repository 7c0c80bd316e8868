package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"casedocs/internal/service"
)

// Services groups the application services the HTTP layer depends on.
type Services struct {
	Ingest       service.IngestService
	Orchestrator service.Orchestrator
	Documents    service.DocumentService
	Analytics    service.AnalyticsService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: translation between the wire and the services only.
func RegisterRoutes(app *fiber.App, db *sql.DB, svcs Services) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", Liveness())

	app.Post("/upload", UploadBatch(svcs.Ingest, svcs.Orchestrator))

	app.Get("/files", ListFiles(svcs.Documents))
	app.Get("/files/:id", GetFile(svcs.Documents))
	app.Get("/files/:id/preview", PreviewFile(svcs.Documents))
	app.Get("/results", ListResults(svcs.Documents))

	app.Get("/case-types", CaseTypes(svcs.Analytics))
	app.Get("/recent-activity", RecentActivity(svcs.Analytics))
	app.Get("/trends", Trends(svcs.Analytics))
}
