package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/benjamintowle04/ua-backend/internal/config"
)

const docsIndexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Universal Athletics API</title>
  <style>
    body { margin: 0; font-family: Georgia, "Times New Roman", serif; color: #132019; background: #f6f7f4; }
    main { max-width: 960px; margin: 0 auto; padding: 48px 20px; }
    h1 { font-size: 1.6rem; }
    code { background: #0f172a; color: #e2e8f0; padding: 2px 6px; border-radius: 6px; font-size: 0.85rem; }
    table { width: 100%; border-collapse: collapse; background: #fff; border: 1px solid #d8ddd6; }
    th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #d8ddd6; }
  </style>
</head>
<body>
<main>
  <h1>Universal Athletics API</h1>
  <p>Member and coach connections, session scheduling and messaging. All
  <code>/api</code> routes except register and login require a bearer token.</p>
  <table>
    <tr><th>Method</th><th>Path</th><th>Purpose</th></tr>
    <tr><td>POST</td><td><code>/api/auth/register</code></td><td>Create a member or coach account</td></tr>
    <tr><td>POST</td><td><code>/api/auth/login</code></td><td>Exchange credentials for a token</td></tr>
    <tr><td>GET</td><td><code>/api/auth/me</code></td><td>Current account and profile</td></tr>
    <tr><td>POST</td><td><code>/api/onboarding</code></td><td>Complete the profile (multipart)</td></tr>
    <tr><td>GET</td><td><code>/api/members/:uid</code></td><td>Member profile by uid</td></tr>
    <tr><td>GET</td><td><code>/api/coaches/:uid</code></td><td>Coach profile by uid</td></tr>
    <tr><td>POST</td><td><code>/api/coaches/sort</code></td><td>Rank coaches by skills and location</td></tr>
    <tr><td>GET</td><td><code>/api/skills</code></td><td>Skill catalog</td></tr>
    <tr><td>*</td><td><code>/api/requests/connections</code></td><td>Connection request workflow</td></tr>
    <tr><td>*</td><td><code>/api/requests/sessions</code></td><td>Session request workflow (3 time options)</td></tr>
    <tr><td>*</td><td><code>/api/sessions</code></td><td>Scheduled sessions</td></tr>
    <tr><td>*</td><td><code>/api/conversations</code></td><td>Messaging between connected pairs</td></tr>
    <tr><td>GET</td><td><code>/api/ws</code></td><td>WebSocket message delivery</td></tr>
  </table>
</main>
</body>
</html>`

// registerDocsRoutes serves a minimal endpoint index. Development only.
func registerDocsRoutes(router fiber.Router, cfg *config.Config) error {
	if !cfg.DocsEnabled() {
		return nil
	}

	router.Get("/docs", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		c.Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
		return c.SendString(docsIndexHTML)
	})

	return nil
}
