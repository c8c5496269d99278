package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

var landingPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8" />
<meta name="viewport" content="width=device-width, initial-scale=1.0" />
<title>Atlas Travel API</title>
<style>
body { font-family: Arial, sans-serif; margin: 0; background: linear-gradient(135deg,#1e6fa8,#13b493); color: #fff; min-height: 100vh; display: flex; flex-direction: column; }
header { flex: 1; padding: 60px 20px; text-align: center; }
a.button { display: inline-block; margin: 10px; padding: 12px 24px; font-size: 16px; border-radius: 4px; text-decoration: none; background: rgba(255,255,255,0.2); color: #fff; transition: background 0.3s; }
a.button:hover { background: rgba(255,255,255,0.4); }
footer { text-align: center; padding: 20px; font-size: 14px; opacity: 0.8; }
</style>
</head>
<body>
<header>
  <h1>Atlas Travel API</h1>
  <p>Book destinations, pay with Chapa, leave reviews.</p>
  <a class="button" href="/swagger/index.html">API Documentation</a>
  <a class="button" href="/health">Health</a>
</header>
<footer>Atlas Travel backend</footer>
</body>
</html>`

var paymentSuccessHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8" />
<title>Payment Successful</title>
<style>
body { font-family: Arial, sans-serif; text-align: center; padding: 80px 20px; color: #2e7d32; }
p { color: #555; }
</style>
</head>
<body>
<h1>Payment Successful</h1>
<p>Your booking is confirmed. A confirmation email is on its way.</p>
</body>
</html>`

var paymentFailedHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8" />
<title>Payment Failed</title>
<style>
body { font-family: Arial, sans-serif; text-align: center; padding: 80px 20px; color: #c62828; }
p { color: #555; }
</style>
</head>
<body>
<h1>Payment Failed</h1>
<p>The payment could not be completed. You can retry from your booking.</p>
</body>
</html>`

func RegisterPages(e *echo.Echo) {
	e.GET("/", func(c echo.Context) error {
		return c.HTML(http.StatusOK, landingPageHTML)
	})
}
