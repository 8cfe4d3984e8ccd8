package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcruz/enrollsys/internal/middleware"
)

// PageController serves the browser entry points. The portal frontend is a
// single-page app; these handlers return minimal shells that load it, while
// the session middleware in front of them does the actual role routing.
type PageController struct{}

// NewPageController creates a new PageController
func NewPageController() *PageController {
	return &PageController{}
}

const pageShell = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>EnrollSys — %s</title>
</head>
<body>
  <div id="root" data-area="%s"></div>
  <script src="/assets/app.js"></script>
</body>
</html>`

func renderShell(ctx *gin.Context, title, area string) {
	ctx.Header("Cache-Control", "no-store")
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf(pageShell, title, area)))
}

// Login serves the login page
func (p *PageController) Login(ctx *gin.Context) {
	renderShell(ctx, "Sign in", "login")
}

// Activate serves the activation landing page. The page itself calls the
// advisory token check endpoint before showing the password form.
func (p *PageController) Activate(ctx *gin.Context) {
	renderShell(ctx, "Activate your account", "activate")
}

// Register serves the registration completion page
func (p *PageController) Register(ctx *gin.Context) {
	renderShell(ctx, "Complete registration", "register")
}

// UpdatePassword serves the password change page
func (p *PageController) UpdatePassword(ctx *gin.Context) {
	renderShell(ctx, "Update password", "update-password")
}

// AuthCallback lands redirects from emailed links and forwards the visitor
// to their role area, or to login when no session exists.
func (p *PageController) AuthCallback(ctx *gin.Context) {
	if claims, ok := middleware.SessionFromContext(ctx); ok {
		ctx.Redirect(http.StatusSeeOther, "/"+claims.Role)
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/login")
}

// Area serves a role area shell. The wildcard route keeps deep links inside
// an area working without enumerating every client-side page.
func (p *PageController) Area(area string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		renderShell(ctx, area, area)
	}
}

// Root forwards the portal root to the caller's role area or the login page
func (p *PageController) Root(ctx *gin.Context) {
	if claims, ok := middleware.SessionFromContext(ctx); ok {
		ctx.Redirect(http.StatusSeeOther, "/"+claims.Role)
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/login")
}
