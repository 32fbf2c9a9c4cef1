package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/beatworks/beatotheque/internal/handlers"
	authmw "github.com/beatworks/beatotheque/internal/middleware/auth"
)

type Deps struct {
	Auth     *handlers.AuthHandler
	Beats    *handlers.BeatHandler
	Licenses *handlers.LicenseHandler
	Uploads  *handlers.UploadHandler
	Search   *handlers.SearchHandler
	Guard    *authmw.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	auth := e.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/me", d.Auth.Me, d.Guard.RequireLogin)

	beats := e.Group("/beats")
	beats.GET("", d.Beats.ListBeats)
	beats.GET("/search", d.Search.SearchBeats)
	beats.GET("/:id", d.Beats.GetBeat)
	beats.GET("/:id/licenses", d.Licenses.ListByBeat)
	beats.POST("", d.Beats.CreateBeat, d.Guard.RequireLogin)
	beats.PUT("/:id", d.Beats.UpdateBeat, d.Guard.RequireLogin)
	beats.DELETE("/:id", d.Beats.DeleteBeat, d.Guard.RequireLogin)
	beats.POST("/:id/licenses", d.Licenses.CreateLicense, d.Guard.RequireLogin)

	licenses := e.Group("/licenses", d.Guard.RequireLogin)
	licenses.PUT("/:id", d.Licenses.UpdateLicense)
	licenses.DELETE("/:id", d.Licenses.DeleteLicense)

	e.POST("/upload", d.Uploads.Upload, d.Guard.RequireLogin)
}
