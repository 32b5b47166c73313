package pagebuilder

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pagebuilder/builder"
)

func (a *App) handleTemplate(c echo.Context) error {
	id, err := templateID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	tpl, err := a.Engine.Template(ctx, id)
	if err != nil {
		return err
	}
	body, err := a.Engine.Render(ctx, id)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Page(tpl, body, a.Config.Name))
}

func (a *App) handleSitemap(c echo.Context) error {
	templates, err := a.Cache.ListTemplates(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, templates)
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

// templateID parses the :id route parameter. Anything that is not a positive
// integer names no template.
func templateID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, builder.ErrInvalidTemplate
	}
	return id, nil
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	switch {
	case errors.Is(err, builder.ErrInvalidTemplate), errors.Is(err, builder.ErrNotFound):
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	case errors.Is(err, builder.ErrUnauthorized):
		_ = c.String(http.StatusForbidden, "Forbidden")
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
