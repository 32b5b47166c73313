package pagebuilder

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pagebuilder/builder"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		a.loginLimiter.Reset(c.RealIP())
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(c.RealIP())
	a.Logger.Warn().Str("ip", c.RealIP()).Msg("failed admin login")
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminCreate(c echo.Context) error {
	id, err := a.Engine.CreateTemplate(c.Request().Context(), c.FormValue("_nonce"), c.FormValue("title"))
	switch {
	case errors.Is(err, builder.ErrDuplicateTitle):
		return a.renderAdminDashboard(c, "Template names must be unique, try a different name.")
	case errors.Is(err, ErrTitleRequired):
		return a.renderAdminDashboard(c, "A template title is required.")
	case err != nil:
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/templates/"+strconv.FormatInt(id, 10)+"/")
}

func (a *App) handleAdminBuilder(c echo.Context) error {
	id, err := templateID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	tpl, err := a.Engine.Template(ctx, id)
	if err != nil {
		return err
	}
	editor, err := a.Engine.EditorForm(ctx, id)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminBuilder(BuilderScreen{
		Template:    tpl,
		Palette:     a.Engine.Palette(a.Registry.List()),
		Blocks:      editor,
		CSRFToken:   CsrfToken(c),
		UpdateToken: a.Tokens.Token(builder.ActionUpdate),
		DeleteToken: a.Tokens.Token(builder.ActionDelete),
	}))
}

func (a *App) handleAdminUpdate(c echo.Context) error {
	id, err := templateID(c)
	if err != nil {
		return err
	}
	sub, err := bindSubmission(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed template submission")
	}
	if err := a.Engine.Reconcile(c.Request().Context(), id, sub.Nonce, sub.Title, sub.instances()); err != nil {
		return err
	}
	a.Cache.Invalidate()

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, "/admin/templates/"+strconv.FormatInt(id, 10)+"/")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	id, err := templateID(c)
	if err != nil {
		return err
	}
	// DELETE bodies are not parsed as forms; the token rides in a header or
	// the query string.
	token := c.Request().Header.Get("X-Action-Token")
	if token == "" {
		token = c.QueryParam("_nonce")
	}
	if err := a.Engine.DeleteTemplate(c.Request().Context(), id, token); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	templates, err := a.Cache.ListTemplates(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(Dashboard{
		Templates:   templates,
		Message:     msg,
		CSRFToken:   CsrfToken(c),
		CreateToken: a.Tokens.Token(builder.ActionCreate),
	}))
}
