package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tbxark/roadmapagent/agent"
	"github.com/tbxark/roadmapagent/types"
)

type formView struct {
	Form       types.Request
	Fields     []types.FieldInfo
	Configured bool
	ShowKey    bool
	Generating bool
	Error      string
}

type roadmapView struct {
	Roadmap *types.Roadmap
	Source  string
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) index(c echo.Context) error {
	ctx := c.Request().Context()
	state, err := s.flow.Current(ctx)
	if err != nil {
		return err
	}
	if state.Roadmap != nil && state.Phase == types.PhaseRendered {
		return c.Render(http.StatusOK, "roadmap.html", roadmapView{Roadmap: state.Roadmap, Source: string(state.Source)})
	}
	return s.renderForm(c, http.StatusOK, formView{
		Form:       state.Form,
		ShowKey:    c.QueryParam("configure") != "",
		Generating: state.Phase == types.PhaseGenerating,
	})
}

func (s *Server) renderForm(c echo.Context, status int, view formView) error {
	view.Configured = s.flow.Configured(c.Request().Context())
	view.Fields = agent.RoadmapFormSpec{}.Fields()
	return c.Render(status, "form.html", view)
}

func formRequest(c echo.Context) types.Request {
	return types.Request{
		Career:          c.FormValue("career"),
		ExperienceLevel: c.FormValue("experienceLevel"),
		Goals:           c.FormValue("goals"),
	}
}

func (s *Server) configureKey(c echo.Context) error {
	if err := s.flow.Configure(c.Request().Context(), c.FormValue("apiKey")); err != nil {
		return s.renderForm(c, statusFor(err), formView{
			Form:    formRequest(c),
			ShowKey: true,
			Error:   messageFor(err),
		})
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) generate(c echo.Context) error {
	ctx := c.Request().Context()
	form := formRequest(c)
	if apiKey := strings.TrimSpace(c.FormValue("apiKey")); apiKey != "" {
		if err := s.flow.Configure(ctx, apiKey); err != nil {
			return s.renderForm(c, statusFor(err), formView{Form: form, ShowKey: true, Error: messageFor(err)})
		}
	}

	if _, err := s.flow.Invoke(ctx, &form); err != nil {
		view := formView{Form: form, Error: messageFor(err)}
		if errors.Is(err, agent.ErrNotConfigured) {
			view.ShowKey = true
			view.Error = ""
		}
		if errors.Is(err, agent.ErrInFlight) {
			view.Generating = true
		}
		return s.renderForm(c, statusFor(err), view)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) demo(c echo.Context) error {
	if _, err := s.flow.Demo(c.Request().Context(), c.FormValue("career")); err != nil {
		return s.renderForm(c, statusFor(err), formView{Form: formRequest(c), Error: messageFor(err), Generating: errors.Is(err, agent.ErrInFlight)})
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) reset(c echo.Context) error {
	if _, err := s.flow.Reset(c.Request().Context()); err != nil {
		return s.renderForm(c, statusFor(err), formView{Error: messageFor(err), Generating: errors.Is(err, agent.ErrInFlight)})
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func statusFor(err error) int {
	var validationErr *agent.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, agent.ErrNotConfigured):
		return http.StatusUnauthorized
	case errors.Is(err, agent.ErrInFlight):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	var validationErr *agent.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return "Please fill in all fields"
	case errors.Is(err, agent.ErrNotConfigured):
		return "Please enter your API key"
	case errors.Is(err, agent.ErrInFlight):
		return "Your roadmap is still being generated"
	default:
		slog.Error("Request failed", "error", err)
		return "Something went wrong, please try again"
	}
}
