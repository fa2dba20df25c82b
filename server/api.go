package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tbxark/roadmapagent/agent"
	"github.com/tbxark/roadmapagent/types"
)

type keyRequest struct {
	APIKey string `json:"apiKey"`
}

type demoRequest struct {
	Career string `json:"career"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields []types.FieldInfo `json:"fields,omitempty"`
}

func apiError(c echo.Context, err error) error {
	body := errorResponse{Error: messageFor(err)}
	var validationErr *agent.ValidationError
	if errors.As(err, &validationErr) {
		body.Fields = validationErr.Fields
	}
	return c.JSON(statusFor(err), body)
}

func (s *Server) apiConfigureKey(c echo.Context) error {
	var req keyRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := s.flow.Configure(c.Request().Context(), req.APIKey); err != nil {
		return apiError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) apiGenerate(c echo.Context) error {
	var req types.Request
	if err := c.Bind(&req); err != nil {
		return err
	}
	resp, err := s.flow.Invoke(c.Request().Context(), &req)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, resp.State)
}

func (s *Server) apiCurrent(c echo.Context) error {
	state, err := s.flow.Current(c.Request().Context())
	if err != nil {
		return apiError(c, err)
	}
	if state.Roadmap == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "no roadmap generated yet"})
	}
	return c.JSON(http.StatusOK, state)
}

func (s *Server) apiDemo(c echo.Context) error {
	var req demoRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return err
		}
	}
	resp, err := s.flow.Demo(c.Request().Context(), req.Career)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, resp.State)
}

func (s *Server) apiReset(c echo.Context) error {
	if _, err := s.flow.Reset(c.Request().Context()); err != nil {
		return apiError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) apiSchema(c echo.Context) error {
	schema, err := types.RoadmapJSONSchema()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, []byte(schema))
}

func (s *Server) apiRequestSchema(c echo.Context) error {
	schema, err := s.flow.Spec().JsonSchema()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, []byte(schema))
}
