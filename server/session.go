package server

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tbxark/roadmapagent/agent"
)

const (
	sessionName  = "roadmap_session"
	sessionIDKey = "id"
)

// session routes each request to its session state. The cookie only carries a random id.
func (s *Server) session(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		sess, err := s.sessions.Get(req, sessionName)
		if err != nil && sess == nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		id, ok := sess.Values[sessionIDKey].(string)
		if !ok || id == "" {
			id = uuid.NewString()
			sess.Values[sessionIDKey] = id
			if err := sess.Save(req, c.Response()); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
		}
		c.Set(sessionIDKey, id)
		c.SetRequest(req.WithContext(agent.WithStateKey(req.Context(), id)))
		return next(c)
	}
}
