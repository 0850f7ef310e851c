package httpapi

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/i474232898/weatherdash/internal/store"
	"github.com/i474232898/weatherdash/internal/weather"
)

// SessionCookie carries the dashboard session ID.
const SessionCookie = "weatherdash_session"

var validate = validator.New()

type handler struct {
	service *weather.Service
	logger  *zap.Logger
}

// RegisterRoutes wires the dashboard and API handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handler{service: service, logger: logger}

	app.Get("/", h.dashboard)

	v1 := app.Group("/api/v1")
	v1.Get("/view", h.view)
	v1.Get("/records", h.records)
	v1.Post("/regenerate", h.regenerate)
	v1.Delete("/session", h.endSession)
}

func (h *handler) dashboard(c *fiber.Ctx) error {
	update, err := parseFilterQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	id, err := h.resolveSession(c)
	if err != nil {
		return err
	}

	view, err := h.service.ApplyFilters(c.UserContext(), id, update)
	if err != nil {
		return h.internal(err, "failed to render dashboard")
	}

	page, err := renderDashboard(view)
	if err != nil {
		return h.internal(err, "failed to render dashboard")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page)
}

func (h *handler) view(c *fiber.Ctx) error {
	update, err := parseFilterQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	id, err := h.resolveSession(c)
	if err != nil {
		return err
	}

	view, err := h.service.ApplyFilters(c.UserContext(), id, update)
	if err != nil {
		return h.internal(err, "failed to derive view")
	}
	return c.JSON(view)
}

func (h *handler) records(c *fiber.Ctx) error {
	id, err := h.resolveSession(c)
	if err != nil {
		return err
	}

	sess, err := h.service.Session(c.UserContext(), id)
	if err != nil {
		return h.internal(err, "failed to load records")
	}

	return c.JSON(fiber.Map{
		"generation": sess.Generation,
		"records":    sess.Records,
	})
}

func (h *handler) regenerate(c *fiber.Ctx) error {
	id, err := h.resolveSession(c)
	if err != nil {
		return err
	}

	view, err := h.service.Regenerate(c.UserContext(), id)
	if err != nil {
		return h.internal(err, "failed to regenerate records")
	}
	return c.JSON(view)
}

func (h *handler) endSession(c *fiber.Ctx) error {
	id := c.Cookies(SessionCookie)
	if id == "" {
		return fiber.NewError(fiber.StatusNotFound, "no active session")
	}

	err := h.service.EndSession(c.UserContext(), id)
	c.ClearCookie(SessionCookie)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no active session")
		}
		return h.internal(err, "failed to end session")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// resolveSession returns the caller's session ID, starting a new session
// when the cookie is missing or names an expired session.
func (h *handler) resolveSession(c *fiber.Ctx) (string, error) {
	ctx := c.UserContext()

	if id := c.Cookies(SessionCookie); id != "" {
		_, err := h.service.Session(ctx, id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return "", h.internal(err, "failed to load session")
		}
	}

	sess, err := h.service.NewSession(ctx)
	if err != nil {
		return "", h.internal(err, "failed to start session")
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return sess.ID, nil
}

func (h *handler) internal(err error, msg string) error {
	if errors.Is(err, context.Canceled) {
		return fiber.NewError(fiber.StatusRequestTimeout, "request canceled")
	}
	h.logger.Error(msg, zap.Error(err))
	return fiber.NewError(fiber.StatusInternalServerError, msg)
}

// filterQuery holds the optional filter query parameters.
type filterQuery struct {
	Search string `validate:"max=64"`
	Temp   string `validate:"omitempty,oneof=all high low"`
	Time   string `validate:"omitempty,oneof=all morning evening"`
}

// parseFilterQuery turns the query string into a filter update.
// Only parameters present in the request are applied.
func parseFilterQuery(c *fiber.Ctx) (weather.FilterUpdate, error) {
	q := filterQuery{
		Search: c.Query("search"),
		Temp:   c.Query("temp"),
		Time:   c.Query("time"),
	}
	if err := validate.Struct(q); err != nil {
		return weather.FilterUpdate{}, err
	}

	var u weather.FilterUpdate
	if c.Context().QueryArgs().Has("search") {
		u.Search = &q.Search
	}
	if q.Temp != "" {
		b := weather.TempBucket(q.Temp)
		u.Temp = &b
	}
	if q.Time != "" {
		b := weather.TimeBucket(q.Time)
		u.Time = &b
	}
	return u, nil
}
