package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-chat/internal/chat"
	"github.com/i474232898/weather-chat/internal/weather"
)

var validate = validator.New()

// PersistenceHeader is set to "failed" when an answer was returned but not recorded.
const PersistenceHeader = "X-Persistence-Status"

// Options tunes the chat routes.
type Options struct {
	// RequestTimeout bounds one chat request, including downstream calls.
	RequestTimeout time.Duration
	// RecordsMaxLimit caps the records listing.
	RecordsMaxLimit int
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, router *chat.Router, records chat.Store, opts Options) {
	if opts.RecordsMaxLimit <= 0 {
		opts.RecordsMaxLimit = 100
	}
	api := app.Group("/api")

	api.Post("/chat", func(c *fiber.Ctx) error {
		var req chatRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx := c.UserContext()
		if opts.RequestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.RequestTimeout)
			defer cancel()
		}

		query := *req.UserQuery
		response, err := router.Route(ctx, query)
		if err != nil {
			if errors.Is(err, chat.ErrPersistence) && response != "" {
				c.Set(PersistenceHeader, "failed")
				return c.JSON(fiber.Map{query: response})
			}
			return toHTTPError(err)
		}

		return c.JSON(fiber.Map{query: response})
	})

	api.Get("/records", func(c *fiber.Ctx) error {
		var q recordsQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Var(q.Limit, "gte=1,lte="+strconv.Itoa(opts.RecordsMaxLimit)); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(opts.RecordsMaxLimit))
		}

		recs, err := records.Recent(c.UserContext(), q.Limit)
		if err != nil {
			log.Error().Err(err).Msg("failed to list records")
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list records")
		}
		if recs == nil {
			recs = []chat.Record{}
		}
		return c.JSON(fiber.Map{
			"records": recs,
			"count":   len(recs),
		})
	})
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// toHTTPError maps routing failures to status codes. Lookup failures are the
// caller's to fix; a missing answer is ours.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, "request timed out")
	case errors.Is(err, chat.ErrNoResponse):
		return fiber.NewError(fiber.StatusInternalServerError, chat.ErrNoResponse.Error())
	case errors.Is(err, weather.ErrInvalidIntent):
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	case errors.Is(err, weather.ErrGeoResolution), errors.Is(err, weather.ErrUpstreamFetch):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("unexpected routing failure")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to process query")
	}
}

// chatRequest is the body of POST /api/chat. The query may be empty but must be present.
type chatRequest struct {
	UserQuery *string `json:"user_query" validate:"required,max=4096"`
}

// recordsQuery holds query parameters for the records endpoint.
type recordsQuery struct {
	Limit int
}

func (r *recordsQuery) bind(c *fiber.Ctx) error {
	r.Limit = 20
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("limit must be an integer")
		}
		r.Limit = n
	}
	return nil
}
