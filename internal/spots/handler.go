package spots

import (
	"context"
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/canbyr/spottalk/internal/geo"
)

// SpotStore is the store surface the HTTP handlers depend on.
type SpotStore interface {
	List(ctx context.Context) ([]Spot, error)
	Get(ctx context.Context, id int) (Spot, error)
	Create(ctx context.Context, input CreateSpotInput) (Spot, error)
	AppendComment(ctx context.Context, id int, comment string) (Spot, error)
	UpdateStars(ctx context.Context, id, stars int) (Spot, error)
}

// NearbyQuery struct - used to store parameters for the nearby spots query.
// Radius is in miles and defaults to 10 when omitted.
type NearbyQuery struct {
	Latitude  *float64 `query:"latitude" validate:"required"`
	Longitude *float64 `query:"longitude" validate:"required"`
	Radius    *float64 `query:"radius" validate:"omitempty,gte=0"`
}

// Handler exposes the spot store over HTTP.
type Handler struct {
	store SpotStore
	log   zerolog.Logger
}

func NewHandler(store SpotStore, log zerolog.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// Register mounts the spot routes. The nearby route is registered before the
// :id route so "nearby" is not captured as an id.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/spots", h.listSpots)
	app.Get("/spots/nearby", h.nearbySpots)
	app.Get("/spots/:id", h.getSpot)
	app.Post("/spots", h.createSpot)
	app.Put("/spots/:id/comments", h.addComment)
	app.Put("/spots/:id/stars", h.updateStars)
}

func (h *Handler) listSpots(c *fiber.Ctx) error {
	spots, err := h.store.List(c.UserContext())
	if err != nil {
		return h.respondError(c, err, "listing spots")
	}
	return c.JSON(spots)
}

func (h *Handler) getSpot(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Spot not found"})
	}

	spot, err := h.store.Get(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "fetching spot")
	}
	return c.JSON(spot)
}

func (h *Handler) createSpot(c *fiber.Ctx) error {
	input := new(CreateSpotInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	spot, err := h.store.Create(c.UserContext(), *input)
	if err != nil {
		return h.respondError(c, err, "adding spot")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Spot added",
		"spot":    spot,
	})
}

func (h *Handler) addComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Spot not found"})
	}

	var body struct {
		Comment *string `json:"comment"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if body.Comment == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Comment is required"})
	}

	spot, err := h.store.AppendComment(c.UserContext(), id, *body.Comment)
	if err != nil {
		return h.respondError(c, err, "adding comment")
	}

	return c.JSON(fiber.Map{
		"message": "Comment added",
		"spot":    spot,
	})
}

func (h *Handler) updateStars(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Spot not found"})
	}

	var body struct {
		Stars *float64 `json:"stars"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	// JSON has no integer type; reject anything with a fractional part.
	if body.Stars == nil || *body.Stars != math.Trunc(*body.Stars) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Stars must be an integer"})
	}

	spot, err := h.store.UpdateStars(c.UserContext(), id, int(*body.Stars))
	if err != nil {
		return h.respondError(c, err, "updating stars")
	}

	return c.JSON(fiber.Map{
		"message": "Stars updated",
		"spot":    spot,
	})
}

func (h *Handler) nearbySpots(c *fiber.Ctx) error {
	query := new(NearbyQuery)
	if err := c.QueryParser(query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid query parameters"})
	}

	if errs := ValidateStruct(*query); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	radius := 10.0
	if query.Radius != nil {
		radius = *query.Radius
	}

	spots, err := h.store.List(c.UserContext())
	if err != nil {
		return h.respondError(c, err, "listing spots")
	}

	origin := geo.Coordinate{Lat: *query.Latitude, Lng: *query.Longitude}
	nearby := geo.FilterNearby(origin, spots, radius)

	return c.JSON(Spots{Spots: nearby, Total: len(nearby)})
}

func (h *Handler) respondError(c *fiber.Ctx, err error, action string) error {
	var invalid *InvalidInputError

	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Spot not found"})
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": invalid.Reason})
	default:
		h.log.Error().Err(err).Msg(action)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
