package timeline

import (
	"errors"
	"strconv"

	"move-timeline/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, err := contractID(c)
		if err != nil {
			return err
		}
		from, err := epochQuery(c, "from")
		if err != nil {
			return err
		}
		to, err := epochQuery(c, "to")
		if err != nil {
			return err
		}

		summaries, err := svc.Summaries(c.UserContext(), userID, from, to)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"status": fiber.Map{"code": 0},
			"data":   fiber.Map{"timelineItemBaseList": summaries},
		})
	})

	r.Get("/:id/details", authMiddleware, func(c *fiber.Ctx) error {
		userID, err := contractID(c)
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id must be a number")
		}

		detail, err := svc.Details(c.UserContext(), userID, id)
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "item not found")
		}
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"status": fiber.Map{"code": 0},
			"data":   fiber.Map{"tripDetail": detail},
		})
	})
}

// contractID is the provider-side user key, which is the caller's email.
func contractID(c *fiber.Ctx) (string, error) {
	id, ok := auth.IdentityFrom(c)
	if !ok || id.Email == "" {
		return "", fiber.NewError(fiber.StatusForbidden, "you must be logged in to fetch timeline items")
	}
	return id.Email, nil
}

func epochQuery(c *fiber.Ctx, key string) (int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, key+" is a required parameter")
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, key+" must be a number")
	}
	return v, nil
}
