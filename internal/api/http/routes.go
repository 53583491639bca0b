package httpapi

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/hill02252024/hk-7day-typhoon/internal/artifact"
	"github.com/hill02252024/hk-7day-typhoon/internal/forecast"
)

var validate = validator.New()

// RegisterRoutes wires the artifact endpoints into the Fiber app. The
// handlers serve the produced JSON files verbatim; a missing artifact
// maps to 404 so the front-end can tell "not built yet" from failure.
func RegisterRoutes(app *fiber.App, artifacts *artifact.Store) {
	v1 := app.Group("/api/v1/forecast")

	serve := func(name string) fiber.Handler {
		return func(c *fiber.Ctx) error {
			b, err := artifacts.Read(name)
			if err != nil {
				if errors.Is(err, artifact.ErrNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "artifact not produced yet")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "failed to read artifact")
			}
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
			return c.Send(b)
		}
	}

	v1.Get("/normalized", serve(artifact.NormalizedFile))
	v1.Get("/normalized/flat", serve(artifact.FlatFile))
	v1.Get("/consensus", serve(artifact.ConsensusFile))
	v1.Get("/risk", serve(artifact.RiskFile))
	v1.Get("/leaderboard", serve(artifact.LeaderboardFile))
	v1.Get("/impact", serve(artifact.ImpactFile))

	v1.Get("/providers/:id", func(c *fiber.Ctx) error {
		id := strings.ToLower(c.Params("id"))
		if err := validate.Var(id, "required,alphanum,lowercase"); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid provider id")
		}

		var set forecast.NormalizedSet
		if err := artifacts.ReadInto(artifact.NormalizedFile, &set); err != nil {
			if errors.Is(err, artifact.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "artifact not produced yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read artifact")
		}
		recs, ok := set[id]
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no data for provider")
		}
		return c.JSON(fiber.Map{
			"provider": id,
			"records":  recs,
		})
	})
}
