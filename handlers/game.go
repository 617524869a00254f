package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"gridduel-backend/models"
	"gridduel-backend/services"
)

var (
	gameSession *services.GameSession
	layoutGen   *services.LayoutGenerator
	gameConfig  services.Config
)

// InitGame - handlers act on this session
func InitGame(session *services.GameSession, cfg services.Config) {
	gameSession = session
	gameConfig = cfg
	layoutGen = services.NewLayoutGenerator(0)
	log.Printf("✅ Game handlers bound to session %s", session.ID)
}

var (
	errNoSession         = errors.New("no active session")
	errLayoutUnavailable = errors.New("layout could not be loaded")
)

// resetSession - new layout from a random draw, a layout file, or the configured default
func resetSession(cmd models.ResetCommand) error {
	if gameSession == nil {
		return errNoSession
	}

	var layout *models.GridLayout
	var err error
	switch {
	case cmd.Random:
		gen := layoutGen
		if cmd.Seed != 0 {
			gen = services.NewLayoutGenerator(cmd.Seed)
		}
		layout, err = gen.Generate(gameConfig.GridSize, cmd.Obstacles)
	case cmd.Layout != "":
		layout, err = loadNamedLayout(cmd.Layout)
	case gameConfig.LayoutPath != "":
		layout, err = services.LoadLayoutFile(gameConfig.LayoutPath, gameConfig.GridSize)
		if err != nil {
			log.Printf("❌ %v", err)
			err = errLayoutUnavailable
		}
	}
	if err != nil {
		return err
	}

	gameSession.Reset(layout)
	return nil
}

// loadNamedLayout - layout file from the layouts directory, details stay in the server log
func loadNamedLayout(name string) (*models.GridLayout, error) {
	path, err := services.ResolveLayoutPath(gameConfig.LayoutDir, name)
	if err != nil {
		log.Printf("⚠️  Rejected layout name %q", name)
		return nil, err
	}
	layout, err := services.LoadLayoutFile(path, gameConfig.GridSize)
	if err != nil {
		log.Printf("❌ %v", err)
		return nil, errLayoutUnavailable
	}
	return layout, nil
}

func HandleHealth(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status":  "OK",
		"clients": Manager.GetClientCount(),
		"time":    time.Now().Format(time.RFC3339),
	}
	if gameSession != nil {
		resp["session_id"] = gameSession.ID
	}
	return c.JSON(resp)
}

// HandleState - session snapshot
func HandleState(c *fiber.Ctx) error {
	if gameSession == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   errNoSession.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"state":   gameSession.Status(),
		"layout":  gameSession.LayoutMessage(),
	})
}

// HandleMove - player movement request
//
// 200 when accepted, 409 while the enemy is moving, 422 when unreachable.
func HandleMove(c *fiber.Ctx) error {
	if gameSession == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   errNoSession.Error(),
		})
	}

	var cmd models.MoveCommand
	if err := c.BodyParser(&cmd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	result := gameSession.RequestMove(models.Position{X: cmd.X, Y: cmd.Y, Z: cmd.Z})
	status := fiber.StatusOK
	switch result {
	case services.MoveDropped:
		status = fiber.StatusConflict
	case services.MoveNoPath:
		status = fiber.StatusUnprocessableEntity
	}

	return c.Status(status).JSON(fiber.Map{
		"success": result == services.MoveAccepted,
		"result":  result,
		"state":   gameSession.Status(),
	})
}

// HandleReset - rebuild the session on a new layout
func HandleReset(c *fiber.Ctx) error {
	var cmd models.ResetCommand
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&cmd); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "invalid request body",
			})
		}
	}

	if err := resetSession(cmd); err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, errNoSession) {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"state":   gameSession.Status(),
		"layout":  gameSession.LayoutMessage(),
	})
}

// HandleCell - cell under a world position
func HandleCell(c *fiber.Ctx) error {
	if gameSession == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   errNoSession.Error(),
		})
	}

	x, errX := strconv.ParseFloat(c.Query("x"), 64)
	z, errZ := strconv.ParseFloat(c.Query("z"), 64)
	if errX != nil || errZ != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "x and z query parameters are required",
		})
	}

	cell, inBounds, walkable := gameSession.CellInfo(models.Position{X: x, Z: z})
	return c.JSON(fiber.Map{
		"success":   true,
		"cell":      cell.Pair(),
		"label":     cell.String(),
		"in_bounds": inBounds,
		"walkable":  walkable,
	})
}
