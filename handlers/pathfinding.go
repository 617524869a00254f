package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"gridduel-backend/algorithms"
)

// PathfindingRequest - stateless query, the session grid is not touched
type PathfindingRequest struct {
	Start     algorithms.Cell   `json:"start"`
	Goal      algorithms.Cell   `json:"goal"`
	Size      int               `json:"size"`
	Obstacles []algorithms.Cell `json:"obstacles"`
}

type PathfindingResponse struct {
	Success bool     `json:"success"`
	Path    [][2]int `json:"path,omitempty"`
	Length  int      `json:"length"`
	Message string   `json:"message,omitempty"`
}

func HandlePathfinding(c *fiber.Ctx) error {
	var req PathfindingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(PathfindingResponse{
			Success: false,
			Message: "invalid request body",
		})
	}

	size := req.Size
	if size == 0 {
		size = algorithms.DefaultGridSize
	}
	if !algorithms.ValidSize(size) {
		return c.Status(fiber.StatusBadRequest).JSON(PathfindingResponse{
			Success: false,
			Message: algorithms.ErrGridSize.Error(),
		})
	}

	grid := algorithms.NewGrid(size)
	for _, ob := range req.Obstacles {
		grid.SetBlocked(ob, true)
	}
	if !grid.IsWalkable(req.Start) {
		return c.Status(fiber.StatusBadRequest).JSON(PathfindingResponse{
			Success: false,
			Message: "start must be a walkable cell inside the grid",
		})
	}
	log.Printf("📍 Pathfinding %v -> %v on %dx%d (%d obstacles)", req.Start, req.Goal, size, size, grid.BlockedCount())

	path := algorithms.FindPath(req.Start, req.Goal, grid)
	if path == nil {
		log.Printf("❌ No path %v -> %v", req.Start, req.Goal)
		return c.Status(fiber.StatusOK).JSON(PathfindingResponse{
			Success: false,
			Message: "no path found",
		})
	}

	log.Printf("✅ Path found: %d cells", len(path))
	return c.Status(fiber.StatusOK).JSON(PathfindingResponse{
		Success: true,
		Path:    algorithms.PathPairs(path),
		Length:  len(path) - 1,
		Message: "path found",
	})
}
