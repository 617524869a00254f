package services

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"gridduel-backend/algorithms"
	"gridduel-backend/models"
)

// layoutFile - on-disk grid layout (YAML, or JSON since YAML reads it too)
//
// Either list every cell in `cells` (x + z*size order) or use the
// shorthand `obstructions`, `player` and `enemy`.
type layoutFile struct {
	ID           string            `yaml:"id"`
	Size         int               `yaml:"size"`
	Cells        []models.CellType `yaml:"cells"`
	Obstructions [][2]int          `yaml:"obstructions"`
	Player       *[2]int           `yaml:"player"`
	Enemy        *[2]int           `yaml:"enemy"`
}

// LoadLayoutFile - read and parse a layout asset
func LoadLayoutFile(path string, defaultSize int) (*models.GridLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", path, err)
	}
	layout, err := ParseLayout(data, defaultSize)
	if err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", path, err)
	}
	return layout, nil
}

// ErrLayoutName - requested layout is not a plain file name
var ErrLayoutName = errors.New("layout name must be a .yaml, .yml or .json file name")

// ResolveLayoutPath - path of a named layout inside dir
//
// Only bare file names are accepted, so a request can never leave dir.
func ResolveLayoutPath(dir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return "", ErrLayoutName
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
	default:
		return "", ErrLayoutName
	}
	return filepath.Join(dir, name), nil
}

// ParseLayout - decode a layout document
//
// The cell count is not checked here; the grid reports a mismatch when it
// is built from the layout.
func ParseLayout(data []byte, defaultSize int) (*models.GridLayout, error) {
	var raw layoutFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	size := raw.Size
	if size == 0 {
		size = defaultSize
	}
	if !algorithms.ValidSize(size) {
		return nil, fmt.Errorf("%w, got %d", algorithms.ErrGridSize, size)
	}
	id := raw.ID
	if id == "" {
		id = uuid.New().String()
	}

	if len(raw.Cells) > 0 {
		for i, c := range raw.Cells {
			if !c.Valid() {
				return nil, fmt.Errorf("cell %d: unknown cell type %q", i, c)
			}
		}
		return &models.GridLayout{
			ID:        id,
			Size:      size,
			Cells:     raw.Cells,
			CreatedAt: time.Now(),
		}, nil
	}

	layout := models.NewGridLayout(id, size)
	for _, o := range raw.Obstructions {
		if layout.Index(o[0], o[1]) < 0 {
			return nil, fmt.Errorf("obstruction (%d,%d) outside %dx%d grid", o[0], o[1], size, size)
		}
		layout.Set(o[0], o[1], models.CellObstruction)
	}
	if raw.Player != nil {
		layout.Set(raw.Player[0], raw.Player[1], models.CellPlayer)
	}
	if raw.Enemy != nil {
		layout.Set(raw.Enemy[0], raw.Enemy[1], models.CellEnemy)
	}
	return layout, nil
}

// SpawnCells - starting cells from the layout's Player and Enemy tags
//
// Missing tags fall back to opposite corners.
func SpawnCells(layout *models.GridLayout, size int) (player, enemy algorithms.Cell) {
	player = algorithms.Cell{X: 0, Z: 0}
	enemy = algorithms.Cell{X: size - 1, Z: size - 1}
	if layout == nil || len(layout.Cells) != size*size {
		return player, enemy
	}
	if x, z, ok := layout.Find(models.CellPlayer); ok {
		player = algorithms.Cell{X: x, Z: z}
	}
	if x, z, ok := layout.Find(models.CellEnemy); ok {
		enemy = algorithms.Cell{X: x, Z: z}
	}
	return player, enemy
}

// LayoutGenerator - random layouts for quick sessions
type LayoutGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLayoutGenerator - seed 0 seeds from the clock
func NewLayoutGenerator(seed int64) *LayoutGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &LayoutGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// maxGenerateAttempts - retries before giving up on a connected layout
const maxGenerateAttempts = 50

// Generate - random obstructions with the player and enemy connected
func (lg *LayoutGenerator) Generate(size, obstacles int) (*models.GridLayout, error) {
	lg.mu.Lock()
	defer lg.mu.Unlock()

	cells := size * size
	if obstacles < 0 || obstacles > cells-2 {
		return nil, fmt.Errorf("cannot place %d obstacles on a %dx%d grid", obstacles, size, size)
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		layout := models.NewGridLayout(uuid.New().String(), size)

		// obstacles, player and enemy all land on distinct cells
		perm := lg.rng.Perm(cells)
		for _, idx := range perm[:obstacles] {
			layout.Cells[idx] = models.CellObstruction
		}
		playerIdx, enemyIdx := perm[obstacles], perm[obstacles+1]
		layout.Cells[playerIdx] = models.CellPlayer
		layout.Cells[enemyIdx] = models.CellEnemy

		grid, err := algorithms.NewGridFromLayout(layout.Cells, size)
		if err != nil {
			return nil, err
		}
		player, enemy := SpawnCells(layout, size)
		if algorithms.FindPath(enemy, player, grid) != nil {
			return layout, nil
		}
	}

	return nil, fmt.Errorf("no connected layout with %d obstacles after %d attempts", obstacles, maxGenerateAttempts)
}
