package maps

import (
	"embed"
	"encoding/json"
	"path"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"hansa-teutonica/internal/game"
)

//go:embed data/*.json
var mapFiles embed.FS

// Registry holds all loaded maps by ID.
var Registry = make(map[string]*Map)

var mu sync.RWMutex

// LoadAll loads all embedded maps.
func LoadAll() error {
	entries, err := mapFiles.ReadDir("data")
	if err != nil {
		return errors.Wrap(err, "failed to read map directory")
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		m, err := Load(entry.Name())
		if err != nil {
			return errors.WithMessagef(err, "failed to load map %s", entry.Name())
		}

		if err := Register(m); err != nil {
			return err
		}
	}

	return nil
}

// Load loads a single embedded map by filename.
func Load(filename string) (*Map, error) {
	data, err := mapFiles.ReadFile(path.Join("data", filename))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read map file")
	}
	return LoadFromJSON(data)
}

// LoadFromJSON loads a map from JSON bytes.
func LoadFromJSON(data []byte) (*Map, error) {
	var raw RawMap
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(game.ErrConfig, "failed to parse map JSON: %v", err)
	}

	if err := validate(&raw); err != nil {
		return nil, errors.WithMessage(err, "invalid map")
	}

	return Process(&raw)
}

// validate checks the fields Process does not derive anything from.
func validate(raw *RawMap) error {
	if raw.ID == "" {
		return errors.Wrap(game.ErrConfig, "map ID is required")
	}
	if raw.Name == "" {
		return errors.Wrap(game.ErrConfig, "map name is required")
	}
	if raw.Index < 0 {
		return errors.Wrapf(game.ErrConfig, "negative map index %d", raw.Index)
	}
	if raw.Width <= 0 || raw.Height <= 0 {
		return errors.Wrapf(game.ErrConfig, "invalid dimensions: %dx%d", raw.Width, raw.Height)
	}
	if len(raw.Cities) < 2 || len(raw.Routes) == 0 {
		return errors.Wrapf(game.ErrConfig, "%d cities and %d routes", len(raw.Cities), len(raw.Routes))
	}
	if raw.MaxFullCities <= 0 {
		return errors.Wrap(game.ErrConfig, "maxFullCities must be positive")
	}
	return nil
}

// Register adds a map to the registry. IDs and indexes must be unique.
func Register(m *Map) error {
	if m == nil || m.ID == "" {
		return errors.Wrap(game.ErrConfig, "map without an ID")
	}
	mu.Lock()
	defer mu.Unlock()
	for id, other := range Registry {
		if id != m.ID && other.Index == m.Index {
			return errors.Wrapf(game.ErrConfig, "maps %s and %s share index %d", id, m.ID, m.Index)
		}
	}
	Registry[m.ID] = m
	return nil
}

// Get retrieves a map from the registry by ID.
func Get(id string) *Map {
	mu.RLock()
	defer mu.RUnlock()
	return Registry[id]
}

// ByIndex retrieves a map by its serialization index.
func ByIndex(index int) *Map {
	mu.RLock()
	defer mu.RUnlock()
	for _, m := range Registry {
		if m.Index == index {
			return m
		}
	}
	return nil
}

// List returns basic information on every map, ordered by index.
func List() []MapInfo {
	mu.RLock()
	defer mu.RUnlock()
	infos := make([]MapInfo, 0, len(Registry))
	for _, m := range Registry {
		infos = append(infos, MapInfo{
			ID:         m.ID,
			Index:      m.Index,
			Name:       m.Name,
			CityCount:  m.CityCount(),
			RouteCount: m.RouteCount(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Index < infos[j].Index })
	return infos
}

// MapInfo contains basic map information for listing.
type MapInfo struct {
	ID         string `json:"id"`
	Index      int    `json:"index"`
	Name       string `json:"name"`
	CityCount  int    `json:"city_count"`
	RouteCount int    `json:"route_count"`
}
