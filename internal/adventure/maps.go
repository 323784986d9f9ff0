package adventure

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-rpg/internal/action"
	"github.com/vovakirdan/tui-rpg/internal/rpg"
)

//go:embed maps/*.yaml
var mapFiles embed.FS

// ErrMapNotFound is returned when loading a map that does not exist.
var ErrMapNotFound = errors.New("adventure: map not found")

// YAMLMap is the file format of a map.
type YAMLMap struct {
	Title   string       `yaml:"title"`
	Tiles   string       `yaml:"tiles"`
	Start   YAMLPoint    `yaml:"start"`
	Objects []YAMLObject `yaml:"objects"`
}

// YAMLPoint is a tile coordinate.
type YAMLPoint struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// YAMLObject is a tagged rectangle handed to LoadAction.
type YAMLObject struct {
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	W     int    `yaml:"w,omitempty"`
	H     int    `yaml:"h,omitempty"`
	Value string `yaml:"value"`
}

// MapNames returns the names of the shipped maps, sorted.
func MapNames() []string {
	entries, err := fs.ReadDir(mapFiles, "maps")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// LoadMap reads the shipped map name and creates the actions of its
// objects.
func (a *Adventure) LoadMap(name string) (*rpg.Map, error) {
	data, err := mapFiles.ReadFile(path.Join("maps", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMapNotFound, name)
	}
	return a.ParseMap(name, data)
}

// ParseMap decodes a YAML map. On error every action created so far is
// released.
func (a *Adventure) ParseMap(name string, data []byte) (*rpg.Map, error) {
	var ym YAMLMap
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return nil, fmt.Errorf("adventure: map %s: %w", name, err)
	}
	tiles := strings.Split(strings.TrimRight(ym.Tiles, "\n"), "\n")
	if len(tiles) == 0 || tiles[0] == "" {
		return nil, fmt.Errorf("adventure: map %s: no tiles", name)
	}

	m := rpg.NewMap(name, ym.Title, tiles, a.Config.Engine.MapActions)
	m.Place(ym.Start.X, ym.Start.Y)
	if !m.Walkable(ym.Start.X, ym.Start.Y) {
		return nil, fmt.Errorf("adventure: map %s: start (%d, %d) is not walkable", name, ym.Start.X, ym.Start.Y)
	}

	for _, o := range ym.Objects {
		act, err := a.LoadAction(m, o.X, o.Y, o.W, o.H, o.Value)
		if err != nil {
			m.Finish()
			return nil, fmt.Errorf("adventure: map %s: %w", name, err)
		}
		if err := m.Add(act); err != nil {
			action.Finish(act)
			m.Finish()
			return nil, fmt.Errorf("adventure: map %s: %w", name, err)
		}
	}
	return m, nil
}
