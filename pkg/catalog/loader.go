package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"rental-booking/pkg/models"
)

//go:embed data/*.json
var defaultData embed.FS

var extensions = []string{".json", ".yaml", ".yml"}

type stationList struct {
	Data []models.Station `json:"data" yaml:"data"`
}

// Default returns the catalog bundled with the binary
func Default() (*Catalog, error) {
	sub, err := fs.Sub(defaultData, "data")
	if err != nil {
		return nil, fmt.Errorf("error opening embedded catalog: %w", err)
	}
	return LoadFS(sub)
}

// Load reads the catalog from dir. An empty dir means the bundled data.
func Load(dir string) (*Catalog, error) {
	if dir == "" {
		return Default()
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads countries, stations and vehicles files from fsys. Each file
// may be JSON or YAML, picked by extension.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	var countries []models.Country
	if err := readFile(fsys, "countries", &countries); err != nil {
		return nil, err
	}

	var stations map[string]stationList
	if err := readFile(fsys, "stations", &stations); err != nil {
		return nil, err
	}

	var vehicles []models.Vehicle
	if err := readFile(fsys, "vehicles", &vehicles); err != nil {
		return nil, err
	}

	byCountry := make(map[string][]models.Station, len(stations))
	for name, list := range stations {
		byCountry[name] = list.Data
	}

	c := New(countries, byCountry, vehicles)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("error validating catalog: %w", err)
	}
	return c, nil
}

func readFile(fsys fs.FS, base string, out interface{}) error {
	for _, ext := range extensions {
		name := base + ext
		data, err := fs.ReadFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("error reading %s: %w", name, err)
		}
		if err := decode(name, data, out); err != nil {
			return fmt.Errorf("error parsing %s: %w", name, err)
		}
		return nil
	}
	return fmt.Errorf("catalog file %s not found (tried %s)", base, strings.Join(extensions, ", "))
}

func decode(name string, data []byte, out interface{}) error {
	switch path.Ext(name) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, out)
	default:
		return json.Unmarshal(data, out)
	}
}
