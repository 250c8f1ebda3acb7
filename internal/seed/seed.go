// Package seed loads the demo restaurant catalog from YAML.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

type File struct {
	Restaurants []Restaurant `yaml:"restaurants"`
}

type Restaurant struct {
	Name        string                    `yaml:"name"`
	Description string                    `yaml:"description"`
	Address     string                    `yaml:"address"`
	City        string                    `yaml:"city"`
	CuisineType string                    `yaml:"cuisine_type"`
	PriceRange  int                       `yaml:"price_range"`
	Contact     model.ContactInfo         `yaml:"contact"`
	Location    *model.Location           `yaml:"location"`
	Dishes      []model.CreateDishRequest `yaml:"dishes"`
}

type Importer interface {
	ImportCatalog(ctx context.Context, entries []model.CatalogEntry) (int, error)
}

// Parse decodes a seed document. Unknown keys are rejected so typos do not
// silently drop data.
func Parse(r io.Reader) ([]model.CatalogEntry, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file File
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	entries := make([]model.CatalogEntry, 0, len(file.Restaurants))
	for _, rest := range file.Restaurants {
		entries = append(entries, model.CatalogEntry{
			Restaurant: model.CreateRestaurantRequest{
				Name:        rest.Name,
				Description: rest.Description,
				Address:     rest.Address,
				City:        rest.City,
				CuisineType: rest.CuisineType,
				PriceRange:  rest.PriceRange,
				Contact:     rest.Contact,
				Location:    rest.Location,
			},
			Dishes: rest.Dishes,
		})
	}
	return entries, nil
}

// Apply loads path and hands it to the importer. An empty path is a no-op.
func Apply(ctx context.Context, path string, importer Importer) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	entries, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		slog.Warn("seed file has no restaurants", "path", path)
		return nil
	}

	n, err := importer.ImportCatalog(ctx, entries)
	if err != nil {
		return fmt.Errorf("import seed catalog: %w", err)
	}
	if n > 0 {
		slog.Info("seed applied", "path", path, "restaurants", n)
	}
	return nil
}
