package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for local JSON seed files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based seed loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a JSON seed document from the local filesystem.
func (l *fileLoader) Load(ctx context.Context, path string) (*Seed, error) {
	l.logger.Info().Str("file", path).Msg("loading catalog seed")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open seed file")
		return nil, fmt.Errorf("failed to open seed file %s: %w", path, err)
	}
	defer file.Close()

	var seed Seed
	if err := json.NewDecoder(file).Decode(&seed); err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to decode seed file")
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("ingredients", len(seed.Ingredients)).
		Int("packs", len(seed.Packs)).
		Msg("catalog seed loaded")

	return &seed, nil
}
