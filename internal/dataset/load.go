package dataset

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Source selects where the dataset is read from. An empty Driver means the CSV file
// at Path.
type Source struct {
	Path   string
	Driver string
	DSN    string
	Table  string
}

func (s Source) String() string {
	if s.Driver == "" {
		return "csv:" + s.Path
	}
	return s.Driver + ":" + s.Table
}

// Load reads the dataset from src once.
func Load(ctx context.Context, src Source, logger *zap.Logger) (*Dataset, error) {
	if src.Driver == "" {
		return LoadCSVFile(src.Path, logger)
	}
	db, err := Open(ctx, src.Driver, src.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect dataset: %w", err)
	}
	defer db.Close()
	return LoadSQL(ctx, db, src.Table, logger)
}
