package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"charity-chat-service/internal/models"
)

// ErrMissingColumn is returned when the source lacks one of the required columns.
var ErrMissingColumn = errors.New("missing required column")

var requiredColumns = []string{"charityid", "category", "cause", "tagline", "mission"}

// LoadCSVFile reads the CSV dataset at path.
func LoadCSVFile(path string, logger *zap.Logger) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return LoadCSV(f, logger)
}

// LoadCSV parses a CSV dataset with a header row. Extra columns are ignored; short
// rows read missing fields as empty. Rows with a non-integer charityid are skipped.
func LoadCSV(r io.Reader, logger *zap.Logger) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dataset is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	field := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]models.Charity, 0)
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		rawID := strings.TrimSpace(field(row, "charityid"))
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			logger.Warn("skipping row with invalid charityid", zap.Int("line", line), zap.String("charityid", rawID))
			continue
		}
		records = append(records, models.Charity{
			ID:       id,
			Category: field(row, "category"),
			Cause:    field(row, "cause"),
			Tagline:  field(row, "tagline"),
			Mission:  field(row, "mission"),
		})
	}
	return New(records), nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return idx, nil
}
