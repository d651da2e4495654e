package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"charity-chat-service/internal/models"
)

// ErrDatabaseMissing is returned by Open when the server reports that the target
// database does not exist.
var ErrDatabaseMissing = errors.New("dataset database does not exist")

// Open connects to a SQL dataset source and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		if databaseDoesNotExist(err) {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseMissing, err)
		}
		return nil, err
	}
	return db, nil
}

func databaseDoesNotExist(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 3D000: invalid_catalog_name
		return string(pqErr.Code) == "3D000"
	}
	return false
}

// LoadSQL reads every row of table in storage order. NULL text columns read as
// empty strings and rows with a NULL charityid are skipped.
func LoadSQL(ctx context.Context, db *sql.DB, table string, logger *zap.Logger) (*Dataset, error) {
	q := `SELECT charityid, category, cause, tagline, mission FROM ` + pq.QuoteIdentifier(table)
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query dataset: %w", err)
	}
	defer rows.Close()

	records := make([]models.Charity, 0)
	for rows.Next() {
		var (
			id                                sql.NullInt64
			category, cause, tagline, mission sql.NullString
		)
		if err := rows.Scan(&id, &category, &cause, &tagline, &mission); err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}
		if !id.Valid {
			logger.Warn("skipping row with null charityid", zap.String("table", table))
			continue
		}
		records = append(records, models.Charity{
			ID:       id.Int64,
			Category: category.String,
			Cause:    cause.String,
			Tagline:  tagline.String,
			Mission:  mission.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dataset: %w", err)
	}
	return New(records), nil
}
