package items

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/watchkeeper/internal/dbx"
	"github.com/dmitrijs2005/watchkeeper/internal/models"
)

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) List(ctx context.Context, limit int) ([]models.WatchListItem, error) {
	query := r.dialect.Rebind(
		`SELECT id, media_type, name, rating, would_watch_again
		 FROM watch_list
		 ORDER BY id
		 LIMIT ?`)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.WatchListItem, 0)
	for rows.Next() {
		var (
			id        int64
			mediaType string
			item      models.WatchListItem
		)
		if err := rows.Scan(&id, &mediaType, &item.Name, &item.Rating, &item.WouldWatchAgain); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		mt, err := models.ParseMediaType(mediaType)
		if err != nil {
			return nil, fmt.Errorf("scan error: row %d: %w", id, err)
		}
		item.ID = models.Assigned(id)
		item.MediaType = mt
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) ExistsByName(ctx context.Context, name string, mediaType models.MediaType) (bool, error) {
	query := r.dialect.Rebind(
		`SELECT EXISTS (
			SELECT 1 FROM watch_list
			WHERE LOWER(TRIM(name)) = LOWER(TRIM(?))
			AND media_type = ?
		)`)

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name, string(mediaType)).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *SQLRepository) Create(ctx context.Context, item *models.WatchListItem) (int64, error) {
	query := r.dialect.Rebind(
		`INSERT INTO watch_list (media_type, name, rating, would_watch_again)
		 VALUES (?, ?, ?, ?)
		 RETURNING id`)

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		string(item.MediaType), item.Name, item.Rating, item.WouldWatchAgain).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	item.ID = models.Assigned(id)
	return id, nil
}

func (r *SQLRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := r.dialect.Rebind(
		fmt.Sprintf(`DELETE FROM watch_list WHERE id IN (%s)`, dbx.Placeholders(len(ids))))

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}

	return n, nil
}
