package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/watchkeeper/internal/common"
	"github.com/dmitrijs2005/watchkeeper/internal/dbx"
	"github.com/dmitrijs2005/watchkeeper/internal/logging"
	"github.com/dmitrijs2005/watchkeeper/internal/models"
	"github.com/dmitrijs2005/watchkeeper/internal/server/backup"
	"github.com/dmitrijs2005/watchkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/watchkeeper/internal/validation"
)

const (
	MsgListFailed       = "Failed to retrieve watch list items from database"
	MsgUniquenessFailed = "Failed to verify uniqueness. Please try again."
	MsgInserted         = "Item added to watch list successfully"
	MsgInsertPermission = "Database permission error: Insufficient privileges to insert data."
	MsgInsertConnection = "Database connection error: Unable to connect to database."
	MsgInsertFailed     = "Failed to add item to watch list."
	MsgDeleteFailed     = "Failed to delete items from watch list"
)

var errDuplicate = errors.New("duplicate entry")

// WatchListService runs the store operations on the watch_list table. Every
// outcome, failures included, is reported as an envelope.
type WatchListService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	snapshots   backup.Snapshotter
	logger      logging.Logger
}

// NewWatchListService constructs the service. snapshots may be nil.
func NewWatchListService(db *sql.DB, m repomanager.RepositoryManager, snapshots backup.Snapshotter, l logging.Logger) *WatchListService {
	if l == nil {
		l = logging.Nop()
	}
	return &WatchListService{
		db:          db,
		repomanager: m,
		snapshots:   snapshots,
		logger:      l.With("module", "watchlist_service"),
	}
}

// List returns up to common.MaxListSize records ordered by id. Stored names
// are sanitized again on the way out.
func (s *WatchListService) List(ctx context.Context) *models.Envelope {
	items, err := s.repomanager.Items(s.db).List(ctx, common.MaxListSize)
	if err != nil {
		s.logger.Error(ctx, "list failed", "error", err)
		return failure(models.CodeInternal, MsgListFailed)
	}

	for i := range items {
		items[i].Name = validation.Sanitize(items[i].Name)
	}

	s.logger.Debug(ctx, "list", "count", len(items))
	return &models.Envelope{
		Success:      true,
		Message:      fmt.Sprintf("Retrieved %d items successfully", len(items)),
		RowsAffected: int64(len(items)),
		Items:        items,
	}
}

// Insert validates d and stores it unless a record with the same name and
// media type exists. The name is unescaped before validation so that
// sanitized and raw input are judged alike.
func (s *WatchListService) Insert(ctx context.Context, d models.Draft) *models.Envelope {
	d.Name = validation.Unescape(d.Name)

	errs := validation.ValidateItem(d)
	if err := validation.ValidateMediaType(d.MediaType); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		s.logger.Info(ctx, "insert rejected", "reason", validation.Join(errs))
		return failure(models.CodeValidation, validation.Join(errs))
	}

	mediaType, _ := models.ParseMediaType(string(d.MediaType))
	name := validation.Sanitize(d.Name)
	if strings.TrimSpace(name) == "" {
		return failure(models.CodeValidation, "Name cannot be empty")
	}

	item := &models.WatchListItem{
		ID:              models.Pending(),
		MediaType:       mediaType,
		Name:            name,
		Rating:          int(d.Rating),
		WouldWatchAgain: d.WouldWatchAgain,
	}

	var checkErr error
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Items(tx)
		exists, err := repo.ExistsByName(ctx, item.Name, item.MediaType)
		if err != nil {
			checkErr = err
			return err
		}
		if exists {
			return errDuplicate
		}
		_, err = repo.Create(ctx, item)
		return err
	})

	switch {
	case errors.Is(err, errDuplicate):
		msg := fmt.Sprintf("A %s with the name '%s' already exists in your watch list", item.MediaType.Label(), item.Name)
		s.logger.Info(ctx, "duplicate rejected", "name", item.Name, "media_type", item.MediaType)
		return failure(models.CodeDuplicate, msg)
	case checkErr != nil:
		s.logger.Error(ctx, "duplicate check failed", "error", checkErr)
		return failure(models.CodeInternal, MsgUniquenessFailed)
	case err != nil:
		s.logger.Error(ctx, "insert failed", "error", err)
		return failure(models.CodeInternal, insertFailureMessage(err))
	}

	id, _ := item.ID.Value()
	s.logger.Info(ctx, "item inserted", "id", id, "media_type", item.MediaType)
	s.snapshot(ctx)

	return &models.Envelope{Success: true, Message: MsgInserted, RowsAffected: 1}
}

// Delete removes the given records. Ids are validated, sorted and
// de-duplicated before the statement runs.
func (s *WatchListService) Delete(ctx context.Context, ids []int64) *models.Envelope {
	if err := validation.ValidateIDs(ids); err != nil {
		s.logger.Info(ctx, "delete rejected", "reason", err.Message)
		return failure(models.CodeValidation, err.Message)
	}

	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	n, err := s.repomanager.Items(s.db).DeleteByIDs(ctx, unique)
	if err != nil {
		s.logger.Error(ctx, "delete failed", "error", err)
		return failure(models.CodeInternal, MsgDeleteFailed)
	}

	s.logger.Info(ctx, "items deleted", "requested", len(unique), "deleted", n)
	if n > 0 {
		s.snapshot(ctx)
	}

	return &models.Envelope{
		Success:      true,
		Message:      fmt.Sprintf("Successfully deleted %d item(s)", n),
		RowsAffected: n,
	}
}

// snapshot uploads the current list when backups are configured. Failures
// are logged only.
func (s *WatchListService) snapshot(ctx context.Context) {
	if s.snapshots == nil {
		return
	}

	items, err := s.repomanager.Items(s.db).List(ctx, common.MaxListSize)
	if err != nil {
		s.logger.Warn(ctx, "snapshot skipped", "error", err)
		return
	}

	key, err := s.snapshots.Snapshot(ctx, items)
	if err != nil {
		s.logger.Warn(ctx, "snapshot failed", "error", err)
		return
	}
	s.logger.Debug(ctx, "snapshot stored", "key", key, "count", len(items))
}

func insertFailureMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "permission denied"):
		return MsgInsertPermission
	case strings.Contains(msg, "connection"):
		return MsgInsertConnection
	}
	return MsgInsertFailed
}

func failure(code models.Code, msg string) *models.Envelope {
	return &models.Envelope{Message: msg, Code: code}
}
