package services

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/watchkeeper/internal/common"
	"github.com/dmitrijs2005/watchkeeper/internal/dbx"
	"github.com/dmitrijs2005/watchkeeper/internal/models"
	sm "github.com/dmitrijs2005/watchkeeper/internal/server/models"
	"github.com/dmitrijs2005/watchkeeper/internal/server/repositories/items"
	"github.com/dmitrijs2005/watchkeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	mu      sync.Mutex
	byName  map[string]*sm.User
	getErr  error
	created []*sm.User
	nextID  int64
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byName: map[string]*sm.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *sm.User) (*sm.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	f.byName[u.UserName] = u
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, login string) (*sm.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeItemsRepo struct {
	mu        sync.Mutex
	items     []models.WatchListItem
	nextID    int64
	listErr   error
	existsErr error
	createErr error
	deleteErr error
	lastLimit int
	deleted   [][]int64
}

func (f *fakeItemsRepo) List(ctx context.Context, limit int) ([]models.WatchListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.WatchListItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeItemsRepo) ExistsByName(ctx context.Context, name string, mt models.MediaType) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, it := range f.items {
		if strings.EqualFold(strings.TrimSpace(it.Name), strings.TrimSpace(name)) && it.MediaType == mt {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeItemsRepo) Create(ctx context.Context, item *models.WatchListItem) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	item.ID = models.Assigned(f.nextID)
	f.items = append(f.items, *item)
	return f.nextID, nil
}

func (f *fakeItemsRepo) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ids)
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	var n int64
	kept := f.items[:0]
	for _, it := range f.items {
		id, _ := it.ID.Value()
		found := false
		for _, d := range ids {
			if d == id {
				found = true
				break
			}
		}
		if found {
			n++
			continue
		}
		kept = append(kept, it)
	}
	f.items = kept
	return n, nil
}

type fakeRepoManager struct {
	users *fakeUsersRepo
	items *fakeItemsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{users: newFakeUsersRepo(), items: &fakeItemsRepo{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository           { return m.users }
func (m *fakeRepoManager) Items(dbx.DBTX) items.Repository           { return m.items }

type fakeSnapshotter struct {
	mu    sync.Mutex
	calls [][]models.WatchListItem
	err   error
}

func (f *fakeSnapshotter) Snapshot(ctx context.Context, items []models.WatchListItem) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, items)
	if f.err != nil {
		return "", f.err
	}
	return "snapshots/key.json", nil
}

func (f *fakeSnapshotter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
