package grpc

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/watchkeeper/internal/common"
	"github.com/dmitrijs2005/watchkeeper/internal/models"
	"github.com/dmitrijs2005/watchkeeper/internal/server/auth"
	"github.com/dmitrijs2005/watchkeeper/internal/server/services"
	"github.com/golang-jwt/jwt/v5"
)

type fakeUsers struct {
	mu        sync.Mutex
	authRes   *services.AuthResult
	authErr   error
	gotPass   string
	valid     map[string]string
	loggedOut []string
}

func (f *fakeUsers) Authenticate(ctx context.Context, username string, password []byte) (*services.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotPass = string(password)
	return f.authRes, f.authErr
}

func (f *fakeUsers) ValidateToken(token string) (*auth.Claims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.valid[token]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: user, ID: token}}, nil
}

func (f *fakeUsers) Logout(ctx context.Context, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOut = append(f.loggedOut, token)
	delete(f.valid, token)
}

type fakeWatchList struct {
	mu       sync.Mutex
	listEnv  *models.Envelope
	drafts   []models.Draft
	deleted  [][]int64
	username any
}

func (f *fakeWatchList) List(ctx context.Context) *models.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.username = ctx.Value(UsernameKey)
	if f.listEnv != nil {
		return f.listEnv
	}
	return &models.Envelope{Success: true, Message: "Retrieved 0 items successfully"}
}

func (f *fakeWatchList) Insert(ctx context.Context, d models.Draft) *models.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts = append(f.drafts, d)
	return &models.Envelope{Success: true, Message: services.MsgInserted, RowsAffected: 1}
}

func (f *fakeWatchList) Delete(ctx context.Context, ids []int64) *models.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ids)
	return &models.Envelope{Success: true, Message: "Successfully deleted 1 item(s)", RowsAffected: 1}
}
