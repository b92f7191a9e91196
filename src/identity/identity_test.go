package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"docvault/pkg/logger"
	reasoncodes "docvault/pkg/reason_codes"
	"docvault/src/auth"
	"docvault/src/database"
	"docvault/src/model"
	"docvault/src/outbox"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const loginMessage = "Sign in to DocVault"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitDefaultLogger(logger.GlobalLoggerConfig{
		Args: []logger.LoggerArg{{Key: "service", Value: "identity-test"}},
	})
	os.Exit(m.Run())
}

type recordedEvent struct {
	eventType   string
	aggregateId uuid.UUID
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *fakeRecorder) Record(_ context.Context, eventType string, aggregateId uuid.UUID, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{eventType, aggregateId})
}

type wallet struct {
	address   string
	signature string
}

func newWallet(t *testing.T) wallet {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sig, err := crypto.Sign(accounts.TextHash([]byte(loginMessage)), key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27

	return wallet{
		address:   crypto.PubkeyToAddress(key.PublicKey).Hex(),
		signature: hexutil.Encode(sig),
	}
}

func newService(t *testing.T) (*Service, *gorm.DB, *fakeRecorder) {
	t.Helper()
	db := database.NewTestDatabase(t)
	events := &fakeRecorder{}
	return NewService(NewRepository(db), auth.NewEthereumVerifier(), events), db, events
}

func ptr(s string) *string { return &s }

func TestAuthenticateRegistersOnce(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newService(t)
	w := newWallet(t)

	first, err := svc.Authenticate(ctx, w.address, loginMessage, w.signature)
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(w.address), first.Address)

	second, err := svc.Authenticate(ctx, strings.ToUpper(w.address[2:]), loginMessage, w.signature)
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)

	var count int64
	require.NoError(t, db.Model(&model.Identity{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthenticateFailures(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	w := newWallet(t)
	other := newWallet(t)

	_, err := svc.Authenticate(ctx, "", loginMessage, w.signature)
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.Authenticate(ctx, "0x1234", loginMessage, w.signature)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = svc.Authenticate(ctx, w.address, loginMessage, "0xdead")
	assert.ErrorIs(t, err, ErrMalformedSignature)

	_, err = svc.Authenticate(ctx, other.address, loginMessage, w.signature)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
	assert.Equal(t, reasoncodes.ErrUnauthorized, reasoncodes.CodeOf(err))

	_, err = svc.Authenticate(ctx, w.address, "another message", w.signature)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestCompleteProfileUpserts(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	address := "0x00000000000000000000000000000000000000aa"

	created, err := svc.CompleteProfile(ctx, address, ProfileFields{Name: ptr("Alice"), Email: ptr("alice@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", created.Name)

	updated, err := svc.CompleteProfile(ctx, address, ProfileFields{Phone: ptr("+48 123")})
	require.NoError(t, err)
	assert.Equal(t, created.Id, updated.Id)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, "+48 123", updated.Phone)

	_, err = svc.CompleteProfile(ctx, address, ProfileFields{})
	assert.ErrorIs(t, err, ErrEmptyProfile)
}

func TestUpdateProfileRequiresRegistration(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.UpdateProfile(ctx, "0x00000000000000000000000000000000000000bb", ProfileFields{Name: ptr("Bob")})
	assert.ErrorIs(t, err, ErrIdentityNotFound)

	_, err = svc.GetProfile(ctx, "0x00000000000000000000000000000000000000bb")
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestGetProfileIncludesDocuments(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newService(t)
	w := newWallet(t)
	identity, err := svc.Authenticate(ctx, w.address, loginMessage, w.signature)
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.Document{OwnerId: identity.Id, FileName: "a.pdf", ObjectUrl: "u", ContentId: "c"}).Error)

	profile, err := svc.GetProfile(ctx, w.address)
	require.NoError(t, err)
	require.Len(t, profile.Documents, 1)
	assert.Equal(t, "a.pdf", profile.Documents[0].FileName)
}

func TestDeleteProfileCascades(t *testing.T) {
	ctx := context.Background()
	svc, db, events := newService(t)

	owner, err := svc.CompleteProfile(ctx, "0x00000000000000000000000000000000000000c1", ProfileFields{Name: ptr("Owner")})
	require.NoError(t, err)
	requester, err := svc.CompleteProfile(ctx, "0x00000000000000000000000000000000000000c2", ProfileFields{Name: ptr("Requester")})
	require.NoError(t, err)

	ownDoc := model.Document{OwnerId: owner.Id, FileName: "mine.pdf", ObjectUrl: "u", ContentId: "c1"}
	otherDoc := model.Document{OwnerId: requester.Id, FileName: "theirs.pdf", ObjectUrl: "u", ContentId: "c2"}
	require.NoError(t, db.Create(&ownDoc).Error)
	require.NoError(t, db.Create(&otherDoc).Error)
	require.NoError(t, db.Create(&model.AccessRequest{FromId: requester.Id, ToId: owner.Id, DocumentId: ownDoc.Id}).Error)
	require.NoError(t, db.Create(&model.AccessRequest{FromId: owner.Id, ToId: requester.Id, DocumentId: otherDoc.Id}).Error)

	require.NoError(t, svc.DeleteProfile(ctx, owner.Address))

	var identities, documents, requests int64
	require.NoError(t, db.Model(&model.Identity{}).Count(&identities).Error)
	require.NoError(t, db.Model(&model.Document{}).Count(&documents).Error)
	require.NoError(t, db.Model(&model.AccessRequest{}).Count(&requests).Error)
	assert.Equal(t, int64(1), identities)
	assert.Equal(t, int64(1), documents)
	assert.Equal(t, int64(0), requests)

	require.Len(t, events.events, 1)
	assert.Equal(t, model.EventIdentityDeleted, events.events[0].eventType)
	assert.Equal(t, owner.Id, events.events[0].aggregateId)

	assert.ErrorIs(t, svc.DeleteProfile(ctx, owner.Address), ErrIdentityNotFound)
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := auth.AuthConfigJson{JwtSecret: strings.Repeat("s", 32)}.ConvertToDomain()
	tokens, err := auth.NewTokenService(cfg)
	require.NoError(t, err)
	revoked := auth.NewMemoryRevocationList()

	handler := Build(database.NewTestDatabase(t), auth.NewEthereumVerifier(), tokens, revoked, cfg, outbox.NopRecorder{})
	requireAuth := auth.RequireAuth(tokens, revoked, cfg.CookieName)

	router := gin.New()
	router.POST("/auth/register", handler.Register)
	router.POST("/auth/logout", requireAuth, handler.Logout)
	router.POST("/auth/complete-profile", requireAuth, handler.CompleteProfile)
	router.GET("/auth/profile", requireAuth, handler.GetProfile)
	router.PUT("/auth/profile", requireAuth, handler.UpdateProfile)
	router.DELETE("/auth/profile", requireAuth, handler.DeleteProfile)
	return router
}

func do(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&payload).Encode(body)
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandlerLoginProfileLogout(t *testing.T) {
	router := newRouter(t)
	w := newWallet(t)

	res := do(router, http.MethodPost, "/auth/register", "", RegisterRequest{
		Address: w.address, Message: loginMessage, Signature: w.signature,
	})
	require.Equal(t, http.StatusOK, res.Code)

	var login struct {
		Success bool           `json:"success"`
		Token   string         `json:"token"`
		User    model.Identity `json:"user"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &login))
	assert.True(t, login.Success)
	assert.Equal(t, strings.ToLower(w.address), login.User.Address)
	require.NotEmpty(t, login.Token)

	cookies := res.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, auth.DefaultCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	res = do(router, http.MethodPut, "/auth/profile", login.Token, map[string]string{"name": "Alice"})
	assert.Equal(t, http.StatusOK, res.Code)

	res = do(router, http.MethodPut, "/auth/profile", login.Token, map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = do(router, http.MethodGet, "/auth/profile", login.Token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"name":"Alice"`)

	res = do(router, http.MethodPost, "/auth/logout", login.Token, nil)
	assert.Equal(t, http.StatusOK, res.Code)

	res = do(router, http.MethodGet, "/auth/profile", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestHandlerRegisterRejectsForeignSignature(t *testing.T) {
	router := newRouter(t)
	w := newWallet(t)
	other := newWallet(t)

	res := do(router, http.MethodPost, "/auth/register", "", RegisterRequest{
		Address: other.address, Message: loginMessage, Signature: w.signature,
	})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = do(router, http.MethodPost, "/auth/register", "", RegisterRequest{Address: w.address})
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestHandlerDeleteProfileRevokesToken(t *testing.T) {
	router := newRouter(t)
	w := newWallet(t)

	res := do(router, http.MethodPost, "/auth/register", "", RegisterRequest{
		Address: w.address, Message: loginMessage, Signature: w.signature,
	})
	require.Equal(t, http.StatusOK, res.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &login))

	res = do(router, http.MethodDelete, "/auth/profile", login.Token, nil)
	assert.Equal(t, http.StatusOK, res.Code)

	res = do(router, http.MethodGet, "/auth/profile", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestHandlerCompleteProfileRegistersUnknownWallet(t *testing.T) {
	cfg := auth.AuthConfigJson{JwtSecret: strings.Repeat("s", 32)}.ConvertToDomain()
	tokens, err := auth.NewTokenService(cfg)
	require.NoError(t, err)

	// a token for a wallet that never called /auth/register
	handlerRouter := gin.New()
	revoked := auth.NewMemoryRevocationList()
	handler := Build(database.NewTestDatabase(t), auth.NewEthereumVerifier(), tokens, revoked, cfg, outbox.NopRecorder{})
	handlerRouter.POST("/auth/complete-profile", auth.RequireAuth(tokens, revoked, cfg.CookieName), handler.CompleteProfile)

	token, _, err := tokens.Issue("0x00000000000000000000000000000000000000dd")
	require.NoError(t, err)

	res := do(handlerRouter, http.MethodPost, "/auth/complete-profile", token, map[string]string{"name": "Dana"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"address":"0x00000000000000000000000000000000000000dd"`)
}
