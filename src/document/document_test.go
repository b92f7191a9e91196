package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"docvault/pkg/logger"
	reasoncodes "docvault/pkg/reason_codes"
	"docvault/src/auth"
	"docvault/src/database"
	"docvault/src/model"
	"docvault/src/outbox"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitDefaultLogger(logger.GlobalLoggerConfig{
		Args: []logger.LoggerArg{{Key: "service", Value: "document-test"}},
	})
	os.Exit(m.Run())
}

type fakeStore struct {
	prefix string
	err    error
	calls  int
}

func (s *fakeStore) Put(_ context.Context, name string, _ []byte) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.prefix + name, nil
}

func (s *fakeStore) GatewayURL(contentId string) string {
	return "https://gateway.test/ipfs/" + contentId
}

type fakeAnchor struct {
	mu        sync.Mutex
	stored    map[[32]byte]bool
	stores    int
	storeErr  error
	verifyErr error
}

func newFakeAnchor() *fakeAnchor {
	return &fakeAnchor{stored: map[[32]byte]bool{}}
}

func (a *fakeAnchor) Store(_ context.Context, hash [32]byte) (string, error) {
	if a.storeErr != nil {
		return "", a.storeErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stored[hash] {
		return "", errors.New("account already in use")
	}
	a.stored[hash] = true
	a.stores++
	return fmt.Sprintf("tx-%d", a.stores), nil
}

func (a *fakeAnchor) Verify(_ context.Context, hash [32]byte) (bool, error) {
	if a.verifyErr != nil {
		return false, a.verifyErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stored[hash], nil
}

type fakeAccess struct {
	granted map[uuid.UUID]bool
}

func (f fakeAccess) HasAccess(_ context.Context, requesterId, _ uuid.UUID) (bool, error) {
	return f.granted[requesterId], nil
}

type identities struct {
	db *gorm.DB
}

func (i identities) GetById(ctx context.Context, id uuid.UUID) (*model.Identity, error) {
	var identity model.Identity
	if err := i.db.WithContext(ctx).First(&identity, "id = ?", id).Error; err != nil {
		return nil, reasoncodes.Wrap(reasoncodes.ErrNotFound, "identity not found", err)
	}
	return &identity, nil
}

func (i identities) Resolve(ctx context.Context, address string) (*model.Identity, error) {
	var identity model.Identity
	if err := i.db.WithContext(ctx).First(&identity, "address = ?", address).Error; err != nil {
		return nil, reasoncodes.Wrap(reasoncodes.ErrNotFound, "identity not found", err)
	}
	return &identity, nil
}

type fixture struct {
	db      *gorm.DB
	svc     *Service
	objects *fakeStore
	content *fakeStore
	anchor  *fakeAnchor
	access  fakeAccess
}

func newFixture(t *testing.T, withAnchor bool) *fixture {
	t.Helper()
	f := &fixture{
		db:      database.NewTestDatabase(t),
		objects: &fakeStore{prefix: "https://objects.test/"},
		content: &fakeStore{prefix: "cid-"},
		anchor:  newFakeAnchor(),
		access:  fakeAccess{granted: map[uuid.UUID]bool{}},
	}
	var opts []Option
	if withAnchor {
		opts = append(opts, WithAnchor(f.anchor))
	}
	f.svc = NewService(NewRepository(f.db), identities{f.db}, f.objects, f.content, f.access, outbox.NopRecorder{}, opts...)
	return f
}

func (f *fixture) identity(t *testing.T, address string) *model.Identity {
	t.Helper()
	i := &model.Identity{Address: address}
	require.NoError(t, f.db.Create(i).Error)
	return i
}

func TestUploadStoresEverywhere(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	owner := f.identity(t, "0xa1")

	doc, err := f.svc.Upload(ctx, owner.Id, "passport.pdf", []byte("content"))
	require.NoError(t, err)

	_, hash := HashContent([]byte("content"))
	assert.Equal(t, "https://objects.test/passport.pdf", doc.ObjectUrl)
	assert.Equal(t, "cid-passport.pdf", doc.ContentId)
	assert.Equal(t, hash, doc.FileHash)
	assert.Equal(t, "tx-1", doc.AnchorTx)
	assert.Equal(t, int64(7), doc.Size)
	assert.Equal(t, owner.Id, doc.Owner.Id)

	result, err := f.svc.Verify(ctx, []byte("content"))
	require.NoError(t, err)
	assert.True(t, result.Exists)
	assert.Equal(t, hash, result.Hash)

	result, err = f.svc.Verify(ctx, []byte("tampered"))
	require.NoError(t, err)
	assert.False(t, result.Exists)
}

func TestUploadIdenticalContentReusesAnchor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	first := f.identity(t, "0xa1")
	second := f.identity(t, "0xb2")

	original, err := f.svc.Upload(ctx, first.Id, "contract.pdf", []byte("same"))
	require.NoError(t, err)
	assert.Equal(t, "tx-1", original.AnchorTx)

	copied, err := f.svc.Upload(ctx, second.Id, "copy.pdf", []byte("same"))
	require.NoError(t, err)
	assert.Equal(t, second.Id, copied.OwnerId)
	assert.Equal(t, original.FileHash, copied.FileHash)
	assert.Equal(t, original.AnchorTx, copied.AnchorTx)

	again, err := f.svc.Upload(ctx, first.Id, "contract-v2.pdf", []byte("same"))
	require.NoError(t, err)
	assert.Equal(t, original.AnchorTx, again.AnchorTx)
	assert.Equal(t, 1, f.anchor.stores)

	docs, err := f.svc.ListForOwner(ctx, first.Id)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestUploadValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	owner := f.identity(t, "0xa1")

	_, err := f.svc.Upload(ctx, owner.Id, "empty.pdf", nil)
	assert.ErrorIs(t, err, ErrInvalidUpload)

	_, err = f.svc.Upload(ctx, owner.Id, "  ", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidUpload)

	_, err = f.svc.Upload(ctx, uuid.New(), "a.pdf", []byte("x"))
	assert.Equal(t, reasoncodes.ErrNotFound, reasoncodes.CodeOf(err))
	assert.Zero(t, f.objects.calls)
}

func TestUploadUpstreamFailureLeavesNoRecord(t *testing.T) {
	ctx := context.Background()

	cases := map[string]func(f *fixture){
		"object store":  func(f *fixture) { f.objects.err = errors.New("cloud down") },
		"content store": func(f *fixture) { f.content.err = errors.New("pinning failed") },
		"anchor":        func(f *fixture) { f.anchor.storeErr = errors.New("rpc timeout") },
		"anchor lookup": func(f *fixture) { f.anchor.verifyErr = errors.New("rpc timeout") },
	}
	for name, breakIt := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, true)
			owner := f.identity(t, "0xa1")
			breakIt(f)

			_, err := f.svc.Upload(ctx, owner.Id, "a.pdf", []byte("x"))
			assert.Equal(t, reasoncodes.ErrUpstreamFailure, reasoncodes.CodeOf(err))

			var count int64
			require.NoError(t, f.db.Model(&model.Document{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestVerifyWithoutAnchor(t *testing.T) {
	f := newFixture(t, false)

	result, err := f.svc.Verify(context.Background(), []byte("content"))
	assert.ErrorIs(t, err, ErrAnchorDisabled)
	assert.NotEmpty(t, result.Hash)

	doc, err := f.svc.Upload(context.Background(), f.identity(t, "0xa1").Id, "a.pdf", []byte("x"))
	require.NoError(t, err)
	assert.Empty(t, doc.AnchorTx)
	assert.NotEmpty(t, doc.FileHash)
}

func TestDeleteDocument(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	owner := f.identity(t, "0xa1")
	other := f.identity(t, "0xb2")

	doc, err := f.svc.Upload(ctx, owner.Id, "a.pdf", []byte("x"))
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&model.AccessRequest{FromId: other.Id, ToId: owner.Id, DocumentId: doc.Id}).Error)

	assert.ErrorIs(t, f.svc.Delete(ctx, other.Id, doc.Id), ErrNotOwner)
	assert.ErrorIs(t, f.svc.Delete(ctx, owner.Id, uuid.New()), ErrDocumentNotFound)

	require.NoError(t, f.svc.Delete(ctx, owner.Id, doc.Id))

	docs, err := f.svc.ListForOwner(ctx, owner.Id)
	require.NoError(t, err)
	assert.Empty(t, docs)

	var requests int64
	require.NoError(t, f.db.Model(&model.AccessRequest{}).Count(&requests).Error)
	assert.Zero(t, requests)
}

func TestShareCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	owner := f.identity(t, "0xa1")
	stranger := f.identity(t, "0xb2")
	doc, err := f.svc.Upload(ctx, owner.Id, "a.pdf", []byte("x"))
	require.NoError(t, err)
	f.access.granted[owner.Id] = true

	raw, err := f.svc.ShareCode(ctx, owner.Id, doc.Id)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, qrCodeSize, img.Bounds().Dx())

	_, err = f.svc.ShareCode(ctx, stranger.Id, doc.Id)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func multipartBody(t *testing.T, field, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func newRouter(f *fixture, address string) *gin.Engine {
	handler := NewHandler(f.svc, identities{f.db})
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(auth.ContextAddressKey, address) })
	router.POST("/documents/upload", handler.Upload)
	router.POST("/documents/verify", handler.Verify)
	router.GET("/documents/user-documents", handler.UserDocuments)
	router.DELETE("/documents/:id", handler.Delete)
	router.GET("/documents/:id/qrcode", handler.QRCode)
	return router
}

func TestHandlerUploadAndList(t *testing.T) {
	f := newFixture(t, true)
	f.identity(t, "0xa1")
	router := newRouter(f, "0xa1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/user-documents", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"documents":[]}`, w.Body.String())

	body, contentType := multipartBody(t, "file", "deed.pdf", []byte("deed"))
	req := httptest.NewRequest(http.MethodPost, "/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var uploaded struct {
		Document model.DocumentView `json:"document"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))
	assert.Equal(t, "deed.pdf", uploaded.Document.FileName)
	assert.Equal(t, "0xa1", uploaded.Document.Owner.Address)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/user-documents", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "deed.pdf")

	body, contentType = multipartBody(t, "file", "copy.pdf", []byte("deed"))
	req = httptest.NewRequest(http.MethodPost, "/documents/verify", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"exists":true`)
}

func TestHandlerRejectsMissingFileAndBadId(t *testing.T) {
	f := newFixture(t, false)
	f.identity(t, "0xa1")
	router := newRouter(f, "0xa1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/documents/upload", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/documents/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/documents/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerQRCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	owner := f.identity(t, "0xa1")
	doc, err := f.svc.Upload(ctx, owner.Id, "a.pdf", []byte("x"))
	require.NoError(t, err)
	f.access.granted[owner.Id] = true

	w := httptest.NewRecorder()
	newRouter(f, "0xa1").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/"+doc.Id.String()+"/qrcode", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}
