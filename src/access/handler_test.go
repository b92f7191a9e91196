package access

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"docvault/src/auth"
	"docvault/src/identity"
	"docvault/src/outbox"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(f *fixture, address string) *gin.Engine {
	resolver := identity.NewService(identity.NewRepository(f.db), auth.NewEthereumVerifier(), outbox.NopRecorder{})
	handler := NewHandler(f.svc, resolver)

	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(auth.ContextAddressKey, address) })
	router.POST("/access-requests", handler.RequestAccess)
	router.GET("/access-requests/new", handler.New)
	router.GET("/access-requests/pending", handler.Pending)
	router.POST("/access-requests/:id/approve", handler.Approve)
	router.GET("/documents/:id/access", handler.CheckAccess)
	return router
}

func call(t *testing.T, router *gin.Engine, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHandlerResponsesUseSnakeCaseFlags(t *testing.T) {
	f := newFixture(t)
	owner, requester := f.identity(t, "alice"), f.identity(t, "bob")
	d := f.document(t, owner, "passport.pdf")
	asOwner := newRouter(f, owner.Address)
	asRequester := newRouter(f, requester.Address)

	code, resp := call(t, asRequester, http.MethodGet, "/documents/"+d.Id.String()+"/access", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, resp["has_access"])
	assert.Equal(t, string(LevelDenied), resp["reason"])
	assert.NotContains(t, resp, "hasAccess")

	code, resp = call(t, asRequester, http.MethodPost, "/access-requests", gin.H{"document_id": d.Id.String()})
	require.Equal(t, http.StatusCreated, code)
	request := resp["request"].(map[string]any)

	code, resp = call(t, asOwner, http.MethodGet, "/access-requests/pending", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["has_pending"])
	assert.NotContains(t, resp, "hasPending")

	code, resp = call(t, asOwner, http.MethodGet, "/access-requests/new", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["has_new"])
	assert.Len(t, resp["requests"], 1)
	assert.NotContains(t, resp, "hasNew")

	code, _ = call(t, asOwner, http.MethodPost, "/access-requests/"+request["id"].(string)+"/approve", nil)
	require.Equal(t, http.StatusOK, code)

	code, resp = call(t, asRequester, http.MethodGet, "/documents/"+d.Id.String()+"/access", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["has_access"])
	assert.Equal(t, string(LevelApproved), resp["reason"])
}
