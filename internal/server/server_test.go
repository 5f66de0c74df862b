package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyphera/wallet-rpc/internal/approvals"
	"github.com/cyphera/wallet-rpc/internal/config"
	"github.com/cyphera/wallet-rpc/internal/constants"
)

const (
	testAddress = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	dappOrigin  = "https://dapp.example.org"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := map[string]string{
		"STAGE":                constants.StageLocal,
		"WALLET_ACCOUNTS":      testAddress,
		"CORS_ALLOWED_ORIGINS": dappOrigin,
	}
	c, err := config.LoadFrom(func(key string) string { return env[key] })
	require.NoError(t, err)

	InitializeHandlers(c)
	t.Cleanup(func() { Shutdown(context.Background()) })

	router := gin.New()
	InitializeRoutes(router)
	return router
}

func serve(router *gin.Engine, method, path, origin string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func rpcCall(method string, id int) map[string]interface{} {
	return map[string]interface{}{"jsonrpc": "2.0", "id": id, "method": method}
}

func TestRoutes_Health(t *testing.T) {
	router := newTestRouter(t)

	w := serve(router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), constants.MethodRequestAccounts)
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}

func TestRoutes_SecurityAlertsDisabled(t *testing.T) {
	router := newTestRouter(t)

	w := serve(router, http.MethodPost, "/api/v1/security-alerts/validate/0x1", "", map[string]interface{}{"method": "eth_sendTransaction"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_ConnectFlow(t *testing.T) {
	router := newTestRouter(t)

	w := serve(router, http.MethodPost, "/rpc", dappOrigin, rpcCall(constants.MethodAccounts, 1))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":[]}`, w.Body.String())

	w = serve(router, http.MethodPost, "/api/v1/wallet/unlock", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	connected := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		connected <- serve(router, http.MethodPost, "/rpc", dappOrigin, rpcCall(constants.MethodRequestAccounts, 2))
	}()

	var pending []approvals.Request
	require.Eventually(t, func() bool {
		w := serve(router, http.MethodGet, "/api/v1/approvals", "", nil)
		var list struct {
			Data []approvals.Request `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
			return false
		}
		pending = list.Data
		return len(pending) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, dappOrigin, pending[0].Origin)
	assert.Equal(t, constants.MethodRequestPermissions, pending[0].Type)

	// A second request while the first is in flight is refused.
	w = serve(router, http.MethodPost, "/rpc", dappOrigin, rpcCall(constants.MethodRequestAccounts, 3))
	assert.Contains(t, w.Body.String(), "Already processing eth_requestAccounts. Please wait.")

	w = serve(router, http.MethodPost, "/api/v1/approvals/"+pending[0].ID+"/approve", "",
		map[string]interface{}{"value": map[string]interface{}{"accounts": []string{testAddress}}})
	require.Equal(t, http.StatusOK, w.Code)

	select {
	case w := <-connected:
		assert.JSONEq(t, `{"jsonrpc":"2.0","id":2,"result":["`+testAddress+`"]}`, w.Body.String())
	case <-time.After(2 * time.Second):
		t.Fatal("eth_requestAccounts did not complete")
	}

	w = serve(router, http.MethodPost, "/rpc", dappOrigin, rpcCall(constants.MethodAccounts, 4))
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":4,"result":["`+testAddress+`"]}`, w.Body.String())

	w = serve(router, http.MethodPost, "/rpc", dappOrigin, rpcCall(constants.MethodGetPermissions, 5))
	assert.Contains(t, w.Body.String(), `"parentCapability":"endowment:caip25"`)
}
