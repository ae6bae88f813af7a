package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"defi_assistant/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

type stubWalletService struct {
	gotChain     uint64
	gotAddresses []string
}

func (s *stubWalletService) PriceWallets(_ context.Context, chainID uint64, addresses []string) []entity.WalletResult {
	s.gotChain = chainID
	s.gotAddresses = addresses
	results := make([]entity.WalletResult, len(addresses))
	for i, addr := range addresses {
		results[i] = entity.WalletResult{Address: addr, Tokens: []entity.Token{}}
	}
	return results
}

type stubSwapService struct {
	response entity.SwapQuoteResponse
}

func (s *stubSwapService) Quote(context.Context, entity.SwapQuoteRequest) entity.SwapQuoteResponse {
	return s.response
}

type stubIntentService struct{}

func (stubIntentService) ProcessMessage(_ context.Context, req entity.ChatRequest) entity.ChatResponse {
	return entity.ChatResponse{Response: "echo: " + req.Message, Status: "success"}
}

func newTestRouter(ws *stubWalletService, ss *stubSwapService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	rpcHandler := NewRPCHandler(ws, ss, nopLogger{})
	aiHandler := NewAIHandler(stubIntentService{}, nopLogger{})
	return SetupRouter(rpcHandler, aiHandler, zap.NewNop())
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRootAndHealthEndpoints(t *testing.T) {
	router := newTestRouter(&stubWalletService{}, &stubSwapService{})

	w := doRequest(router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "DeFi Transaction Assistant")

	w = doRequest(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestInfoHandlerSuccess(t *testing.T) {
	ws := &stubWalletService{}
	router := newTestRouter(ws, &stubSwapService{})

	body := `{"addresses": ["0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"], "chain": 1}`
	w := doRequest(router, http.MethodPost, "/rpc/info", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(1), ws.gotChain)
	assert.Len(t, ws.gotAddresses, 1)

	var parsed struct {
		Status string                `json:"status"`
		Data   []entity.WalletResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	assert.Equal(t, "success", parsed.Status)
	require.Len(t, parsed.Data, 1)
}

func TestInfoHandlerRejectsEmptyAddressList(t *testing.T) {
	router := newTestRouter(&stubWalletService{}, &stubSwapService{})

	w := doRequest(router, http.MethodPost, "/rpc/info", `{"addresses": [], "chain": 1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInfoHandlerRejectsMalformedAddress(t *testing.T) {
	router := newTestRouter(&stubWalletService{}, &stubSwapService{})

	cases := []string{
		`{"addresses": ["not-an-address"], "chain": 1}`,
		`{"addresses": ["0xzzzzaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"], "chain": 1}`,
		`{"addresses": ["0xabc"], "chain": 1}`,
	}
	for _, body := range cases {
		w := doRequest(router, http.MethodPost, "/rpc/info", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestInfoHandlerRejectsMissingChain(t *testing.T) {
	router := newTestRouter(&stubWalletService{}, &stubSwapService{})

	w := doRequest(router, http.MethodPost, "/rpc/info",
		`{"addresses": ["0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPriceHandlerRelaysUpstreamStatus(t *testing.T) {
	ss := &stubSwapService{response: entity.SwapQuoteResponse{
		Status: 422,
		Result: map[string]any{"error": "insufficient liquidity"},
	}}
	router := newTestRouter(&stubWalletService{}, ss)

	body := `{"inputToken": "0xin", "outputToken": "0xout", "inputAmount": "1", "userAddress": "0xuser"}`
	w := doRequest(router, http.MethodPost, "/rpc/price", body)

	assert.Equal(t, 422, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient liquidity")
}

func TestPriceHandlerRejectsIncompleteRequest(t *testing.T) {
	router := newTestRouter(&stubWalletService{}, &stubSwapService{})

	w := doRequest(router, http.MethodPost, "/rpc/price", `{"inputToken": "0xin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandler(t *testing.T) {
	router := newTestRouter(&stubWalletService{}, &stubSwapService{})

	w := doRequest(router, http.MethodPost, "/ai/chat", `{"message": "send 1 eth"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "echo: send 1 eth")

	w = doRequest(router, http.MethodPost, "/ai/chat", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIsHexAddress(t *testing.T) {
	assert.True(t, isHexAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"))
	assert.False(t, isHexAddress("A0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"))
	assert.False(t, isHexAddress("0x123"))
	assert.False(t, isHexAddress("0xg0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"))
}
