package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"defi_assistant/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSimplePrices(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ethereum":{"usd":3000.5,"usd_market_cap":360000000000,"usd_24h_change":-1.25}}`)
	}))
	defer server.Close()

	client := NewCoinPriceClient(server.URL, time.Second, zap.NewNop())
	quotes, err := client.SimplePrices(context.Background(), []string{"ethereum", "binancecoin"})
	require.NoError(t, err)

	assert.Equal(t, "/simple/price", gotPath)
	assert.Contains(t, gotQuery, "ids=ethereum,binancecoin")
	assert.Contains(t, gotQuery, "include_market_cap=true")
	assert.Contains(t, gotQuery, "include_24hr_change=true")

	require.Contains(t, quotes, "ethereum")
	assert.Equal(t, 3000.5, quotes["ethereum"].USD)
	assert.Equal(t, -1.25, quotes["ethereum"].USD24hChange)
}

func TestSimplePricesRejectsEmptyInput(t *testing.T) {
	client := NewCoinPriceClient("http://localhost:1", time.Second, zap.NewNop())
	_, err := client.SimplePrices(context.Background(), nil)
	assert.Error(t, err)
}

func TestSimplePricesNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewCoinPriceClient(server.URL, time.Second, zap.NewNop())
	_, err := client.SimplePrices(context.Background(), []string{"ethereum"})
	assert.Error(t, err)
}

func TestCoinByContract(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "usd-coin",
			"symbol": "usdc",
			"name": "USDC",
			"image": {"small": "https://img/usdc.png"},
			"detail_platforms": {"ethereum": {"decimal_place": 6, "contract_address": "0xa0b8"}},
			"market_data": {
				"current_price": {"usd": 0.9998},
				"market_cap": {"usd": 32000000000},
				"price_change_percentage_24h": 0.01
			},
			"tickers": [
				{"base": "USDC", "target": "USDT", "trust_score": "green"},
				{"base": "USDC", "target": "ETH", "trust_score": "yellow"}
			]
		}`)
	}))
	defer server.Close()

	client := NewContractPriceClient(server.URL, time.Second, zap.NewNop())
	coin, err := client.CoinByContract(context.Background(), "ethereum", "0xA0B8")
	require.NoError(t, err)

	// The address is lowercased on the wire.
	assert.Equal(t, "/coins/ethereum/contract/0xa0b8", gotPath)
	assert.Equal(t, "usd-coin", coin.ID)
	assert.Equal(t, 0.9998, coin.MarketData.CurrentPrice["usd"])
	require.Len(t, coin.Tickers, 2)
	assert.Equal(t, "green", coin.Tickers[0].TrustScore)
	assert.Equal(t, 6, coin.DetailPlatforms["ethereum"].DecimalPlace)
}

func TestCoinByContractNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"coin not found"}`)
	}))
	defer server.Close()

	client := NewContractPriceClient(server.URL, time.Second, zap.NewNop())
	_, err := client.CoinByContract(context.Background(), "ethereum", "0xdead")
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrPriceNotFound))
}

func TestSwapRouterQuote(t *testing.T) {
	var gotBody map[string]any
	var gotAPIKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/quote", r.URL.Path)
		gotAPIKey = r.Header.Get("x-api-key")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"statusCode": 200,
			"result": {
				"inputAmount": "1000000000000000000",
				"outputAmount": "2995000000",
				"router": "0xrouter",
				"calldata": "0xdeadbeef",
				"value": 1000000000000000000,
				"computationUnits": 450000,
				"gasPrice": 21000000000
			}
		}`)
	}))
	defer server.Close()

	client := NewSwapRouterClient(server.URL, "secret", "pid-1", time.Second, zap.NewNop())
	status, envelope, err := client.Quote(context.Background(), entity.SwapQuoteRequest{
		ChainID:     "1",
		InputToken:  "0xin",
		OutputToken: "0xout",
		InputAmount: "1000000000000000000",
		UserAddress: "0xuser",
		Slippage:    0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 200, status)

	assert.Equal(t, "secret", gotAPIKey)
	// The user is also the output receiver and the fixed flags are always on.
	assert.Equal(t, "0xuser", gotBody["outputReceiver"])
	assert.Equal(t, true, gotBody["computeStable"])
	assert.Equal(t, true, gotBody["computeEstimate"])
	assert.Equal(t, "pid-1", gotBody["uniquePID"])

	require.NotNil(t, envelope.Result)
	assert.Equal(t, "0xrouter", envelope.Result.Router)
	assert.Equal(t, int64(450000), envelope.Result.ComputationUnits)
	assert.Equal(t, "1000000000000000000", envelope.Result.Value.String())
}

func TestSwapRouterQuoteUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"statusCode": 422, "error": "insufficient liquidity"}`)
	}))
	defer server.Close()

	client := NewSwapRouterClient(server.URL, "", "", time.Second, zap.NewNop())
	status, envelope, err := client.Quote(context.Background(), entity.SwapQuoteRequest{})
	require.NoError(t, err)
	assert.Equal(t, 422, status)
	assert.Nil(t, envelope.Result)
	assert.Equal(t, "insufficient liquidity", envelope.Error)
}

func TestLLMGenerateContent(t *testing.T) {
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"{\"response\":\"ok\"}"}],"role":"model"},"finishReason":"STOP"}]}`)
	}))
	defer server.Close()

	client := NewLLMClient(server.URL, "gemini-1.5-flash", "api-key", time.Second, zap.NewNop())
	text, err := client.GenerateContent(context.Background(), "extract intent")
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", gotPath)
	assert.Equal(t, "api-key", gotKey)
	assert.Equal(t, `{"response":"ok"}`, text)
}

func TestLLMGenerateContentNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"candidates":[]}`)
	}))
	defer server.Close()

	client := NewLLMClient(server.URL, "gemini-1.5-flash", "", time.Second, zap.NewNop())
	_, err := client.GenerateContent(context.Background(), "hi")
	assert.Error(t, err)
}
