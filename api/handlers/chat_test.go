package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Jxnis/sui-portfolio-analysis-agent/config"
	"github.com/Jxnis/sui-portfolio-analysis-agent/core"
	"github.com/Jxnis/sui-portfolio-analysis-agent/stats"
)

const testWallet = "0x" + "ab12ab12ab12ab12ab12ab12ab12ab12ab12ab12ab12ab12ab12ab12ab12ab12"

// testBackends wires the handler against httptest doubles for the Sui
// fullnode, CoinGecko and OpenRouter.
type testBackends struct {
	handler      *ChatHandler
	router       *gin.Engine
	rpcCalls     *int64
	systemPrompt *atomic.Value
	cleanup      func()
}

func newTestBackends(t *testing.T, llm http.HandlerFunc) *testBackends {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var rpcCalls int64
	rpcSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&rpcCalls, 1)
		var req struct {
			Method string `json:"method"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		switch req.Method {
		case "suix_getBalance":
			fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":{"totalBalance":"2000000000"}}`)
		case "suix_getOwnedObjects":
			fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":{"data":[{"data":{"objectId":"0x1","display":{"data":{"name":"Capy"}}}}]}}`)
		case "suix_getAllCoins":
			fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":{"data":[{"coinType":"0x2::sui::SUI","balance":"2000000000"}]}}`)
		}
	}))

	marketSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":"sui","symbol":"sui","current_price":1.5,"price_change_percentage_24h":2.5,"market_cap":4200000000}]`)
	}))

	systemPrompt := &atomic.Value{}
	llmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Messages []core.Message `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if len(payload.Messages) > 0 && payload.Messages[0].Role == "system" {
			systemPrompt.Store(payload.Messages[0].Content)
		}
		llm(w, r)
	}))

	handler := NewChatHandler(config.Config{
		OpenRouterAPIKey:  "test-key",
		OpenRouterBaseURL: llmSrv.URL,
		SuiRPCURL:         rpcSrv.URL,
		CoinGeckoBaseURL:  marketSrv.URL,
	})

	router := gin.New()
	router.POST("/api/chat", handler.Chat)
	router.GET("/api/chat/ws", handler.ChatWebSocket)
	router.GET("/api/stats", handler.Stats)

	return &testBackends{
		handler:      handler,
		router:       router,
		rpcCalls:     &rpcCalls,
		systemPrompt: systemPrompt,
		cleanup: func() {
			rpcSrv.Close()
			marketSrv.Close()
			llmSrv.Close()
		},
	}
}

func streamingLLM(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\n"+
		"data: {\"choices\":[{\"delta\":{\"content\":\" there\"}}]}\n\n"+
		"data: [DONE]\n\n")
}

func postChat(tb *testBackends, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	tb.router.ServeHTTP(w, req)
	return w
}

func TestChatWithoutWallet(t *testing.T) {
	tb := newTestBackends(t, streamingLLM)
	defer tb.cleanup()

	w := postChat(tb, `{"messages":[{"role":"user","content":"How is the market?"}]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-cache" {
		t.Errorf("Cache-Control = %q", got)
	}

	want := "data: {\"content\":\"Hi\"}\n\ndata: {\"content\":\" there\"}\n\n"
	if w.Body.String() != want {
		t.Errorf("body = %q, want %q", w.Body.String(), want)
	}

	if calls := atomic.LoadInt64(tb.rpcCalls); calls != 0 {
		t.Errorf("fullnode called %d times without a wallet address", calls)
	}
	prompt, _ := tb.systemPrompt.Load().(string)
	if !strings.Contains(prompt, "When no wallet is connected") {
		t.Errorf("system prompt missing general-guidance fallback:\n%s", prompt)
	}
}

func TestChatWithWallet(t *testing.T) {
	tb := newTestBackends(t, streamingLLM)
	defer tb.cleanup()

	w := postChat(tb, `{"messages":[{"role":"user","content":"Analyze my wallet"}],"walletAddress":"`+testWallet+`"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if calls := atomic.LoadInt64(tb.rpcCalls); calls != 3 {
		t.Errorf("fullnode called %d times, want 3", calls)
	}
	prompt, _ := tb.systemPrompt.Load().(string)
	if !strings.Contains(prompt, "Wallet Overview:") {
		t.Errorf("system prompt missing wallet section:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- SUI Balance: 2.0000 SUI (Current value: $3.00)") {
		t.Errorf("system prompt missing valuation:\n%s", prompt)
	}
}

func TestChatInvalidWalletAddress(t *testing.T) {
	tb := newTestBackends(t, streamingLLM)
	defer tb.cleanup()

	w := postChat(tb, `{"messages":[{"role":"user","content":"hi"}],"walletAddress":"0x123"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	// Invalid address means "no wallet": the fetcher is never invoked.
	if calls := atomic.LoadInt64(tb.rpcCalls); calls != 0 {
		t.Errorf("fullnode called %d times for invalid address", calls)
	}
	prompt, _ := tb.systemPrompt.Load().(string)
	if !strings.Contains(prompt, "When no wallet is connected") {
		t.Errorf("system prompt missing general-guidance fallback:\n%s", prompt)
	}
}

func TestChatUpstreamFailure(t *testing.T) {
	tb := newTestBackends(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model overloaded"}`, http.StatusServiceUnavailable)
	})
	defer tb.cleanup()

	w := postChat(tb, `{"messages":[{"role":"user","content":"hi"}]}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp["error"] != "Failed to process request" {
		t.Errorf("error = %q, upstream detail must not leak to the caller", resp["error"])
	}
}

func TestChatInvalidBody(t *testing.T) {
	tb := newTestBackends(t, streamingLLM)
	defer tb.cleanup()

	w := postChat(tb, `{"messages":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	tb := newTestBackends(t, streamingLLM)
	defer tb.cleanup()

	postChat(tb, `{"messages":[{"role":"user","content":"hi"}],"walletAddress":"`+testWallet+`"}`)
	postChat(tb, `{"messages":[{"role":"user","content":"again"}],"walletAddress":"`+testWallet+`"}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	tb.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var snap stats.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.ChatRequests != 2 {
		t.Errorf("ChatRequests = %d, want 2", snap.ChatRequests)
	}
	if snap.StreamedEvents != 4 {
		t.Errorf("StreamedEvents = %d, want 4", snap.StreamedEvents)
	}
	if snap.UniqueWallets != 1 {
		t.Errorf("UniqueWallets = %d, want 1", snap.UniqueWallets)
	}
}
