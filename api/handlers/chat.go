package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Jxnis/sui-portfolio-analysis-agent/ai"
	"github.com/Jxnis/sui-portfolio-analysis-agent/config"
	"github.com/Jxnis/sui-portfolio-analysis-agent/core"
	"github.com/Jxnis/sui-portfolio-analysis-agent/market"
	"github.com/Jxnis/sui-portfolio-analysis-agent/stats"
	"github.com/Jxnis/sui-portfolio-analysis-agent/sui"
)

// ChatHandler wires the wallet, market and completion clients behind the
// chat endpoints.
type ChatHandler struct {
	sui    *sui.Client
	market *market.Client
	ai     *ai.Client
	stats  *stats.Collector
}

// NewChatHandler builds the handler and its clients from process config.
func NewChatHandler(cfg config.Config) *ChatHandler {
	return &ChatHandler{
		sui:    sui.NewClient(cfg.SuiRPCURL),
		market: market.NewClient(cfg.CoinGeckoBaseURL),
		ai: ai.NewClient(ai.Config{
			APIKey:  cfg.OpenRouterAPIKey,
			BaseURL: cfg.OpenRouterBaseURL,
			Model:   cfg.Model,
			AppURL:  cfg.AppURL,
			AppName: cfg.AppName,
		}),
		stats: stats.NewCollector(),
	}
}

// openStream gathers wallet and market context concurrently, synthesizes
// the system prompt and opens the upstream completion stream. Wallet and
// market failures degrade to missing context; only a completion failure is
// returned.
func (h *ChatHandler) openStream(ctx context.Context, requestID string, req core.ChatRequest) (io.ReadCloser, error) {
	var (
		walletData *core.WalletData
		marketData core.MarketData
		wg         sync.WaitGroup
	)

	if req.WalletAddress != "" {
		if sui.IsValidAddress(req.WalletAddress) {
			h.stats.RecordWallet(req.WalletAddress)
			wg.Add(1)
			go func() {
				defer wg.Done()
				data, err := h.sui.WalletData(ctx, req.WalletAddress)
				if err != nil {
					log.Printf("[%s] Error fetching wallet data: %v", requestID, err)
					return
				}
				walletData = data
			}()
		} else {
			log.Printf("[%s] Invalid Sui address: %s", requestID, req.WalletAddress)
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		data, err := h.market.TopCoins(ctx)
		if err != nil {
			log.Printf("[%s] Error fetching market data: %v", requestID, err)
			return
		}
		marketData = data
	}()
	wg.Wait()

	systemPrompt := ai.BuildSystemPrompt(walletData, marketData)
	return h.ai.StreamChatCompletion(ctx, systemPrompt, req.Messages)
}

// Chat handles POST /api/chat: it grounds the conversation in on-chain and
// market data, then relays the streamed completion as Server-Sent Events.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req core.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	requestID := uuid.New().String()
	h.stats.RecordChatRequest()

	ctx := c.Request.Context()
	body, err := h.openStream(ctx, requestID, req)
	if err != nil {
		h.stats.RecordUpstreamFailure()
		log.Printf("[%s] Completion request failed: %v", requestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}
	defer body.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	reframer := ai.NewReframer(body)
	events := 0
	for {
		event, err := reframer.Next()
		if err != nil {
			break
		}
		select {
		case <-ctx.Done():
			log.Printf("[%s] Client disconnected after %d events", requestID, events)
			h.stats.RecordStreamedEvents(events)
			return
		default:
		}
		payload, err := json.Marshal(event)
		if err != nil {
			log.Printf("[%s] Error encoding stream event: %v", requestID, err)
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
		c.Writer.Flush()
		events++
	}
	h.stats.RecordStreamedEvents(events)
}

// Stats returns process-wide chat counters.
func (h *ChatHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.Snapshot())
}
