package ai

import (
	"fmt"
	"strings"

	"github.com/Jxnis/sui-portfolio-analysis-agent/core"
)

const promptPreamble = "You are an advanced token portfolio analyzer for SUI wallets. " +
	"You provide in-depth analysis, market estimations, and trading tips based on wallet contents and current market data. "

const noWalletGuidance = "When no wallet is connected, offer general advice on portfolio management, " +
	"SUI ecosystem and crypto market situation in general."

const analysisDirective = `Provide comprehensive analysis including:
1. Market Structure Analysis: Identify key swing highs/lows, trend structures, and potential reversals for SUI and major tokens in the wallet.
2. Volume and Order Flow Analysis: Analyze volume distribution, market depth, and whale activity for relevant tokens.
3. Technical Indicator Analysis: Use indicators like RSI, Bollinger Bands, and Ichimoku Cloud for insights on major holdings.
4. Market Psychology and Sentiment: Evaluate momentum, sentiment, and institutional activity in the SUI ecosystem.
5. Risk Management: Calculate appropriate position sizes, suggest stop losses, and plan trade management strategies.
6. Trading Plan Development: Provide clear entry/exit strategies and alternative scenarios for major holdings.
7. Broader Market Context: Provide insights on how the overall crypto market trends might affect the wallet's holdings.

Offer actionable insights and recommendations based on the wallet composition and current market conditions. Be concise yet thorough in your analysis.

When using technical terms, provide brief explanations or definitions to educate the user.`

// BuildSystemPrompt synthesizes the grounding system prompt from whatever
// data is available. Either input may be nil/empty; the prompt degrades
// accordingly. The output is deterministic for identical inputs.
func BuildSystemPrompt(wallet *core.WalletData, market core.MarketData) string {
	var b strings.Builder
	b.WriteString(promptPreamble)

	if len(market) > 0 {
		b.WriteString("\nCurrent Market Data (Top 30 by Market Cap):\n")
		for _, coin := range market {
			fmt.Fprintf(&b, "- %s (%s): $%.2f (24h change: %.2f%%)\n", coin.Symbol, coin.ID, coin.Price, coin.Change24h)
		}
	}

	if wallet == nil {
		b.WriteString(noWalletGuidance)
		return b.String()
	}

	usdValue := wallet.SuiBalance * market.Price("sui")
	fmt.Fprintf(&b, "\nWallet Overview:\n- SUI Balance: %.4f SUI (Current value: $%.2f)\n- Total Objects: %d\n- Total Coins: %d\n",
		wallet.SuiBalance, usdValue, wallet.TotalObjects, wallet.TotalCoins)

	var nfts []core.OwnedObject
	for _, obj := range wallet.Objects {
		if obj.IsNFT() {
			nfts = append(nfts, obj)
		}
	}
	if len(nfts) > 0 {
		fmt.Fprintf(&b, "\nNFTs (%d):\n", len(nfts))
		for _, nft := range nfts {
			fmt.Fprintf(&b, "- %s\n", nft.Name)
		}
	}

	var tokens []core.Coin
	for _, coin := range wallet.Coins {
		if coin.CoinType != core.SuiCoinType {
			tokens = append(tokens, coin)
		}
	}
	if len(tokens) > 0 {
		b.WriteString("\nOther Tokens:\n")
		for _, token := range tokens {
			fmt.Fprintf(&b, "- %s\n", token.CoinType)
		}
	}

	b.WriteString("\n")
	b.WriteString(analysisDirective)
	return b.String()
}
