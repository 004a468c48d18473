package core

// Message is a single conversation turn. Roles follow the chat-completions
// convention: "user", "assistant" or "system".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the inbound body of POST /api/chat. WalletAddress is
// optional; when absent or invalid the agent answers without wallet context.
type ChatRequest struct {
	Messages      []Message `json:"messages"`
	WalletAddress string    `json:"walletAddress,omitempty"`
}

// StreamEvent is one normalized increment of assistant text sent to the
// client. The outbound stream carries exactly one event per upstream delta.
type StreamEvent struct {
	Content string `json:"content"`
}
