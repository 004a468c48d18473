package stats

import (
	"sync"

	"github.com/axiomhq/hyperloglog"
)

// Collector tracks process-wide chat metrics. Unique wallets are estimated
// with a HyperLogLog sketch so the counter stays small no matter how many
// addresses pass through.
type Collector struct {
	mu               sync.Mutex
	chatRequests     uint64
	streamedEvents   uint64
	upstreamFailures uint64
	wallets          *hyperloglog.Sketch
}

// Snapshot is a read-only view of the collector, served by GET /api/stats.
type Snapshot struct {
	ChatRequests     uint64 `json:"chatRequests"`
	StreamedEvents   uint64 `json:"streamedEvents"`
	UpstreamFailures uint64 `json:"upstreamFailures"`
	UniqueWallets    uint64 `json:"uniqueWallets"`
}

func NewCollector() *Collector {
	return &Collector{wallets: hyperloglog.New14()}
}

func (c *Collector) RecordChatRequest() {
	c.mu.Lock()
	c.chatRequests++
	c.mu.Unlock()
}

func (c *Collector) RecordWallet(address string) {
	c.mu.Lock()
	c.wallets.Insert([]byte(address))
	c.mu.Unlock()
}

func (c *Collector) RecordStreamedEvents(n int) {
	if n <= 0 {
		return
	}
	c.mu.Lock()
	c.streamedEvents += uint64(n)
	c.mu.Unlock()
}

func (c *Collector) RecordUpstreamFailure() {
	c.mu.Lock()
	c.upstreamFailures++
	c.mu.Unlock()
}

func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		ChatRequests:     c.chatRequests,
		StreamedEvents:   c.streamedEvents,
		UpstreamFailures: c.upstreamFailures,
		UniqueWallets:    c.wallets.Estimate(),
	}
}
