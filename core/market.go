package core

// CoinData is one asset's market snapshot.
type CoinData struct {
	ID        string  `json:"id"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
	MarketCap float64 `json:"marketCap"`
}

// MarketData is the top assets by market cap, in descending order. It is
// rebuilt fresh for every chat request.
type MarketData []CoinData

// Get returns the entry for a CoinGecko asset id.
func (m MarketData) Get(id string) (CoinData, bool) {
	for _, c := range m {
		if c.ID == id {
			return c, true
		}
	}
	return CoinData{}, false
}

// Price returns the USD price for an asset id, or 0 if the asset is not in
// the snapshot.
func (m MarketData) Price(id string) float64 {
	c, ok := m.Get(id)
	if !ok {
		return 0
	}
	return c.Price
}
