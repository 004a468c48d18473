package core

// SuiCoinType identifies the native SUI coin. Holdings of this type are
// reported as the wallet balance, not as "other tokens".
const SuiCoinType = "0x2::sui::SUI"

// OwnedObject is an object owned by a wallet. Name carries the object's
// display name when the object publishes display metadata; objects with a
// display name are treated as NFTs.
type OwnedObject struct {
	ObjectID string `json:"objectId"`
	Name     string `json:"name,omitempty"`
}

// IsNFT reports whether the object looks like an NFT.
func (o OwnedObject) IsNFT() bool {
	return o.Name != ""
}

// Coin is a fungible coin balance owned by a wallet. Balance is the raw
// amount string as reported by the fullnode.
type Coin struct {
	CoinType string `json:"coinType"`
	Balance  string `json:"balance"`
}

// WalletData is a point-in-time snapshot of a wallet's holdings, fetched
// fresh per request and never cached. Invariant: TotalObjects == len(Objects)
// and TotalCoins == len(Coins).
type WalletData struct {
	SuiBalance   float64       `json:"suiBalance"`
	Objects      []OwnedObject `json:"objects"`
	Coins        []Coin        `json:"coins"`
	TotalObjects int           `json:"totalObjects"`
	TotalCoins   int           `json:"totalCoins"`
}
