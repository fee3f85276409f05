package domain

import (
	"fmt"
	"strings"
)

// Canon key token for cache/history/persistence
type TokenKey struct {
	ChainID      string
	TokenAddress string
}

func (k TokenKey) String() string {
	return fmt.Sprintf("%s:%s", k.ChainID, strings.ToLower(k.TokenAddress))
}

// StoreKey = "<chain_id>-<token_address>" with "/" replaced by "_"
// so the key stays filesystem-safe when the store is file-backed
func (k TokenKey) StoreKey() string {
	key := fmt.Sprintf("%s-%s", k.ChainID, k.TokenAddress)
	return strings.ReplaceAll(key, "/", "_")
}

func ParseStoreKey(s string) (TokenKey, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return TokenKey{}, fmt.Errorf("invalid store key format: %s", s)
	}
	return TokenKey{ChainID: parts[0], TokenAddress: parts[1]}, nil
}
