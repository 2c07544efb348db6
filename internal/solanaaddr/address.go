// Package solanaaddr provides local sanity checks for Solana wallet
// addresses. The analytics service is still the authority on validity; these
// checks only drive an up-front advisory so obvious mistakes (truncated
// pastes, program addresses) are flagged before a multi-minute run starts.
package solanaaddr

import (
	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// LooksLikeWallet reports whether addr decodes to a 32-byte base58 value
// that is a valid point on the ed25519 curve. Off-curve 32-byte values are
// program-derived addresses, not wallets.
func LooksLikeWallet(addr string) bool {
	decoded, err := base58.Decode(addr)
	if err != nil || len(decoded) != 32 {
		return false
	}
	return isOnCurve(decoded)
}

// CountSuspect returns how many of addrs fail the wallet shape check.
func CountSuspect(addrs []string) int {
	n := 0
	for _, addr := range addrs {
		if !LooksLikeWallet(addr) {
			n++
		}
	}
	return n
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
