package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/params"
)

// ParseEther converts a decimal string in native units ("0.001") to wei.
// The value must be exactly representable in wei.
func ParseEther(s string) (*big.Int, error) {
	rat, ok := new(big.Rat).SetString(s)
	if ok && rat.Sign() < 0 {
		return nil, fmt.Errorf("negative amount: %s", s)
	}
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", s)
	}

	wei := new(big.Rat).Mul(rat, new(big.Rat).SetInt(big.NewInt(params.Ether)))
	if !wei.IsInt() {
		return nil, fmt.Errorf("amount %s is below wei precision", s)
	}
	return wei.Num(), nil
}

// FormatEther renders a wei amount as a decimal string in native units.
func FormatEther(wei *big.Int) string {
	rat := new(big.Rat).SetFrac(wei, big.NewInt(params.Ether))
	out := rat.FloatString(18)
	// Trim trailing zeros but keep at least one digit after the point
	for len(out) > 0 && out[len(out)-1] == '0' {
		out = out[:len(out)-1]
	}
	if len(out) > 0 && out[len(out)-1] == '.' {
		out = out[:len(out)-1]
	}
	return out
}
