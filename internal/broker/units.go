package broker

import (
	"fmt"
	"math/big"
	"strings"
)

// tokenDecimals is the ledger token's fixed-point scale.
const tokenDecimals = 18

var weiPerToken = new(big.Int).Exp(big.NewInt(10), big.NewInt(tokenDecimals), nil)

// ParseAmount converts a decimal token string ("1.5") to wei. Fractional
// digits beyond the 18th are truncated, never rounded. Negative amounts are
// rejected; every ledger operation takes a non-negative value.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > tokenDecimals {
		fracPart = fracPart[:tokenDecimals]
	}
	fracPart += strings.Repeat("0", tokenDecimals-len(fracPart))

	whole, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	frac, ok := new(big.Int).SetString(fracPart, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return whole.Mul(whole, weiPerToken).Add(whole, frac), nil
}

// FormatAmount renders wei as a decimal token string with trailing zeros
// trimmed.
func FormatAmount(wei *big.Int) string {
	whole, frac := new(big.Int).QuoRem(new(big.Int).Set(wei), weiPerToken, new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	digits := strings.TrimRight(fmt.Sprintf("%018s", frac.String()), "0")
	return whole.String() + "." + digits
}
