package ton

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xssnick/tonutils-go/address"
)

// TON Connect chain ids.
const (
	ChainMainnet int32 = -239
	ChainTestnet int32 = -3
)

var (
	ErrEmptyAddress     = errors.New("wallet address is empty")
	ErrInvalidAddress   = errors.New("wallet address is invalid")
	ErrAddressMismatch  = errors.New("friendly address does not match raw address")
	ErrUnsupportedChain = errors.New("unsupported wallet chain")
)

// Address is a wallet address in both of its textual forms.
type Address struct {
	// Raw is "<workchain>:<hex>" in lower case and is what uniqueness is checked on.
	Raw      string
	Friendly string
}

// Normalizer canonicalizes wallet addresses coming from the wallet-connect UI.
type Normalizer struct {
	AllowTestnet bool
}

func NewNormalizer(allowTestnet bool) *Normalizer {
	return &Normalizer{AllowTestnet: allowTestnet}
}

// Normalize parses addr (raw or user-friendly) and returns its canonical raw
// form. When friendly is empty it is derived as a non-bounceable address,
// flagged testnet-only for the testnet chain.
func (n *Normalizer) Normalize(addr, friendly string, chain int32) (Address, error) {
	switch chain {
	case ChainMainnet:
	case ChainTestnet:
		if !n.AllowTestnet {
			return Address{}, fmt.Errorf("%w: %d", ErrUnsupportedChain, chain)
		}
	default:
		return Address{}, fmt.Errorf("%w: %d", ErrUnsupportedChain, chain)
	}

	parsed, err := parse(addr)
	if err != nil {
		return Address{}, err
	}
	raw := parsed.StringRaw()

	friendly = strings.TrimSpace(friendly)
	if friendly == "" {
		parsed.SetBounce(false)
		parsed.SetTestnetOnly(chain == ChainTestnet)
		return Address{Raw: raw, Friendly: parsed.String()}, nil
	}

	other, err := address.ParseAddr(friendly)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if other.StringRaw() != raw {
		return Address{}, ErrAddressMismatch
	}
	return Address{Raw: raw, Friendly: friendly}, nil
}

func parse(addr string) (*address.Address, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, ErrEmptyAddress
	}
	var (
		parsed *address.Address
		err    error
	)
	if strings.Contains(addr, ":") {
		parsed, err = address.ParseRawAddr(strings.ToLower(addr))
	} else {
		parsed, err = address.ParseAddr(addr)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return parsed, nil
}
