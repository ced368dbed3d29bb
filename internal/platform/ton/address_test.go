package ton

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"
)

const rawAddr = "0:83dfd552e63729b472fcbcc8c45ebcc6691702558b68ec7527e1ba403a0f31a8"

func TestNormalizeRawDerivesFriendly(t *testing.T) {
	n := NewNormalizer(false)

	got, err := n.Normalize(strings.ToUpper(rawAddr), "", ChainMainnet)
	require.NoError(t, err)
	assert.Equal(t, rawAddr, got.Raw)
	require.NotEmpty(t, got.Friendly)

	parsed, err := address.ParseAddr(got.Friendly)
	require.NoError(t, err)
	assert.Equal(t, rawAddr, parsed.StringRaw())
	assert.False(t, parsed.IsBounceable())
	assert.False(t, parsed.IsTestnetOnly())
}

func TestNormalizeFriendlyInput(t *testing.T) {
	n := NewNormalizer(false)

	base, err := address.ParseRawAddr(rawAddr)
	require.NoError(t, err)
	friendly := base.String()

	got, err := n.Normalize(friendly, friendly, ChainMainnet)
	require.NoError(t, err)
	assert.Equal(t, rawAddr, got.Raw)
	assert.Equal(t, friendly, got.Friendly)
}

func TestNormalizeTestnet(t *testing.T) {
	_, err := NewNormalizer(false).Normalize(rawAddr, "", ChainTestnet)
	assert.ErrorIs(t, err, ErrUnsupportedChain)

	got, err := NewNormalizer(true).Normalize(rawAddr, "", ChainTestnet)
	require.NoError(t, err)
	parsed, err := address.ParseAddr(got.Friendly)
	require.NoError(t, err)
	assert.True(t, parsed.IsTestnetOnly())
}

func TestNormalizeErrors(t *testing.T) {
	n := NewNormalizer(true)

	other, err := address.ParseRawAddr("0:0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(t, err)

	tests := []struct {
		name     string
		addr     string
		friendly string
		chain    int32
		want     error
	}{
		{name: "empty", addr: "  ", chain: ChainMainnet, want: ErrEmptyAddress},
		{name: "garbage", addr: "not-an-address", chain: ChainMainnet, want: ErrInvalidAddress},
		{name: "bad raw hex", addr: "0:xyz", chain: ChainMainnet, want: ErrInvalidAddress},
		{name: "unknown chain", addr: rawAddr, chain: 1, want: ErrUnsupportedChain},
		{name: "missing chain", addr: rawAddr, chain: 0, want: ErrUnsupportedChain},
		{name: "friendly mismatch", addr: rawAddr, friendly: other.String(), chain: ChainMainnet, want: ErrAddressMismatch},
		{name: "friendly garbage", addr: rawAddr, friendly: "EQ-nope", chain: ChainMainnet, want: ErrInvalidAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.addr, tt.friendly, tt.chain)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
