package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 10, d, 0, 0, 0, 0, time.UTC)
}

func sampleTable() *ContractTable {
	return NewContractTable([]Contract{
		{Token: 1, Symbol: "NIFTY", Series: "NIFTY-INDEX", Description: "NIFTY 50"},
		{Token: 2, Symbol: "NIFTY", Series: "NIFTY-FUTIDX", Description: "NIFTY OCT FUT", Expiry: day(30), LotSize: 50},
		{Token: 10, Symbol: "NIFTY", Series: "NIFTY-OPTIDX", Description: "NIFTY 09OCT 25000 CE", Expiry: day(9), Strike: 25000, OptionType: Call, LotSize: 50},
		{Token: 11, Symbol: "NIFTY", Series: "NIFTY-OPTIDX", Description: "NIFTY 09OCT 25000 PE", Expiry: day(9), Strike: 25000, OptionType: Put, LotSize: 50},
		{Token: 12, Symbol: "NIFTY", Series: "NIFTY-OPTIDX", Description: "NIFTY 16OCT 25000 CE", Expiry: day(16), Strike: 25000, OptionType: Call, LotSize: 50},
		{Token: 13, Symbol: "NIFTY", Series: "NIFTY-OPTIDX", Description: "NIFTY 09OCT 25050 CE", Expiry: day(9), Strike: 25050, OptionType: Call, LotSize: 50},
	})
}

func TestFindOptionPicksNearestExpiry(t *testing.T) {
	tab := sampleTable()

	c, ok := tab.FindOption("NIFTY", 25000, Call, day(7))
	require.True(t, ok)
	assert.Equal(t, Token(10), c.Token, "09OCT beats 16OCT for a 07OCT session")

	c, ok = tab.FindOption("NIFTY", 25000, Call, day(10))
	require.True(t, ok)
	assert.Equal(t, Token(12), c.Token, "expired weeklies are skipped")

	c, ok = tab.FindOption("NIFTY", 25000, Call, day(9))
	require.True(t, ok)
	assert.Equal(t, Token(10), c.Token, "expiry day itself still trades")

	c, ok = tab.FindOption("NIFTY", 25000, Put, day(7))
	require.True(t, ok)
	assert.Equal(t, Token(11), c.Token)

	_, ok = tab.FindOption("NIFTY", 24000, Call, day(7))
	assert.False(t, ok, "no such strike")

	_, ok = tab.FindOption("BANKNIFTY", 25000, Call, day(7))
	assert.False(t, ok, "no such symbol")
}

func TestResolveUnderlyingPrefersFutures(t *testing.T) {
	tab := sampleTable()
	withData := func(toks ...Token) func(Token) bool {
		set := map[Token]bool{}
		for _, tok := range toks {
			set[tok] = true
		}
		return func(tok Token) bool { return set[tok] }
	}

	c, err := tab.ResolveUnderlying("NIFTY", withData(1, 2, 10))
	require.NoError(t, err)
	assert.Equal(t, Token(2), c.Token, "futures over spot index")

	c, err = tab.ResolveUnderlying("NIFTY", withData(1, 10))
	require.NoError(t, err)
	assert.Equal(t, Token(1), c.Token, "spot when futures have no data")

	_, err = tab.ResolveUnderlying("NIFTY", withData(10, 11))
	assert.Error(t, err, "options never stand in for the underlying")

	_, err = tab.ResolveUnderlying("BANKNIFTY", withData(1, 2))
	assert.Error(t, err)
}

func TestLotSizeAndDescribeDefaults(t *testing.T) {
	tab := sampleTable()

	assert.Equal(t, 50, tab.LotSize(2))
	assert.Equal(t, 1, tab.LotSize(1), "missing lot size falls back to 1")
	assert.Equal(t, 1, tab.LotSize(999), "unknown token falls back to 1")

	assert.Equal(t, "NIFTY 50", tab.Describe(1))
	assert.Equal(t, "token-999", tab.Describe(999))

	_, ok := tab.Get(999)
	assert.False(t, ok)
	assert.Equal(t, 6, tab.Len())
}

func TestIsOption(t *testing.T) {
	assert.True(t, Contract{OptionType: Call}.IsOption())
	assert.True(t, Contract{OptionType: Put}.IsOption())
	assert.False(t, Contract{}.IsOption())
	assert.False(t, Contract{OptionType: "XX"}.IsOption())
}
