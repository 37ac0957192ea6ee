package market

import (
	"fmt"
	"sort"
	"time"
)

// OptionType distinguishes calls from puts using the exchange convention.
type OptionType string

const (
	Call OptionType = "CE"
	Put  OptionType = "PE"
)

// Contract is one row of the contract metadata file.
type Contract struct {
	Token       Token
	Symbol      string // underlying symbol, e.g. NIFTY
	Series      string // e.g. NIFTY-FUTIDX, NIFTY-OPTIDX, NIFTY-INDEX
	Description string
	Expiry      time.Time  // zero for spot/index instruments
	Strike      float64    // zero for non-options
	OptionType  OptionType // empty for non-options
	LotSize     int
}

// IsOption reports whether the contract is a call or a put.
func (c Contract) IsOption() bool {
	return c.OptionType == Call || c.OptionType == Put
}

// ContractTable is the in-memory contract metadata, indexed by token.
type ContractTable struct {
	byToken map[Token]Contract
	all     []Contract
}

func NewContractTable(contracts []Contract) *ContractTable {
	t := &ContractTable{
		byToken: make(map[Token]Contract, len(contracts)),
		all:     make([]Contract, len(contracts)),
	}
	copy(t.all, contracts)
	for _, c := range contracts {
		t.byToken[c.Token] = c
	}
	return t
}

func (t *ContractTable) Get(tok Token) (Contract, bool) {
	c, ok := t.byToken[tok]
	return c, ok
}

func (t *ContractTable) Len() int { return len(t.all) }

// LotSize returns the contract's lot size, defaulting to 1 when the token
// is unknown or the metadata row has no lot size. Orders are placed in
// lots; the fill engine multiplies by this to get units.
func (t *ContractTable) LotSize(tok Token) int {
	if c, ok := t.byToken[tok]; ok && c.LotSize > 0 {
		return c.LotSize
	}
	return 1
}

// Describe returns a human-readable name for the token, falling back to
// the numeric token when the contract is unknown.
func (t *ContractTable) Describe(tok Token) string {
	if c, ok := t.byToken[tok]; ok && c.Description != "" {
		return c.Description
	}
	return fmt.Sprintf("token-%d", tok)
}

// FindOption locates the index option with the given strike and type on
// the nearest expiry on or after the given date. ok=false when no such
// contract exists in the table.
func (t *ContractTable) FindOption(symbol string, strike int, typ OptionType, onOrAfter time.Time) (Contract, bool) {
	series := symbol + "-OPTIDX"
	day := onOrAfter.Truncate(24 * time.Hour)

	var best Contract
	found := false
	for _, c := range t.all {
		if c.Series != series || c.OptionType != typ {
			continue
		}
		if int(c.Strike) != strike {
			continue
		}
		if c.Expiry.IsZero() || c.Expiry.Truncate(24*time.Hour).Before(day) {
			continue
		}
		if !found || c.Expiry.Before(best.Expiry) {
			best = c
			found = true
		}
	}
	return best, found
}

// ResolveUnderlying picks the tradable instrument that best tracks the
// underlying symbol: futures first, then index spot, then anything
// non-option that has price data. hasData reports whether a token has a
// loaded price series.
func (t *ContractTable) ResolveUnderlying(symbol string, hasData func(Token) bool) (Contract, error) {
	preferred := []string{
		symbol + "-FUTIDX",
		symbol + "-INDEX",
		symbol + "-SPOT",
	}
	for _, series := range preferred {
		for _, c := range t.all {
			if c.Series == series && hasData(c.Token) {
				return c, nil
			}
		}
	}

	// Fall back to any non-option contract for the symbol. Options are
	// excluded: they do not stand in for the underlying.
	var candidates []Contract
	for _, c := range t.all {
		if c.Symbol == symbol && !c.IsOption() && hasData(c.Token) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return Contract{}, fmt.Errorf("no instrument with price data for underlying %q", symbol)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Token < candidates[j].Token })
	return candidates[0], nil
}
