package market

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

// Data bundles everything loaded from disk for one trading day: the
// contract metadata plus the per-token minute bars.
type Data struct {
	Contracts *ContractTable
	Series    map[Token]*Series
}

// Load reads the contract metadata and bar files and wires them together.
func Load(contractPath, barsPath string) (*Data, error) {
	contracts, err := LoadContracts(contractPath)
	if err != nil {
		return nil, fmt.Errorf("load contracts: %w", err)
	}
	series, err := LoadBars(barsPath)
	if err != nil {
		return nil, fmt.Errorf("load bars: %w", err)
	}
	return &Data{Contracts: contracts, Series: series}, nil
}

// HasData reports whether the token has a loaded price series.
func (d *Data) HasData(tok Token) bool {
	s, ok := d.Series[tok]
	return ok && s.Len() > 0
}

// SeriesFor returns the bar history for a token.
func (d *Data) SeriesFor(tok Token) (*Series, bool) {
	s, ok := d.Series[tok]
	return s, ok
}

// LoadContracts reads a contract CSV with columns:
//
//	token,symbol,series,description,expiry,strike,option_type,lot_size
//
// expiry is RFC3339 or YYYY-MM-DD and may be empty for spot instruments.
// A header row is allowed. The file may be xz-compressed (.xz suffix).
func LoadContracts(path string) (*ContractTable, error) {
	rc, err := openMaybeXZ(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.FieldsPerRecord = -1

	var contracts []Contract
	sawFirst := false
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !sawFirst {
			sawFirst = true
			if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "token") {
				continue
			}
		}
		c, ok, err := parseContractRow(row)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		contracts = append(contracts, c)
	}
	return NewContractTable(contracts), nil
}

func parseContractRow(row []string) (Contract, bool, error) {
	if len(row) < 4 {
		return Contract{}, false, nil
	}
	tok, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
	if err != nil {
		return Contract{}, false, fmt.Errorf("bad token %q: %w", row[0], err)
	}
	c := Contract{
		Token:       Token(tok),
		Symbol:      strings.TrimSpace(row[1]),
		Series:      strings.TrimSpace(row[2]),
		Description: strings.TrimSpace(row[3]),
		LotSize:     1,
	}
	if len(row) > 4 && strings.TrimSpace(row[4]) != "" {
		exp, err := parseTimeLoose(row[4])
		if err != nil {
			return Contract{}, false, fmt.Errorf("token %d: bad expiry %q: %w", tok, row[4], err)
		}
		c.Expiry = exp
	}
	if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
		strike, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		if err != nil {
			return Contract{}, false, fmt.Errorf("token %d: bad strike %q: %w", tok, row[5], err)
		}
		c.Strike = strike
	}
	if len(row) > 6 {
		c.OptionType = OptionType(strings.ToUpper(strings.TrimSpace(row[6])))
	}
	if len(row) > 7 && strings.TrimSpace(row[7]) != "" {
		lot, err := strconv.Atoi(strings.TrimSpace(row[7]))
		if err != nil {
			return Contract{}, false, fmt.Errorf("token %d: bad lot size %q: %w", tok, row[7], err)
		}
		if lot > 0 {
			c.LotSize = lot
		}
	}
	return c, true, nil
}

// LoadBars reads a minute-bar CSV with columns:
//
//	time,token,open,high,low,close
//
// time is RFC3339. Rows may arrive in any order; each token's series is
// sorted chronologically after loading. A header row is allowed. The
// file may be xz-compressed (.xz suffix).
func LoadBars(path string) (map[Token]*Series, error) {
	rc, err := openMaybeXZ(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.FieldsPerRecord = -1

	series := make(map[Token]*Series)
	sawFirst := false
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !sawFirst {
			sawFirst = true
			if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}
		bar, ok, err := parseBarRow(row)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		s := series[bar.Token]
		if s == nil {
			s = &Series{Token: bar.Token}
			series[bar.Token] = s
		}
		s.Bars = append(s.Bars, bar)
	}

	for _, s := range series {
		sort.Slice(s.Bars, func(i, j int) bool { return s.Bars[i].Time.Before(s.Bars[j].Time) })
	}
	return series, nil
}

func parseBarRow(row []string) (Bar, bool, error) {
	if len(row) < 6 {
		return Bar{}, false, nil
	}
	ts, err := parseTimeLoose(row[0])
	if err != nil {
		return Bar{}, false, fmt.Errorf("bad bar time %q: %w", row[0], err)
	}
	tok, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
	if err != nil {
		return Bar{}, false, fmt.Errorf("bad bar token %q: %w", row[1], err)
	}
	vals := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[2+i]), 64)
		if err != nil {
			return Bar{}, false, fmt.Errorf("bad bar field %q: %w", row[2+i], err)
		}
		vals[i] = v
	}
	return Bar{
		Token: Token(tok),
		Time:  ts,
		Open:  vals[0],
		High:  vals[1],
		Low:   vals[2],
		Close: vals[3],
	}, true, nil
}

func parseTimeLoose(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// openMaybeXZ opens a file, transparently decompressing .xz archives so
// large bar dumps can stay compressed on disk.
func openMaybeXZ(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".xz") {
		return f, nil
	}
	xr, err := xz.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open xz %s: %w", path, err)
	}
	return &xzReadCloser{r: xr, f: f}, nil
}

type xzReadCloser struct {
	r io.Reader
	f *os.File
}

func (x *xzReadCloser) Read(p []byte) (int, error) { return x.r.Read(p) }
func (x *xzReadCloser) Close() error               { return x.f.Close() }
