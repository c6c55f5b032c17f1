package models

import "time"

// InstrumentType is the kind of security a symbol refers to.
type InstrumentType string

const (
	InstrumentEquity InstrumentType = "EQUITY"
	InstrumentETF    InstrumentType = "ETF"
)

// Searchable reports whether t is a type surfaced by symbol search.
func (t InstrumentType) Searchable() bool {
	return t == InstrumentEquity || t == InstrumentETF
}

// SymbolMatch is one symbol search hit.
type SymbolMatch struct {
	Symbol   string         `json:"symbol"`
	Name     string         `json:"name"`
	Exchange string         `json:"exchange"`
	Type     InstrumentType `json:"type"`
}

// Bar is one trading day. Field order is the CSV column order.
type Bar struct {
	Date     string  `json:"date"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	AdjClose float64 `json:"adjClose"`
	Volume   int64   `json:"volume"`
}

// ProviderQuote is a raw search result as returned by a market data provider.
type ProviderQuote struct {
	Symbol    string
	ShortName string
	LongName  string
	Name      string
	Exchange  string
	QuoteType string
	// Valid is false for news items, currencies and other entries that are not tradable instruments.
	Valid bool
}

// DisplayName picks the first non-empty of short name, long name and raw name.
func (q ProviderQuote) DisplayName() string {
	switch {
	case q.ShortName != "":
		return q.ShortName
	case q.LongName != "":
		return q.LongName
	default:
		return q.Name
	}
}

// ProviderBar is a raw daily bar with its timestamp as reported by the provider.
type ProviderBar struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}
