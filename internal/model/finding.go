package model

import "time"

// FindingCategory classifies what a finding reports.
type FindingCategory string

const (
	CategoryBullishSetup   FindingCategory = "BULLISH_SETUP"
	CategoryBearishWarning FindingCategory = "BEARISH_WARNING"
	CategoryOverbought     FindingCategory = "OVERBOUGHT"
	CategoryOversold       FindingCategory = "OVERSOLD"
)

// Finding is one emitted signal for one symbol in one scan cycle.
// Findings are never mutated after creation.
type Finding struct {
	Symbol   string
	Category FindingCategory
	Text     string
}

// ScanResult aggregates one complete scan cycle. It is discarded
// after notification; nothing carries over to the next cycle.
type ScanResult struct {
	Interval       string
	Mode           string
	Findings       []Finding
	SymbolsChecked int
	StartedAt      time.Time
	FinishedAt     time.Time
}
