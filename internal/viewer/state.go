// Package viewer holds the search-and-fetch controller behind the terminal UI:
// explicit state, a pure reducer over events, and a runtime that owns the event loop.
package viewer

import (
	"time"

	"StockHistory/internal/domain/models"
	"StockHistory/pkg/util"
)

// SearchPhase is the debounce pipeline position derived from SearchState.
type SearchPhase int

const (
	PhaseIdle SearchPhase = iota
	PhasePending
	PhaseSearching
	PhaseSettled
)

func (p SearchPhase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseSearching:
		return "searching"
	case PhaseSettled:
		return "settled"
	default:
		return "idle"
	}
}

type SearchState struct {
	InputText    string
	PendingQuery *string
	Results      []models.SymbolMatch
	IsSearching  bool
	// Issued is the sequence number of the most recently issued (or short-circuited) search.
	Issued uint64
}

type SelectionState struct {
	SelectedSymbol *models.SymbolMatch
	DateFrom       string
	DateTo         string
}

type FetchState struct {
	Bars      []models.Bar
	IsLoading bool
	Error     string
	// LoadedFor is the request that produced Bars.
	LoadedFor *models.HistoryRequest
	// Seq tags the in-flight fetch; replies carrying another value are dropped.
	Seq uint64
}

type State struct {
	Search    SearchState
	Selection SelectionState
	Fetch     FetchState
}

// NewState returns the initial state with the default range ending on now's date.
func NewState(now time.Time) State {
	from, to := util.DefaultRange(now)
	return State{
		Search: SearchState{Results: []models.SymbolMatch{}},
		Selection: SelectionState{
			DateFrom: util.FormatDate(from),
			DateTo:   util.FormatDate(to),
		},
		Fetch: FetchState{Bars: []models.Bar{}},
	}
}

func (s SearchState) Phase() SearchPhase {
	switch {
	case s.IsSearching:
		return PhaseSearching
	case s.PendingQuery != nil:
		return PhasePending
	case s.InputText == "" && len(s.Results) == 0:
		return PhaseIdle
	default:
		return PhaseSettled
	}
}

// CanExport reports whether there are loaded bars to write out.
func (f FetchState) CanExport() bool {
	return len(f.Bars) > 0 && f.LoadedFor != nil
}
