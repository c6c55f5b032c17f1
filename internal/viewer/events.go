package viewer

import "StockHistory/internal/domain/models"

// Event is an input to Reduce.
type Event interface{ isEvent() }

type (
	// InputChanged is one keystroke's worth of search text.
	InputChanged struct{ Text string }
	// DebounceFired is delivered when the debounce timer armed for Query expires.
	DebounceFired struct{ Query string }
	SearchSucceeded struct {
		Seq     uint64
		Query   string
		Results []models.SymbolMatch
	}
	SearchFailed struct {
		Seq   uint64
		Query string
		Err   string
	}
	// SymbolSelected picks a result; nil clears the selection.
	SymbolSelected  struct{ Symbol *models.SymbolMatch }
	DateFromChanged struct{ Date string }
	DateToChanged   struct{ Date string }
	FetchRequested  struct{}
	FetchSucceeded  struct {
		Seq     uint64
		Request models.HistoryRequest
		Bars    []models.Bar
	}
	FetchFailed struct {
		Seq uint64
		Err string
	}
)

func (InputChanged) isEvent()    {}
func (DebounceFired) isEvent()   {}
func (SearchSucceeded) isEvent() {}
func (SearchFailed) isEvent()    {}
func (SymbolSelected) isEvent()  {}
func (DateFromChanged) isEvent() {}
func (DateToChanged) isEvent()   {}
func (FetchRequested) isEvent()  {}
func (FetchSucceeded) isEvent()  {}
func (FetchFailed) isEvent()     {}

// Effect is work the runtime performs after a transition.
type Effect interface{ isEffect() }

type (
	// ArmDebounce (re)arms the single debounce slot for Query.
	ArmDebounce struct{ Query string }
	// IssueSearch starts a search; any older in-flight search is superseded.
	IssueSearch struct {
		Seq   uint64
		Query string
	}
	IssueFetch struct {
		Seq     uint64
		Request models.HistoryRequest
	}
)

func (ArmDebounce) isEffect() {}
func (IssueSearch) isEffect() {}
func (IssueFetch) isEffect()  {}
