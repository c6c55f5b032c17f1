package viewer

import (
	"unicode/utf8"

	"StockHistory/internal/domain/models"
)

const (
	DefaultMinQueryLength = 2
	MsgCompleteFields     = "please complete all fields"
)

// Reducer computes state transitions. It holds configuration only and is safe to copy.
type Reducer struct {
	// MinQueryLength is the shortest query that reaches the network.
	MinQueryLength int
}

// Reduce applies ev with default settings.
func Reduce(s State, ev Event) (State, []Effect) {
	return Reducer{MinQueryLength: DefaultMinQueryLength}.Reduce(s, ev)
}

// Reduce returns the next state and the effects to run. It never mutates s.
func (r Reducer) Reduce(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case InputChanged:
		s.Search.InputText = ev.Text
		q := ev.Text
		s.Search.PendingQuery = &q
		return s, []Effect{ArmDebounce{Query: ev.Text}}

	case DebounceFired:
		if s.Search.PendingQuery == nil || *s.Search.PendingQuery != ev.Query {
			return s, nil
		}
		s.Search.Issued++
		if utf8.RuneCountInString(ev.Query) < r.MinQueryLength {
			s.Search.PendingQuery = nil
			s.Search.Results = []models.SymbolMatch{}
			s.Search.IsSearching = false
			return s, nil
		}
		s.Search.IsSearching = true
		return s, []Effect{IssueSearch{Seq: s.Search.Issued, Query: ev.Query}}

	case SearchSucceeded:
		if ev.Seq != s.Search.Issued {
			return s, nil
		}
		results := ev.Results
		if results == nil {
			results = []models.SymbolMatch{}
		}
		s.Search.Results = results
		s.Search = settle(s.Search, ev.Query)
		return s, nil

	case SearchFailed:
		if ev.Seq != s.Search.Issued {
			return s, nil
		}
		s.Search.Results = []models.SymbolMatch{}
		s.Search = settle(s.Search, ev.Query)
		return s, nil

	case SymbolSelected:
		s.Selection.SelectedSymbol = ev.Symbol
		s.Fetch.Bars = []models.Bar{}
		s.Fetch.LoadedFor = nil
		s.Fetch.Error = ""
		if s.Fetch.IsLoading {
			// drop the reply for the previous symbol
			s.Fetch.Seq++
			s.Fetch.IsLoading = false
		}
		return s, nil

	case DateFromChanged:
		s.Selection.DateFrom = ev.Date
		return s, nil

	case DateToChanged:
		s.Selection.DateTo = ev.Date
		return s, nil

	case FetchRequested:
		if s.Fetch.IsLoading {
			return s, nil
		}
		sel := s.Selection
		if sel.SelectedSymbol == nil || sel.DateFrom == "" || sel.DateTo == "" {
			s.Fetch.Error = MsgCompleteFields
			return s, nil
		}
		s.Fetch.IsLoading = true
		s.Fetch.Error = ""
		s.Fetch.Seq++
		return s, []Effect{IssueFetch{
			Seq: s.Fetch.Seq,
			Request: models.HistoryRequest{
				Symbol:   sel.SelectedSymbol.Symbol,
				FromDate: sel.DateFrom,
				ToDate:   sel.DateTo,
			},
		}}

	case FetchSucceeded:
		if ev.Seq != s.Fetch.Seq || !s.Fetch.IsLoading {
			return s, nil
		}
		bars := ev.Bars
		if bars == nil {
			bars = []models.Bar{}
		}
		req := ev.Request
		s.Fetch.Bars = bars
		s.Fetch.LoadedFor = &req
		s.Fetch.IsLoading = false
		s.Fetch.Error = ""
		return s, nil

	case FetchFailed:
		if ev.Seq != s.Fetch.Seq || !s.Fetch.IsLoading {
			return s, nil
		}
		// Bars already on screen stay; only the banner changes.
		s.Fetch.IsLoading = false
		s.Fetch.Error = ev.Err
		return s, nil
	}
	return s, nil
}

// settle ends the searching phase. PendingQuery is cleared only when it still
// names the query that just completed; a newer keystroke keeps its timer alive.
func settle(s SearchState, query string) SearchState {
	s.IsSearching = false
	if s.PendingQuery != nil && *s.PendingQuery == query {
		s.PendingQuery = nil
	}
	return s
}
