package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"StockHistory/internal/domain/models"
	"StockHistory/internal/export"
	"StockHistory/internal/viewer"
)

// ── styles ────────────────────────────────────────────────────────────────────

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#aaaaaa"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Width(10)
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#26a641")).Width(10)
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#26a641"))
	symbolStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#e05c5c")).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#26a641"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0c05c"))
)

// ── messages ──────────────────────────────────────────────────────────────────

type stateMsg struct{ s viewer.State }

type savedMsg struct {
	path string
	err  error
}

// Dispatcher is the controller surface the UI talks to.
type Dispatcher interface {
	Dispatch(viewer.Event)
}

type focus int

const (
	focusSearch focus = iota
	focusFrom
	focusTo
	focusTable
	focusCount
)

// ── model ─────────────────────────────────────────────────────────────────────

type model struct {
	ctrl   Dispatcher
	outDir string
	minLen int

	state  viewer.State
	focus  focus
	cursor int
	status string

	search  textinput.Model
	from    textinput.Model
	to      textinput.Model
	table   table.Model
	spinner spinner.Model

	width  int
	height int
}

var barColumns = []table.Column{
	{Title: "Date", Width: 10},
	{Title: "Open", Width: 10},
	{Title: "High", Width: 10},
	{Title: "Low", Width: 10},
	{Title: "Close", Width: 10},
	{Title: "Adj Close", Width: 10},
	{Title: "Volume", Width: 14},
}

func newModel(ctrl Dispatcher, initial viewer.State, outDir string, minLen int) model {
	search := textinput.New()
	search.Placeholder = "search stocks"
	search.CharLimit = 64
	search.Width = 32
	search.Focus()

	from := textinput.New()
	from.Placeholder = "YYYY-MM-DD"
	from.CharLimit = 10
	from.Width = 12
	from.SetValue(initial.Selection.DateFrom)

	to := textinput.New()
	to.Placeholder = "YYYY-MM-DD"
	to.CharLimit = 10
	to.Width = 12
	to.SetValue(initial.Selection.DateTo)

	t := table.New(
		table.WithColumns(barColumns),
		table.WithHeight(12),
	)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		ctrl:    ctrl,
		outDir:  outDir,
		minLen:  minLen,
		state:   initial,
		search:  search,
		from:    from,
		to:      to,
		table:   t,
		spinner: sp,
	}
}

// ── Init / Update / View ──────────────────────────────────────────────────────

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if h := msg.Height - 16; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case stateMsg:
		m.applyState(msg.s)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = "csv export failed: " + msg.err.Error()
		} else if msg.path != "" {
			m.status = "saved " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		return m.setFocus((m.focus + 1) % focusCount), nil
	case "shift+tab":
		return m.setFocus((m.focus + focusCount - 1) % focusCount), nil
	case "ctrl+f":
		m.status = ""
		m.ctrl.Dispatch(viewer.FetchRequested{})
		return m, nil
	case "ctrl+s":
		return m, m.saveCSV()
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusSearch:
		switch msg.String() {
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down":
			if m.cursor < len(m.state.Search.Results)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			if m.cursor < len(m.state.Search.Results) {
				pick := m.state.Search.Results[m.cursor]
				m.ctrl.Dispatch(viewer.SymbolSelected{Symbol: &pick})
			}
			return m, nil
		}
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if v := m.search.Value(); v != before {
			m.ctrl.Dispatch(viewer.InputChanged{Text: v})
		}
	case focusFrom:
		before := m.from.Value()
		m.from, cmd = m.from.Update(msg)
		if v := m.from.Value(); v != before {
			m.ctrl.Dispatch(viewer.DateFromChanged{Date: v})
		}
	case focusTo:
		before := m.to.Value()
		m.to, cmd = m.to.Update(msg)
		if v := m.to.Value(); v != before {
			m.ctrl.Dispatch(viewer.DateToChanged{Date: v})
		}
	case focusTable:
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

func (m model) setFocus(f focus) model {
	m.focus = f
	m.search.Blur()
	m.from.Blur()
	m.to.Blur()
	m.table.Blur()
	switch f {
	case focusSearch:
		m.search.Focus()
	case focusFrom:
		m.from.Focus()
	case focusTo:
		m.to.Focus()
	case focusTable:
		m.table.Focus()
	}
	return m
}

func (m *model) applyState(s viewer.State) {
	m.state = s
	if m.cursor >= len(s.Search.Results) {
		m.cursor = 0
	}
	m.table.SetRows(barRows(s.Fetch.Bars))
}

// saveCSV writes the loaded bars off the UI goroutine. The file is named after
// the request that produced the bars, not the current inputs.
func (m model) saveCSV() tea.Cmd {
	f := m.state.Fetch
	if !f.CanExport() {
		return nil
	}
	req := *f.LoadedFor
	bars := f.Bars
	dir := m.outDir
	return func() tea.Msg {
		path, err := export.Write(dir, req.Symbol, req.FromDate, req.ToDate, bars)
		return savedMsg{path: path, err: err}
	}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Stock price history"))
	b.WriteString("\n\n")

	b.WriteString(m.label("Search", focusSearch))
	b.WriteString(m.search.View())
	if m.state.Search.IsSearching {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteByte('\n')
	b.WriteString(m.renderResults())

	b.WriteString(m.label("Selected", -1))
	if sel := m.state.Selection.SelectedSymbol; sel != nil {
		b.WriteString(selectedStyle.Render(fmt.Sprintf("%s - %s", sel.Symbol, sel.Name)))
	} else {
		b.WriteString(dimStyle.Render("none"))
	}
	b.WriteByte('\n')

	b.WriteString(m.label("From", focusFrom))
	b.WriteString(m.from.View())
	b.WriteString("  ")
	b.WriteString(m.label("To", focusTo))
	b.WriteString(m.to.View())
	b.WriteString("\n\n")

	if m.state.Fetch.IsLoading {
		b.WriteString(m.spinner.View() + " loading...\n")
	}
	if e := m.state.Fetch.Error; e != "" {
		b.WriteString(errorStyle.Render(e))
		b.WriteByte('\n')
	}

	if len(m.state.Fetch.Bars) > 0 {
		b.WriteString(m.table.View())
		b.WriteByte('\n')
	}

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteByte('\n')
	}

	help := "[tab] focus  [↑/↓ enter] pick  [ctrl+f] fetch  [esc] quit"
	if m.state.Fetch.CanExport() {
		help = "[tab] focus  [↑/↓ enter] pick  [ctrl+f] fetch  [ctrl+s] save csv  [esc] quit"
	}
	b.WriteString(footerStyle.Render(help))
	return b.String()
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (m model) label(text string, f focus) string {
	if f == m.focus {
		return focusStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (m model) renderResults() string {
	s := m.state.Search
	if len(s.Results) == 0 {
		switch {
		case s.IsSearching:
			return dimStyle.Render("  searching...") + "\n"
		case len([]rune(s.InputText)) < m.minLen:
			return dimStyle.Render("  Type to search...") + "\n"
		default:
			return dimStyle.Render("  No results") + "\n"
		}
	}

	var b strings.Builder
	for i, r := range s.Results {
		prefix := "  "
		if i == m.cursor && m.focus == focusSearch {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(prefix)
		b.WriteString(symbolStyle.Render(r.Symbol))
		b.WriteString(" " + r.Name)
		b.WriteString(dimStyle.Render(fmt.Sprintf(" (%s)", r.Exchange)))
		b.WriteByte('\n')
	}
	return b.String()
}

func barRows(bars []models.Bar) []table.Row {
	rows := make([]table.Row, 0, len(bars))
	for _, bar := range bars {
		rows = append(rows, table.Row{
			bar.Date,
			price(bar.Open),
			price(bar.High),
			price(bar.Low),
			price(bar.Close),
			price(bar.AdjClose),
			humanize.Comma(bar.Volume),
		})
	}
	return rows
}

// price renders v with exactly two decimals.
func price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
