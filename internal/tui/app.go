// Package tui provides the interactive Bubble Tea dashboard for fireledger.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fireledger/fireledger/internal/config"
	"github.com/fireledger/fireledger/internal/model"
	"github.com/fireledger/fireledger/internal/pipeline"
	"github.com/fireledger/fireledger/internal/store"
	"github.com/fireledger/fireledger/internal/tui/components"
	"github.com/fireledger/fireledger/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

const (
	tabOverview = iota
	tabSavings
	tabMaturities
	tabFire
	tabGoals
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
	maxHorizonMonths = 120
	loadTimeout      = 30 * time.Second
)

// Options configures the dashboard.
type Options struct {
	// Open returns a fresh store handle; the app closes it after each use.
	Open func() (store.Store, error)

	Config     config.Config
	ConfigPath string
	NeedSetup  bool

	// RefreshEvery reloads data periodically when positive.
	RefreshEvery time.Duration

	Log logrus.FieldLogger
	Now func() time.Time
}

// DataLoadedMsg is sent when a load of the store finishes.
type DataLoadedMsg struct {
	Data *pipeline.LoadResult
	Err  error
}

// MutationDoneMsg is sent after a record is saved or removed.
type MutationDoneMsg struct {
	Message string
	Err     error
}

type tickMsg struct{}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	data        *pipeline.LoadResult
	report      pipeline.Report
	loaded      bool
	loadErr     error
	refreshing  bool
	lastRefresh time.Time
	horizon     int

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	message   string

	// Savings tab
	savingsCursor int
	visible       []int // indexes into data.Records after the search filter
	searching     bool
	searchInput   textinput.Model
	query         string
	confirmDelete bool

	goalsCursor int

	// Record add/edit form
	form      *huh.Form
	formVals  *recordValues
	formIndex int // -1 appends

	// First-run setup
	setupForm *huh.Form
	setupVals *setupValues

	spinner spinner.Model
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	ti := textinput.New()
	ti.Placeholder = "name contains…"
	ti.CharLimit = 64
	ti.Width = 30

	return App{
		opts:        opts,
		horizon:     opts.Config.General.HorizonMonths,
		spinner:     sp,
		searchInput: ti,
		formIndex:   -1,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts.Open),
		a.spinner.Tick,
	}
	if a.opts.RefreshEvery > 0 {
		cmds = append(cmds, tickCmd(a.opts.RefreshEvery))
	}
	return tea.Batch(cmds...)
}

func (a *App) recompute() {
	if a.data == nil {
		return
	}
	a.report = pipeline.BuildReport(a.data, model.DateOf(a.opts.Now()), a.horizon)

	a.visible = nil
	for i, r := range a.data.Records {
		if pipeline.MatchesName(r, a.query) {
			a.visible = append(a.visible, i)
		}
	}

	a.savingsCursor = clamp(a.savingsCursor, 0, len(a.visible)-1)
	a.goalsCursor = clamp(a.goalsCursor, 0, len(a.data.Goals)-1)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.form != nil || a.setupForm != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if a.form != nil {
			return a.updateRecordForm(msg)
		}
		return a.updateKeys(msg)

	case DataLoadedMsg:
		a.refreshing = false
		a.lastRefresh = a.opts.Now()
		if msg.Err != nil {
			a.loadErr = msg.Err
			a.opts.Log.WithError(msg.Err).Warn("load failed")
			a.loaded = true
			return a, nil
		}
		a.loadErr = nil
		a.data = msg.Data
		a.loaded = true
		a.recompute()

		if a.opts.NeedSetup && a.setupVals == nil {
			vals := setupValuesFrom(a.opts.Config)
			a.setupVals = &vals
			a.setupForm = newSetupForm(a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case MutationDoneMsg:
		if msg.Err != nil {
			a.message = "error: " + msg.Err.Error()
			return a, nil
		}
		a.message = msg.Message
		a.refreshing = true
		return a, loadDataCmd(a.opts.Open)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(a.opts.RefreshEvery)}
		if a.loaded && !a.refreshing && a.form == nil {
			a.refreshing = true
			cmds = append(cmds, loadDataCmd(a.opts.Open))
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages (cursor blinks etc.) to an active form.
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.form != nil {
		return a.updateRecordForm(msg)
	}
	if a.searching {
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.moveCursor(-1)
	case tea.MouseButtonWheelDown:
		a.moveCursor(1)
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.searching {
		return a.updateSearch(msg)
	}

	if a.confirmDelete {
		a.confirmDelete = false
		if key == "y" {
			if idx, ok := a.selectedRecordIndex(); ok {
				return a, deleteRecordCmd(a.opts.Open, idx)
			}
		}
		a.message = "delete canceled"
		return a, nil
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.message = ""

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, loadDataCmd(a.opts.Open)
		}
		return a, nil
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "j", "down":
		a.moveCursor(1)
		return a, nil
	case "k", "up":
		a.moveCursor(-1)
		return a, nil
	}

	switch a.activeTab {
	case tabSavings:
		switch key {
		case "/":
			a.searching = true
			a.searchInput.SetValue(a.query)
			a.searchInput.Focus()
			return a, textinput.Blink
		case "esc":
			if a.query != "" {
				a.query = ""
				a.recompute()
			}
			return a, nil
		case "home":
			a.savingsCursor = 0
			return a, nil
		case "end", "G":
			a.savingsCursor = max(0, len(a.visible)-1)
			return a, nil
		case "a":
			return a.openRecordForm(-1, model.SavingsRecord{Category: model.CategoryOthers})
		case "e", "enter":
			if idx, ok := a.selectedRecordIndex(); ok {
				return a.openRecordForm(idx, a.data.Records[idx])
			}
			return a, nil
		case "d":
			if _, ok := a.selectedRecordIndex(); ok {
				a.confirmDelete = true
			}
			return a, nil
		}
	case tabMaturities:
		switch key {
		case "+", "=":
			a.horizon = min(a.horizon+1, maxHorizonMonths)
			a.recompute()
			return a, nil
		case "-":
			a.horizon = max(a.horizon-1, 0)
			a.recompute()
			return a, nil
		}
	}

	if len(key) == 1 {
		if tab := components.TabIdxByKey(rune(key[0])); tab >= 0 {
			a.activeTab = tab
		}
	}
	return a, nil
}

func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case tabSavings:
		a.savingsCursor = clamp(a.savingsCursor+delta, 0, len(a.visible)-1)
	case tabGoals:
		if a.data != nil {
			a.goalsCursor = clamp(a.goalsCursor+delta, 0, len(a.data.Goals)-1)
		}
	}
}

// selectedRecordIndex maps the savings cursor to a store index.
func (a App) selectedRecordIndex() (int, bool) {
	if a.data == nil || a.savingsCursor < 0 || a.savingsCursor >= len(a.visible) {
		return 0, false
	}
	return a.visible[a.savingsCursor], true
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.query = strings.TrimSpace(a.searchInput.Value())
		a.searching = false
		a.searchInput.Blur()
		a.savingsCursor = 0
		a.recompute()
		return a, nil
	case "esc":
		a.searching = false
		a.searchInput.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (a App) openRecordForm(index int, rec model.SavingsRecord) (tea.Model, tea.Cmd) {
	vals := recordValuesFrom(rec)
	title := "New savings record"
	if index >= 0 {
		title = fmt.Sprintf("Edit record %d", index)
	}
	a.formVals = &vals
	a.formIndex = index
	a.form = newRecordForm(title, a.formVals)
	if a.width > 0 {
		a.form = a.form.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.form.Init()
}

func (a App) updateRecordForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		rec, err := a.formVals.toRecord()
		index := a.formIndex
		a.form, a.formVals, a.formIndex = nil, nil, -1
		if err != nil {
			a.message = "error: " + err.Error()
			return a, nil
		}
		return a, saveRecordCmd(a.opts.Open, index, rec)
	case huh.StateAborted:
		a.form, a.formVals, a.formIndex = nil, nil, -1
		a.message = "edit canceled"
		return a, nil
	}
	return a, cmd
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg, err := a.setupVals.apply(a.opts.Config)
		if err == nil {
			err = config.SaveTo(a.opts.ConfigPath, cfg)
		}
		if err != nil {
			a.message = "setup not saved: " + err.Error()
		} else {
			a.opts.Config = cfg
			theme.SetActive(cfg.Appearance.Theme)
			a.horizon = cfg.General.HorizonMonths
			a.recompute()
			a.message = "saved " + a.opts.ConfigPath
		}
		a.opts.NeedSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.opts.NeedSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.form != nil {
		return a.form.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  fireledger needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logoStyle.Render("◈ fireledger") +
		subtitleStyle.Render(" · savings & FIRE") + "\n\n" +
		a.spinner.View() + subtitleStyle.Render(" Loading portfolio…")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o s m f g", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move in lists"},
		}},
		{"Savings", [][2]string{
			{"a", "Add record"},
			{"e Enter", "Edit record"},
			{"d", "Delete record"},
			{"/", "Filter by name"},
			{"Esc", "Clear filter"},
		}},
		{"General", [][2]string{
			{"+ -", "Widen / narrow maturity window"},
			{"r", "Reload data"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.statusHints(), a.statusInfo(), a.message, a.refreshing)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.data == nil && a.loadErr != nil:
		content = components.ContentCard("Could not load data", a.loadErr.Error(), cw)
	default:
		switch a.activeTab {
		case tabOverview:
			content = a.renderOverviewTab(cw)
		case tabSavings:
			content = a.renderSavingsTab(cw, contentH)
		case tabMaturities:
			content = a.renderMaturitiesTab(cw)
		case tabFire:
			content = a.renderFireTab(cw)
		case tabGoals:
			content = a.renderGoalsTab(cw, contentH)
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusHints() string {
	switch {
	case a.searching:
		return "filter: " + a.searchInput.View() + "  [enter]apply [esc]cancel"
	case a.confirmDelete:
		return "delete selected record? [y]es / any key cancels"
	case a.activeTab == tabSavings:
		return "[a]dd [e]dit [d]elete [/]filter  [?]help [q]uit"
	case a.activeTab == tabMaturities:
		return "[+/-]window  [?]help [q]uit"
	default:
		return "[?]help  [r]eload  [q]uit"
	}
}

func (a App) statusInfo() string {
	if a.data == nil {
		return ""
	}
	info := fmt.Sprintf("%d records · %d goals", len(a.data.Records), len(a.data.Goals))
	if !a.lastRefresh.IsZero() {
		info += " · " + a.lastRefresh.Format("15:04:05")
	}
	if a.loadErr != nil {
		info += " · stale"
	}
	return info
}

// ─── Commands ───────────────────────────────────────────────────

func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadDataCmd reads the whole store in the background.
func loadDataCmd(open func() (store.Store, error)) tea.Cmd {
	return func() tea.Msg {
		st, err := open()
		if err != nil {
			return DataLoadedMsg{Err: err}
		}
		defer func() { _ = st.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		data, err := pipeline.Load(ctx, st)
		return DataLoadedMsg{Data: data, Err: err}
	}
}

// saveRecordCmd appends rec when index is negative, otherwise replaces it.
func saveRecordCmd(open func() (store.Store, error), index int, rec model.SavingsRecord) tea.Cmd {
	return func() tea.Msg {
		st, err := open()
		if err != nil {
			return MutationDoneMsg{Err: err}
		}
		defer func() { _ = st.Close() }()

		ctx := context.Background()
		if index < 0 {
			if err := st.AppendRecord(ctx, rec); err != nil {
				return MutationDoneMsg{Err: err}
			}
			return MutationDoneMsg{Message: fmt.Sprintf("added %q", rec.Name)}
		}
		if err := st.ReplaceRecord(ctx, index, rec); err != nil {
			return MutationDoneMsg{Err: err}
		}
		return MutationDoneMsg{Message: fmt.Sprintf("updated %q", rec.Name)}
	}
}

func deleteRecordCmd(open func() (store.Store, error), index int) tea.Cmd {
	return func() tea.Msg {
		st, err := open()
		if err != nil {
			return MutationDoneMsg{Err: err}
		}
		defer func() { _ = st.Close() }()

		if err := st.RemoveRecord(context.Background(), index); err != nil {
			return MutationDoneMsg{Err: err}
		}
		return MutationDoneMsg{Message: fmt.Sprintf("removed record %d", index)}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the widths RenderTabBar draws.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
