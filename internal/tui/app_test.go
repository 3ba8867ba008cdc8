package tui

import (
	"context"
	"testing"
	"time"

	"github.com/fireledger/fireledger/internal/config"
	"github.com/fireledger/fireledger/internal/logging"
	"github.com/fireledger/fireledger/internal/model"
	"github.com/fireledger/fireledger/internal/store"
	"github.com/fireledger/fireledger/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, records ...model.SavingsRecord) App {
	t.Helper()
	dir := t.TempDir()
	open := func() (store.Store, error) { return store.OpenJSON(dir, logging.Discard()) }

	st, err := open()
	require.NoError(t, err)
	ctx := context.Background()
	for _, r := range records {
		require.NoError(t, st.AppendRecord(ctx, r))
	}
	require.NoError(t, st.AppendGoal(ctx, model.SavingsGoal{Name: "House", TargetAmount: 1000, CurrentAmount: 250}))
	require.NoError(t, st.Close())

	cfg := config.DefaultConfig()
	cfg.General.HorizonMonths = 3
	a := NewApp(Options{
		Open:   open,
		Config: cfg,
		Log:    logging.Discard(),
		Now:    func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) },
	})
	a = send(t, a, tea.WindowSizeMsg{Width: 140, Height: 40})
	return runCmd(t, a, loadDataCmd(open))
}

func send(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	return m.(App)
}

// runCmd executes cmd synchronously and feeds its message back into a.
func runCmd(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	require.NotNil(t, cmd)
	return send(t, a, cmd())
}

func press(t *testing.T, a App, key string) (App, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func sampleRecords() []model.SavingsRecord {
	return []model.SavingsRecord{
		{Name: "SBI FD", Category: model.CategoryFD, Amount: 1000, MaturityAmount: 1100, EndDate: model.MustParseDate("2025-02-01")},
		{Name: "Index fund", Category: model.CategoryMF, Amount: 2000, MaturityAmount: 2400, EndDate: model.MustParseDate("2026-01-01")},
		{Name: "HDFC FD", Category: model.CategoryFD, Amount: 500, MaturityAmount: 540, EndDate: model.MustParseDate("2025-03-15")},
	}
}

func TestDataLoadedBuildsReport(t *testing.T) {
	a := newTestApp(t, sampleRecords()...)

	require.True(t, a.loaded)
	require.NotNil(t, a.data)
	assert.Len(t, a.data.Records, 3)
	assert.Equal(t, []int{0, 1, 2}, a.visible)
	assert.Equal(t, 3500.0, a.report.Summary.TotalPrincipal)
	require.Len(t, a.report.Maturities, 2)
	assert.Equal(t, "SBI FD", a.report.Maturities[0].Name)
}

func TestSearchFiltersSavings(t *testing.T) {
	a := newTestApp(t, sampleRecords()...)

	a, _ = press(t, a, "s")
	require.Equal(t, tabSavings, a.activeTab)

	a, _ = press(t, a, "/")
	require.True(t, a.searching)
	for _, r := range "fd" {
		a, _ = press(t, a, string(r))
	}
	a, _ = press(t, a, "enter")

	assert.False(t, a.searching)
	assert.Equal(t, "fd", a.query)
	assert.Equal(t, []int{0, 2}, a.visible)

	a, _ = press(t, a, "j")
	idx, ok := a.selectedRecordIndex()
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	a, _ = press(t, a, "esc")
	assert.Empty(t, a.query)
	assert.Len(t, a.visible, 3)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	a := newTestApp(t, sampleRecords()...)
	a, _ = press(t, a, "s")
	a, _ = press(t, a, "j")

	a, _ = press(t, a, "d")
	require.True(t, a.confirmDelete)
	a, cmd := press(t, a, "n")
	assert.Nil(t, cmd)
	assert.False(t, a.confirmDelete)
	assert.Equal(t, "delete canceled", a.message)

	a, _ = press(t, a, "d")
	a, cmd = press(t, a, "y")
	require.NotNil(t, cmd)

	done, ok := cmd().(MutationDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)

	m, reload := a.Update(done)
	a = m.(App)
	assert.Equal(t, "removed record 1", a.message)
	require.NotNil(t, reload)
	a = send(t, a, reload())

	require.Len(t, a.data.Records, 2)
	assert.Equal(t, "SBI FD", a.data.Records[0].Name)
	assert.Equal(t, "HDFC FD", a.data.Records[1].Name)
}

func TestDeleteOnEmptyListIsIgnored(t *testing.T) {
	a := newTestApp(t)
	a, _ = press(t, a, "s")
	a, _ = press(t, a, "d")
	assert.False(t, a.confirmDelete)
}

func TestHorizonKeysRecomputeMaturities(t *testing.T) {
	a := newTestApp(t, sampleRecords()...)
	a, _ = press(t, a, "m")
	require.Equal(t, tabMaturities, a.activeTab)
	require.Len(t, a.report.Maturities, 2)

	a, _ = press(t, a, "-")
	a, _ = press(t, a, "-")
	assert.Equal(t, 1, a.horizon)
	assert.Len(t, a.report.Maturities, 1)

	a, _ = press(t, a, "-")
	a, _ = press(t, a, "-")
	assert.Equal(t, 0, a.horizon)
	assert.Empty(t, a.report.Maturities)

	for range 12 {
		a, _ = press(t, a, "+")
	}
	assert.Equal(t, 12, a.horizon)
	assert.Len(t, a.report.Maturities, 3)
}

func TestLoadErrorIsShown(t *testing.T) {
	a := NewApp(Options{Log: logging.Discard()})
	a = send(t, a, tea.WindowSizeMsg{Width: 100, Height: 30})
	a = send(t, a, DataLoadedMsg{Err: assert.AnError})

	assert.True(t, a.loaded)
	assert.Contains(t, a.View(), "Could not load data")
}

func TestViewRendersEveryTab(t *testing.T) {
	for _, width := range []int{90, 160} {
		a := newTestApp(t, sampleRecords()...)
		a = send(t, a, tea.WindowSizeMsg{Width: width, Height: 40})
		for i := range components.Tabs {
			a.activeTab = i
			assert.NotEmpty(t, a.View(), "tab %s at width %d", components.Tabs[i].Name, width)
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(t)
	a = send(t, a, tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, a.View(), "Terminal too narrow")
}

func TestTabAtX(t *testing.T) {
	a := NewApp(Options{})

	assert.Equal(t, 0, a.tabAtX(0))
	pos := 0
	for i, tab := range components.Tabs {
		assert.Equal(t, i, a.tabAtX(pos), "start of %s", tab.Name)
		pos += components.TabVisualWidth(tab, i == a.activeTab) + 1
	}
	assert.Equal(t, -1, a.tabAtX(pos+50))
}

func TestRecordValuesToRecord(t *testing.T) {
	_, err := recordValues{Name: "  "}.toRecord()
	assert.EqualError(t, err, "name is required")

	_, err = recordValues{Name: "FD", Amount: "abc"}.toRecord()
	assert.ErrorContains(t, err, "amount")

	_, err = recordValues{Name: "FD", End: "31/31/2025"}.toRecord()
	assert.ErrorContains(t, err, "end date")

	r, err := recordValues{
		Name:     " Post office ",
		Category: string(model.CategoryCash),
		Amount:   "1,000",
		Start:    "2024-01-01",
		End:      "2029-01-01",
	}.toRecord()
	require.NoError(t, err)
	assert.Equal(t, "Post office", r.Name)
	assert.Equal(t, model.CategoryCash, r.Category)
	assert.Equal(t, 1000.0, r.Amount)
	assert.Zero(t, r.MaturityAmount)
	assert.Equal(t, "2029-01-01", r.EndDate.String())
}

func TestRecordValuesRoundTrip(t *testing.T) {
	in := model.SavingsRecord{
		Name:           "PPF",
		Category:       model.CategoryPPF,
		Amount:         1500.5,
		MaturityAmount: 2000,
		StartDate:      model.MustParseDate("2024-04-01"),
		EndDate:        model.MustParseDate("2039-04-01"),
		Comments:       "tax saver",
	}
	out, err := recordValuesFrom(in).toRecord()
	require.NoError(t, err)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Amount, out.Amount)
	assert.Equal(t, in.EndDate.String(), out.EndDate.String())
	assert.Equal(t, in.Comments, out.Comments)
}

func TestSetupValuesApply(t *testing.T) {
	base := config.DefaultConfig()

	vals := setupValuesFrom(base)
	vals.Horizon = "6"
	vals.Backend = config.BackendSQLite
	vals.Currency = "€"
	cfg, err := vals.apply(base)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.General.HorizonMonths)
	assert.Equal(t, config.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "€", cfg.General.Currency)

	vals.Horizon = "six"
	_, err = vals.apply(base)
	assert.Error(t, err)

	vals.Horizon = "3"
	vals.Backend = "csv"
	_, err = vals.apply(base)
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestTruncStr(t *testing.T) {
	assert.Equal(t, "abc", truncStr("abc", 3))
	assert.Equal(t, "ab…", truncStr("abcd", 3))
	assert.Empty(t, truncStr("abc", 0))
}
