package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withLocalZone pins time.Local for the duration of the test.
func withLocalZone(t *testing.T, loc *time.Location) {
	t.Helper()
	prev := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = prev })
}

func TestDateUnmarshalJSON(t *testing.T) {
	withLocalZone(t, time.UTC)
	tests := []struct {
		name string
		in   string
		want Date
	}{
		{"plain string", `"2025-03-09"`, NewDate(2025, 3, 9)},
		{"short month and day", `"2025-3-9"`, NewDate(2025, 3, 9)},
		{"single element array", `["2025-03-09"]`, NewDate(2025, 3, 9)},
		{"array first element wins", `["2025-03-09","2026-01-01"]`, NewDate(2025, 3, 9)},
		{"picker timestamp", `"2025-03-09T10:15:00.000Z"`, NewDate(2025, 3, 9)},
		{"rfc3339 with offset", `"2025-03-09T23:30:00+05:30"`, NewDate(2025, 3, 9)},
		{"array of timestamps", `["2025-03-09T10:15:00.000Z"]`, NewDate(2025, 3, 9)},
		{"local timestamp", `"2025-03-09T10:15:00"`, NewDate(2025, 3, 9)},
		{"local timestamp with millis", `"2025-03-09T23:59:59.000"`, NewDate(2025, 3, 9)},
		{"empty array", `[]`, Date{}},
		{"null", `null`, Date{}},
		{"empty string", `""`, Date{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.True(t, tt.want.Equal(d), "got %s want %s", d, tt.want)
		})
	}
}

func TestParseDate_UsesLocalCalendarDay(t *testing.T) {
	withLocalZone(t, time.FixedZone("IST", 5*3600+1800))

	tests := []struct {
		in   string
		want string
	}{
		{"2025-03-09T18:30:00.000Z", "2025-03-10"},
		{"2025-03-09T18:29:59Z", "2025-03-09"},
		{"2025-03-10T10:15:00", "2025-03-10"},
		{"2025-03-10T00:00:00.000", "2025-03-10"},
		{"2025-03-10", "2025-03-10"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDateUnmarshalJSON_Invalid(t *testing.T) {
	for _, in := range []string{`"tomorrow"`, `42`, `[1]`} {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(in), &d), in)
	}
}

func TestDateMarshalJSON_SingleValue(t *testing.T) {
	r := SavingsRecord{Name: "fd", EndDate: NewDate(2025, 12, 1)}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"endDate":"2025-12-01"`)
	assert.Contains(t, string(data), `"startDate":""`)
}

func TestDateAddMonths(t *testing.T) {
	assert.Equal(t, "2025-04-15", NewDate(2025, 1, 15).AddMonths(3).String())
	assert.Equal(t, "2026-03-02", NewDate(2025, 11, 30).AddMonths(3).String())
	assert.Equal(t, "2024-12-31", NewDate(2025, 1, 31).AddMonths(-1).String())
}

func TestSavingsRecordDecodeMixedDates(t *testing.T) {
	withLocalZone(t, time.UTC)
	raw := `[
		{"savingName":"HDFC","savingType":"FD","amount":10000,"maturityAmount":12000,
		 "startDate":"2024-01-01","endDate":["2026-01-01"],"comments":"","file":null},
		{"savingName":"Legacy","savingType":"Gold","amount":500,"maturityAmount":450,
		 "startDate":["2023-06-01T00:00:00.000Z"],"endDate":"2025-06-01","comments":"old"}
	]`

	var records []SavingsRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &records))
	require.Len(t, records, 2)

	assert.Equal(t, "2026-01-01", records[0].EndDate.String())
	assert.Equal(t, "2023-06-01", records[1].StartDate.String())
	assert.Equal(t, Category("Gold"), records[1].Category)
	assert.False(t, records[1].Category.Valid())
	assert.Equal(t, -50.0, records[1].Interest())
}

func TestDefaultFireGoalProfile(t *testing.T) {
	p := DefaultFireGoalProfile()

	assert.Equal(t, 30, p.CurrentAge)
	assert.Equal(t, 50, p.TargetRetirementAge)
	assert.Equal(t, 500000.0, p.CurrentNetWorth)
	assert.Equal(t, 2000000.0, p.TargetRetirementAmount)
	assert.Equal(t, 4000.0, p.CurrentMonthlySavings)
	assert.Equal(t, 7.0, p.ExpectedReturnRate)
	assert.Equal(t, 3.0, p.InflationRate)
	assert.Equal(t, 4.0, p.SafeWithdrawalRate)
	require.Len(t, p.IncomeSources, 1)
	assert.Equal(t, IncomeSource{Source: "Salary", Amount: 10000, Frequency: Monthly}, p.IncomeSources[0])
	require.Len(t, p.MonthlyExpenses, 2)
	assert.Equal(t, MonthlyExpense{Category: "Housing", Amount: 2000, IsEssential: true}, p.MonthlyExpenses[0])
	assert.Equal(t, MonthlyExpense{Category: "Food", Amount: 800, IsEssential: true}, p.MonthlyExpenses[1])
}

func TestCategoryBreakdownGetUnknown(t *testing.T) {
	b := NewCategoryBreakdown(Categories)
	_, ok := b.Get("Bitcoin")
	assert.False(t, ok)
	assert.Equal(t, AllCategory, b.Keys()[0])
}
