package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncomeSourceMonthlyAmount(t *testing.T) {
	tests := []struct {
		name string
		freq Frequency
		want float64
	}{
		{"monthly", Monthly, 1200},
		{"annually", Annually, 100},
		{"unknown", Frequency("Weekly"), 100},
		{"empty", "", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := IncomeSource{Source: "Rent", Amount: 1200, Frequency: tt.freq}
			assert.InDelta(t, tt.want, s.MonthlyAmount(), 1e-9)
		})
	}
}
