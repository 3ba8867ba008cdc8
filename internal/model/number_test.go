package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberJSON(t *testing.T) {
	tests := []struct {
		name string
		in   Number
		want string
	}{
		{"finite", 12.5, "12.5"},
		{"zero", 0, "0"},
		{"nan", Number(math.NaN()), "null"},
		{"inf", Number(math.Inf(1)), "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}

	var n Number
	require.NoError(t, json.Unmarshal([]byte("null"), &n))
	assert.True(t, math.IsNaN(float64(n)))
	require.NoError(t, json.Unmarshal([]byte("3.25"), &n))
	assert.Equal(t, Number(3.25), n)
	assert.Error(t, json.Unmarshal([]byte(`"x"`), &n))
}
