package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachmentUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Attachment
	}{
		{"string", `"policy.pdf"`, "policy.pdf"},
		{"null", `null`, ""},
		{"empty object", `{}`, ""},
		{"named object", `{"name":"scan.jpg","size":1024}`, "scan.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Attachment("stale")
			require.NoError(t, json.Unmarshal([]byte(tt.in), &a))
			assert.Equal(t, tt.want, a)
		})
	}

	var a Attachment
	assert.Error(t, json.Unmarshal([]byte(`42`), &a))
}

func TestAttachmentMarshalsAsString(t *testing.T) {
	var r SavingsRecord
	require.NoError(t, json.Unmarshal([]byte(`{"savingName":"LIC","file":{"name":"policy.pdf"}}`), &r))

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"file":"policy.pdf"`)

	r.Attachment = ""
	out, err = json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"file"`)
}
