package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOption_UnmarshalJSON(t *testing.T) {
	type payload struct {
		Entry Option[string] `json:"entry_zone"`
	}

	tests := []struct {
		name        string
		input       string
		wantPresent bool
		wantValue   string
	}{
		{name: "missing field", input: `{}`, wantPresent: false},
		{name: "explicit null", input: `{"entry_zone": null}`, wantPresent: false},
		{name: "empty string is present", input: `{"entry_zone": ""}`, wantPresent: true, wantValue: ""},
		{name: "value", input: `{"entry_zone": "1.10450 - 1.10550"}`, wantPresent: true, wantValue: "1.10450 - 1.10550"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tt.input), &p))

			got, ok := p.Entry.Get()
			assert.Equal(t, tt.wantPresent, ok)
			assert.Equal(t, tt.wantValue, got)
		})
	}
}

func TestOption_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(struct {
		A Option[int] `json:"a"`
		B Option[int] `json:"b"`
	}{A: Present(3), B: Absent[int]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":null}`, string(raw))
}

func TestOption_MapAndOrElse(t *testing.T) {
	doubled := Map(Present(21), func(v int) int { return v * 2 })
	assert.Equal(t, 42, doubled.OrElse(0))

	none := Map(Absent[int](), func(v int) int { return v * 2 })
	assert.False(t, none.IsPresent())
	assert.Equal(t, -1, none.OrElse(-1))
}
