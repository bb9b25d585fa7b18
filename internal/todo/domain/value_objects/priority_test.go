package value_objects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input    string
		expected Priority
		wantErr  bool
	}{
		{"LOW", PriorityLow, false},
		{"low", PriorityLow, false},
		{"Medium", PriorityMedium, false},
		{"HIGH", PriorityHigh, false},
		{" critical ", PriorityCritical, false},
		{"urgent", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePriority(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPriority)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestPriority_String(t *testing.T) {
	assert.Equal(t, "LOW", PriorityLow.String())
	assert.Equal(t, "MEDIUM", PriorityMedium.String())
	assert.Equal(t, "HIGH", PriorityHigh.String())
	assert.Equal(t, "CRITICAL", PriorityCritical.String())
	assert.Equal(t, "UNKNOWN", Priority(0).String())
}

func TestPriority_Rank(t *testing.T) {
	assert.Greater(t, PriorityCritical.Rank(), PriorityHigh.Rank())
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Equal(t, 0, Priority(42).Rank())
}

func TestPriority_IsValid(t *testing.T) {
	for _, p := range Priorities() {
		assert.True(t, p.IsValid(), p.String())
	}
	assert.False(t, Priority(0).IsValid())
	assert.False(t, Priority(5).IsValid())
}

func TestPriority_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		P Priority `json:"p"`
	}{P: PriorityHigh})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":"HIGH"}`, string(data))

	var out struct {
		P Priority `json:"p"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"p":"CRITICAL"}`), &out))
	assert.Equal(t, PriorityCritical, out.P)

	err = json.Unmarshal([]byte(`{"p":"SOMEDAY"}`), &out)
	assert.ErrorIs(t, err, ErrInvalidPriority)

	_, err = json.Marshal(struct {
		P Priority `json:"p"`
	}{})
	assert.Error(t, err)
}
