package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlexID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected FlexID
	}{
		{
			name:     "number",
			payload:  `{"id": 42}`,
			expected: 42,
		},
		{
			name:     "numeric string",
			payload:  `{"id": "42"}`,
			expected: 42,
		},
		{
			name:     "placeholder string",
			payload:  `{"id": "module-1756when"}`,
			expected: 0,
		},
		{
			name:     "null",
			payload:  `{"id": null}`,
			expected: 0,
		},
		{
			name:     "absent",
			payload:  `{}`,
			expected: 0,
		},
		{
			name:     "zero",
			payload:  `{"id": 0}`,
			expected: 0,
		},
		{
			name:     "negative",
			payload:  `{"id": -3}`,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entry struct {
				ID FlexID `json:"id"`
			}
			err := json.Unmarshal([]byte(tt.payload), &entry)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, entry.ID)
			assert.Equal(t, tt.expected <= 0, entry.ID.IsNew())
		})
	}
}

func TestFlexID_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(FlexID(7))

	assert.NoError(t, err)
	assert.Equal(t, "7", string(data))
}
