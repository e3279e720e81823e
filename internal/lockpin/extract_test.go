package lockpin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawObject(t *testing.T, s string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestExtractPin(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int64
		wantErr bool
	}{
		{"pin field", `{"pin": 4821}`, 4821, false},
		{"pinCode field", `{"pinCode": 1234}`, 1234, false},
		{"code field", `{"code": 9999}`, 9999, false},
		{"unlockCode field", `{"unlockCode": 777}`, 777, false},
		{"numeric string accepted", `{"pin": "5566"}`, 5566, false},
		{"pin wins over later candidates", `{"code": 1111, "pin": 2222}`, 2222, false},
		{"pinCode wins over code", `{"code": 1111, "pinCode": 3333}`, 3333, false},
		{"no known field", `{"token": "abc"}`, 0, true},
		{"non-numeric value", `{"pin": "n/a"}`, 0, true},
		{"fractional number rejected", `{"pin": 12.5}`, 0, true},
		{"object value rejected", `{"pin": {"value": 1234}}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractPin(rawObject(t, tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPinFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPinFieldPriorityIsStable(t *testing.T) {
	// The candidate list mirrors the provider's endpoint versions and is
	// part of the contract; a reorder changes which PIN wins on ambiguous
	// responses.
	assert.Equal(t, []string{"pin", "pinCode", "code", "unlockCode"}, pinFieldPriority)
}
