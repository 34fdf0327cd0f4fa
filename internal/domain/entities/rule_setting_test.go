package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinal-dev/lintcfg/internal/domain/values"
)

func Test_ParseRuleSetting(t *testing.T) {
	tests := []struct {
		name        string
		input       interface{}
		wantSev     values.Severity
		wantOptions []interface{}
		wantErr     bool
	}{
		{"bare string", "off", values.SevOff, nil, false},
		{"bare number", uint64(2), values.SevError, nil, false},
		{"list without options", []interface{}{"error"}, values.SevError, nil, false},
		{
			name:        "list with options",
			input:       []interface{}{"warn", map[string]interface{}{"code": uint64(120)}},
			wantSev:     values.SevWarn,
			wantOptions: []interface{}{map[string]interface{}{"code": uint64(120)}},
		},
		{"empty list", []interface{}{}, values.SevUnknown, nil, true},
		{"null", nil, values.SevUnknown, nil, true},
		{"bad severity", "loud", values.SevUnknown, nil, true},
		{"bad severity in list", []interface{}{"loud", "x"}, values.SevUnknown, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRuleSetting(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSev, got.Severity)
			assert.Equal(t, tt.wantOptions, got.Options)
		})
	}
}

func Test_RuleSetting_EngineValue(t *testing.T) {
	assert.Equal(t, "warn", NewRuleSetting(values.SevWarn).EngineValue())

	withOpts := NewRuleSetting(values.SevError, map[string]interface{}{"allow": []interface{}{"warn", "error"}})
	assert.Equal(t,
		[]interface{}{"error", map[string]interface{}{"allow": []interface{}{"warn", "error"}}},
		withOpts.EngineValue())
}

func Test_RuleSetting_JSONRoundTrip(t *testing.T) {
	var setting RuleSetting
	require.NoError(t, json.Unmarshal([]byte(`["warn",{"code":80}]`), &setting))
	assert.Equal(t, values.SevWarn, setting.Severity)
	assert.True(t, setting.HasOptions())

	data, err := json.Marshal(setting)
	require.NoError(t, err)
	assert.JSONEq(t, `["warn",{"code":80}]`, string(data))
}
