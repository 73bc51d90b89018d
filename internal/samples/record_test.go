package samples_test

import (
	"encoding/json"
	"testing"

	"github.com/snoozewise/hrfilter/internal/samples"
	"github.com/stretchr/testify/require"
)

func TestRecordUnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string

		wantKeys []string
		wantJSON string
		wantErr  bool
	}{
		"Empty object": {
			input:    `{}`,
			wantKeys: []string{},
			wantJSON: `{}`,
		},
		"Keeps field order": {
			input:    `{"value":72,"id":"1","endDate":"2024-02-19T10:05:00Z","startDate":"2024-02-19T10:00:00Z"}`,
			wantKeys: []string{"value", "id", "endDate", "startDate"},
			wantJSON: `{"value":72,"id":"1","endDate":"2024-02-19T10:05:00Z","startDate":"2024-02-19T10:00:00Z"}`,
		},
		"Keeps values verbatim": {
			input:    `{"a":1.50,"b":[1, 2, {"c" : null}],"d":true,"e":"<html> & é"}`,
			wantKeys: []string{"a", "b", "d", "e"},
			wantJSON: `{"a":1.50,"b":[1,2,{"c":null}],"d":true,"e":"<html> & é"}`,
		},
		"Duplicated key keeps first position and last value": {
			input:    `{"a":1,"b":2,"a":3}`,
			wantKeys: []string{"a", "b"},
			wantJSON: `{"a":3,"b":2}`,
		},

		// Error cases
		"Array":  {input: `[]`, wantErr: true},
		"String": {input: `"record"`, wantErr: true},
		"Number": {input: `72`, wantErr: true},
		"Null":   {input: `null`, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var r samples.Record
			err := json.Unmarshal([]byte(tc.input), &r)
			if tc.wantErr {
				require.ErrorIs(t, err, samples.ErrFormat, "Unmarshal should return a format error")
				return
			}
			require.NoError(t, err, "Unmarshal should not return an error")
			require.Equal(t, tc.wantKeys, r.Keys(), "Unmarshal should keep the keys in order")
			require.Equal(t, len(tc.wantKeys), r.Len(), "Len should match the number of keys")

			got, err := json.Marshal(r)
			require.NoError(t, err, "Marshal should not return an error")
			require.JSONEq(t, tc.wantJSON, string(got), "Marshal should write back the same values")
		})
	}
}

func TestRecordSetAndDelete(t *testing.T) {
	t.Parallel()

	var r samples.Record
	r.Set("id", json.RawMessage(`"1"`))
	r.Set("value", json.RawMessage(`72`))
	r.Set("id", json.RawMessage(`"2"`))

	require.Equal(t, []string{"id", "value"}, r.Keys(), "Set should keep the position of existing keys")
	v, ok := r.Get("id")
	require.True(t, ok, "Get should find an existing key")
	require.Equal(t, `"2"`, string(v), "Set should replace the value of existing keys")

	r.Delete("id")
	r.Delete("missing")
	require.Equal(t, []string{"value"}, r.Keys(), "Delete should only remove the requested key")
	_, ok = r.Get("id")
	require.False(t, ok, "Get should not find a deleted key")

	got, err := json.Marshal(r)
	require.NoError(t, err, "Marshal should not return an error")
	require.Equal(t, `{"value":72}`, string(got), "Marshal should only write the remaining fields")
}
