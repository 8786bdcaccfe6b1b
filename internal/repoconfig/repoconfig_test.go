// SPDX-License-Identifier: MPL-2.0

package repoconfig

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		want map[string]any
	}{
		{name: "empty", yaml: "", want: map[string]any{}},
		{name: "scalar value", yaml: "a: b", want: map[string]any{"a": "b"}},
		{name: "list value", yaml: "a:\n  - b\n  - c", want: map[string]any{"a": []any{"b", "c"}}},
		{name: "null document", yaml: "~", want: map[string]any{}},
		{name: "comment only", yaml: "# nothing here\n", want: map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(Encode([]byte(tt.yaml)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_WrappedContent(t *testing.T) {
	t.Parallel()

	enc := Encode([]byte("release:\n  branch: gh-actions\n  clean: true\n"))
	var wrapped strings.Builder
	for i := 0; i < len(enc); i += 8 {
		end := min(i+8, len(enc))
		wrapped.WriteString(enc[i:end])
		wrapped.WriteString("\n")
	}

	got, err := Parse(wrapped.String())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"release": map[string]any{"branch": "gh-actions", "clean": true},
	}, got)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	_, err := Parse("%%% not base64")
	assert.Error(t, err)

	_, err = Parse(Encode([]byte("- a\n- b\n")))
	assert.ErrorIs(t, err, ErrNotMapping)

	_, err = Parse(Encode([]byte("a: [b")))
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/plain.yml", []byte("a: b\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/encoded.b64", []byte(Encode([]byte("a:\n  - b\n"))+"\n"), 0o644))

	got, err := ParseFile(fsys, "/plain.yml")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "b"}, got)

	got, err = ParseFile(fsys, "/encoded.b64")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{"b"}}, got)

	_, err = ParseFile(fsys, "/missing.yml")
	assert.Error(t, err)
}
