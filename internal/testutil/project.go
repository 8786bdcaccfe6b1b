// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

// Project describes an on-disk project fixture.
type Project struct {
	// Name is written as the manifest "name".
	Name string
	// Scripts are written in order; nil writes no manifest at all.
	Scripts [][2]string
	// Metadata creates a .github/workflows directory.
	Metadata bool
}

// Write creates the project under a fresh temporary directory and returns it.
func (p Project) Write(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()

	if p.Metadata {
		MkdirAll(t, filepath.Join(dir, ".github", "workflows"))
	}
	if p.Scripts == nil {
		return dir
	}

	// Built by hand so script order survives; map marshaling would sort keys.
	buf := []byte(`{"name":`)
	buf = appendJSON(t, buf, p.Name)
	buf = append(buf, `,"scripts":{`...)
	for i, s := range p.Scripts {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendJSON(t, buf, s[0])
		buf = append(buf, ':')
		buf = appendJSON(t, buf, s[1])
	}
	buf = append(buf, "}}\n"...)

	WriteFile(t, filepath.Join(dir, "package.json"), buf)
	return dir
}

func appendJSON(t testing.TB, buf []byte, s string) []byte {
	t.Helper()
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("failed to encode %q: %v", s, err)
	}
	return append(buf, b...)
}
