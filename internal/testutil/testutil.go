// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// Chdir moves the process into dir until the test ends. Tests calling it
// must not run in parallel.
func Chdir(t testing.TB, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory %s: %v", prev, err)
		}
	})
}

// Env sets every variable in vars until the test ends.
func Env(t testing.TB, vars map[string]string) {
	t.Helper()
	for key, value := range vars {
		keep(t, key)
		if err := os.Setenv(key, value); err != nil {
			t.Fatalf("setenv %s: %v", key, err)
		}
	}
}

// Unsetenv removes keys from the environment until the test ends.
func Unsetenv(t testing.TB, keys ...string) {
	t.Helper()
	for _, key := range keys {
		keep(t, key)
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unsetenv %s: %v", key, err)
		}
	}
}

// HomeDir points the platform home variable (USERPROFILE on Windows, HOME
// elsewhere) at dir until the test ends.
func HomeDir(t testing.TB, dir string) {
	t.Helper()
	key := "HOME"
	if runtime.GOOS == "windows" {
		key = "USERPROFILE"
	}
	Env(t, map[string]string{key: dir})
}

// keep restores the current state of key at cleanup.
func keep(t testing.TB, key string) {
	prev, had := os.LookupEnv(key)
	t.Cleanup(func() {
		var err error
		if had {
			err = os.Setenv(key, prev)
		} else {
			err = os.Unsetenv(key)
		}
		if err != nil {
			t.Errorf("restore env %s: %v", key, err)
		}
	})
}

// MkdirAll creates path and its parents with mode 0o755.
func MkdirAll(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()
	MkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
