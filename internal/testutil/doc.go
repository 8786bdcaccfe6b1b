// SPDX-License-Identifier: MPL-2.0

// Package testutil holds test helpers that fail the test on error and undo
// their effects through t.Cleanup.
//
// Process-wide helpers (Chdir, Env, Unsetenv, HomeDir) must not be used from
// parallel tests. Project writes a package.json fixture with a stable script
// order and an optional .github directory.
package testutil
