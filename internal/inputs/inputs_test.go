// SPDX-License-Identifier: MPL-2.0

package inputs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relbuild/relbuild/internal/testutil"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"BUILD_COMMAND":   "BUILD_COMMAND",
		"build command":   "BUILD_COMMAND",
		"commit-message":  "COMMIT_MESSAGE",
		"  access token ": "ACCESS_TOKEN",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeName(in), "NormalizeName(%q)", in)
	}
	assert.Equal(t, "INPUT_BRANCH_NAME", EnvVar("branch name"))
}

func TestFromEnv_Inputs(t *testing.T) {
	testutil.Env(t, map[string]string{
		"INPUT_BUILD_COMMAND":  "  yarn install && yarn build ",
		"INPUT_COMMIT_MESSAGE": "test",
		"INPUT_COMMIT_NAME":    "test",
		"INPUT_COMMIT_EMAIL":   "test",
		"INPUT_ACCESS_TOKEN":   "secret",
	})

	in := New(FromEnv())
	assert.Equal(t, "yarn install && yarn build", in.BuildCommand())
	assert.Equal(t, "test", in.CommitMessage())
	assert.Equal(t, "test", in.CommitName())
	assert.Equal(t, "test", in.CommitEmail())
	assert.Equal(t, "secret", in.AccessToken())
}

func TestFromEnv_Defaults(t *testing.T) {
	testutil.Unsetenv(t,
		"INPUT_BUILD_COMMAND", "INPUT_COMMIT_MESSAGE", "INPUT_COMMIT_NAME",
		"INPUT_COMMIT_EMAIL", "INPUT_BRANCH_NAME", "INPUT_ACCESS_TOKEN",
	)

	in := New(nil)
	assert.Empty(t, in.BuildCommand())
	assert.Equal(t, DefaultCommitMessage, in.CommitMessage())
	assert.Equal(t, DefaultCommitName, in.CommitName())
	assert.Equal(t, DefaultCommitEmail, in.CommitEmail())
	assert.Equal(t, DefaultBranchName, in.BranchName())
	assert.Empty(t, in.AccessToken())
}

func TestFromEnv_Workspace(t *testing.T) {
	testutil.Env(t, map[string]string{WorkspaceEnv: "test"})
	assert.Equal(t, "test", New(FromEnv()).Workspace())

	testutil.Unsetenv(t, WorkspaceEnv)
	assert.Empty(t, New(FromEnv()).Workspace())
}

func TestFromMap(t *testing.T) {
	t.Parallel()

	in := New(FromMap(
		map[string]string{"build command": "make", "commit_message": "  "},
		map[string]string{WorkspaceEnv: "/ws"},
	))
	assert.Equal(t, "make", in.BuildCommand())
	assert.Equal(t, DefaultCommitMessage, in.CommitMessage(), "blank input falls back to default")
	assert.Equal(t, "/ws", in.Workspace())
	assert.Equal(t, "make", in.Get("BUILD-COMMAND"))
}
