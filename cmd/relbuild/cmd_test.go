// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/relbuild/relbuild/internal/config"
	"github.com/relbuild/relbuild/internal/inputs"
	"github.com/relbuild/relbuild/internal/testutil"
)

type (
	staticConfig struct {
		cfg *config.Config
		err error
	}

	testApp struct {
		app    *App
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}
)

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.cfg != nil {
		return s.cfg, nil
	}
	return config.DefaultConfig(), nil
}

func newTestApp(t *testing.T, in map[string]string, env map[string]string) *testApp {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	if env == nil {
		env = map[string]string{}
	}
	app := NewApp(Dependencies{
		Config: staticConfig{},
		Inputs: inputs.FromMap(in, env),
		Getenv: func(key string) string { return env[key] },
		Stdout: stdout,
		Stderr: stderr,
	})
	return &testApp{app: app, stdout: stdout, stderr: stderr}
}

func (ta *testApp) execute(args ...string) error {
	root := NewRootCommand(ta.app)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error %v is not an *ExitError", err)
	}
	return int(exitErr.Code)
}

// fakeYarn puts a yarn stub first on PATH that echoes its arguments.
func fakeYarn(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stub requires a POSIX system")
	}
	bin := t.TempDir()
	script := "#!/bin/sh\necho \"yarn $*\"\n[ \"$1\" = fail ] && exit 3\nexit 0\n"
	if err := os.WriteFile(filepath.Join(bin, "yarn"), []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write yarn stub: %v", err)
	}
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
	})

	Version, Commit, BuildDate = "v1.2.3", "abc1234", "2026-01-02T03:04:05Z"
	if got, want := getVersionString(), "v1.2.3 (commit: abc1234, built: 2026-01-02T03:04:05Z)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}

	Version = "dev"
	if got, want := getVersionString(), "dev (built from source)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}
}

func TestCommands_SingleProject(t *testing.T) {
	t.Parallel()

	dir := testutil.Project{
		Name:     "app",
		Scripts:  [][2]string{{"test", "jest"}, {"build", "webpack"}},
		Metadata: true,
	}.Write(t)

	ta := newTestApp(t, nil, nil)
	if err := ta.execute("commands", dir); err != nil {
		t.Fatalf("commands error = %v", err)
	}

	want := "yarn install && yarn build && yarn install --production && rm -rdf .github\n"
	if diff := cmp.Diff(want, ta.stdout.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestCommands_OverrideSources(t *testing.T) {
	t.Parallel()

	dir := testutil.Project{Name: "app", Scripts: [][2]string{{"build", "tsc"}}}.Write(t)

	tests := []struct {
		name  string
		input string
		args  []string
		want  string
	}{
		{
			name: "no override",
			args: []string{"commands", dir},
			want: "yarn install && yarn build && yarn install --production\n",
		},
		{
			name:  "input override",
			input: "yarn lint && yarn install && yarn build",
			args:  []string{"commands", dir},
			want:  "yarn install && yarn lint && yarn build && yarn install --production\n",
		},
		{
			name:  "flag wins over input",
			input: "yarn lint",
			args:  []string{"commands", "--build-command", "make dist", dir},
			want:  "yarn install && make dist && yarn build && yarn install --production\n",
		},
		{
			name:  "empty flag clears input",
			input: "yarn lint",
			args:  []string{"commands", "--build-command", "", dir},
			want:  "yarn install && yarn build && yarn install --production\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ta := newTestApp(t, map[string]string{inputs.BuildCommandInput: tt.input}, nil)
			if err := ta.execute(tt.args...); err != nil {
				t.Fatalf("commands error = %v", err)
			}
			if diff := cmp.Diff(tt.want, ta.stdout.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCommands_JSONMultipleProjects(t *testing.T) {
	t.Parallel()

	withBuild := testutil.Project{Name: "a", Scripts: [][2]string{{"prod", "vite build"}}}.Write(t)
	bare := testutil.Project{Metadata: true}.Write(t)

	ta := newTestApp(t, nil, nil)
	if err := ta.execute("commands", "--json", withBuild, bare); err != nil {
		t.Fatalf("commands error = %v", err)
	}

	var got []resolutionJSON
	if err := json.Unmarshal(ta.stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, ta.stdout.String())
	}

	want := []resolutionJSON{
		{
			Dir:      withBuild,
			Detected: "prod",
			Command:  "yarn install && yarn prod && yarn install --production",
			Steps:    []string{"yarn install", "yarn prod", "yarn install --production"},
		},
		{
			Dir:     bare,
			Command: "yarn install && yarn install --production && rm -rdf .github",
			Steps:   []string{"yarn install", "yarn install --production", "rm -rdf .github"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestCommands_DefaultsToWorkspace(t *testing.T) {
	t.Parallel()

	dir := testutil.Project{Name: "ws", Scripts: [][2]string{{"production", "gulp"}}}.Write(t)

	ta := newTestApp(t, nil, map[string]string{inputs.WorkspaceEnv: dir})
	if err := ta.execute("commands"); err != nil {
		t.Fatalf("commands error = %v", err)
	}
	if !strings.Contains(ta.stdout.String(), "yarn production") {
		t.Errorf("expected workspace project to be resolved, got %q", ta.stdout.String())
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		dir := testutil.Project{Scripts: [][2]string{{"prod", "x"}, {"production", "y"}}}.Write(t)
		ta := newTestApp(t, nil, nil)
		if err := ta.execute("detect", dir); err != nil {
			t.Fatalf("detect error = %v", err)
		}
		if got := ta.stdout.String(); got != "production\n" {
			t.Errorf("detect output = %q, want production", got)
		}
	})

	t.Run("none", func(t *testing.T) {
		t.Parallel()
		dir := testutil.Project{Scripts: [][2]string{{"test", "jest"}}}.Write(t)
		ta := newTestApp(t, nil, nil)
		err := ta.execute("detect", dir)
		if code := exitCode(t, err); code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
	})

	t.Run("malformed manifest", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		testutil.WriteFile(t, filepath.Join(dir, "package.json"), []byte(`{"scripts": [1, 2]}`))
		ta := newTestApp(t, nil, nil)
		if err := ta.execute("detect", dir); err == nil {
			t.Fatal("detect should fail on a malformed manifest")
		}
	})
}

func TestRun_DryRun(t *testing.T) {
	t.Parallel()

	dir := testutil.Project{Scripts: [][2]string{{"build", "tsc"}}, Metadata: true}.Write(t)

	ta := newTestApp(t, nil, nil)
	if err := ta.execute("run", "--dry-run", "--runtime", "virtual", dir); err != nil {
		t.Fatalf("run --dry-run error = %v", err)
	}

	out := ta.stdout.String()
	for _, step := range []string{"1. yarn install", "2. yarn build", "3. yarn install --production", "4. rm -rdf .github"} {
		if !strings.Contains(out, step) {
			t.Errorf("dry-run output missing %q:\n%s", step, out)
		}
	}
	if !strings.Contains(out, "runtime: virtual") {
		t.Errorf("dry-run output should name the runtime:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, ".github")); err != nil {
		t.Errorf("dry run must not touch the project: %v", err)
	}
}

func TestRun_VirtualRuntime(t *testing.T) {
	fakeYarn(t)

	dir := testutil.Project{Scripts: [][2]string{{"build", "tsc"}}, Metadata: true}.Write(t)

	ta := newTestApp(t, nil, nil)
	if err := ta.execute("run", "--runtime", "virtual", dir); err != nil {
		t.Fatalf("run error = %v\nstderr:\n%s", err, ta.stderr.String())
	}

	out := ta.stdout.String()
	for _, line := range []string{"yarn install\n", "yarn build\n", "yarn install --production\n", "4/4 commands completed"} {
		if !strings.Contains(out, line) {
			t.Errorf("run output missing %q:\n%s", line, out)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, ".github")); !os.IsNotExist(err) {
		t.Errorf(".github should have been removed, stat err = %v", err)
	}
}

func TestRun_StepFailureExitCode(t *testing.T) {
	fakeYarn(t)

	dir := testutil.Project{Scripts: [][2]string{{"build", "tsc"}}}.Write(t)

	ta := newTestApp(t, nil, nil)
	err := ta.execute("run", "--runtime", "virtual", "--build-command", "yarn fail", dir)
	if code := exitCode(t, err); code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if strings.Contains(ta.stdout.String(), "yarn build") {
		t.Errorf("pipeline should stop at the failing command:\n%s", ta.stdout.String())
	}
}

func TestRun_UnknownRuntime(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil, nil)
	if err := ta.execute("run", "--runtime", "docker", t.TempDir()); err == nil {
		t.Fatal("run with an unknown runtime should fail")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	dir := testutil.Project{Scripts: [][2]string{{"build", "tsc"}}}.Write(t)

	ta := newTestApp(t, nil, nil)
	if err := ta.execute("validate", dir); err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(ta.stdout.String(), "pipeline is valid (3 commands)") {
		t.Errorf("unexpected output: %q", ta.stdout.String())
	}

	bad := newTestApp(t, nil, nil)
	err := bad.execute("validate", "--build-command", "echo 'unterminated", dir)
	if code := exitCode(t, err); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestEvent(t *testing.T) {
	t.Parallel()

	payload := filepath.Join(t.TempDir(), "event.json")
	testutil.WriteFile(t, payload, []byte(`{"action":"published","release":{"tag_name":"v1.0.0"}}`))

	env := map[string]string{
		"GITHUB_EVENT_NAME": "release",
		"GITHUB_EVENT_PATH": payload,
		"GITHUB_REPOSITORY": "octo/hello",
	}

	t.Run("target event", func(t *testing.T) {
		t.Parallel()
		ta := newTestApp(t, map[string]string{inputs.AccessTokenInput: "s3cr3t"}, env)
		if err := ta.execute("event", "-v"); err != nil {
			t.Fatalf("event error = %v", err)
		}
		if !strings.Contains(ta.stdout.String(), "release/published") {
			t.Errorf("stdout = %q", ta.stdout.String())
		}
		stderr := ta.stderr.String()
		if !strings.Contains(stderr, "https://***@github.com/octo/hello.git") {
			t.Errorf("verbose output should show the redacted push url:\n%s", stderr)
		}
		if strings.Contains(stderr, "s3cr3t") {
			t.Errorf("token leaked into output:\n%s", stderr)
		}
	})

	t.Run("other event", func(t *testing.T) {
		t.Parallel()
		ta := newTestApp(t, nil, map[string]string{"GITHUB_EVENT_NAME": "push"})
		err := ta.execute("event")
		if code := exitCode(t, err); code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
	})
}

func TestRepoConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	// base64 of "branch: release\nlabels:\n  - build\n"
	testutil.WriteFile(t, path, []byte("YnJhbmNoOiByZWxlYXNlCmxhYmVsczoKICAtIGJ1aWxkCg=="))

	ta := newTestApp(t, nil, nil)
	if err := ta.execute("repo-config", path); err != nil {
		t.Fatalf("repo-config error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(ta.stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	want := map[string]any{"branch": "release", "labels": []any{"build"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigLoadFailureFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	dir := testutil.Project{Scripts: [][2]string{{"build", "tsc"}}}.Write(t)

	ta := newTestApp(t, nil, nil)
	ta.app.Config = staticConfig{err: errors.New("broken config")}
	if err := ta.execute("commands", dir); err != nil {
		t.Fatalf("commands error = %v", err)
	}
	if !strings.Contains(ta.stderr.String(), "broken config") {
		t.Errorf("config failure should be reported as a warning, stderr = %q", ta.stderr.String())
	}
	if ta.stdout.Len() == 0 {
		t.Error("commands should still print the pipeline")
	}
}

func TestConfigDump(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Runtime = config.RuntimeVirtual

	ta := newTestApp(t, nil, nil)
	ta.app.Config = staticConfig{cfg: cfg}
	if err := ta.execute("config", "dump", "--format", "yaml"); err != nil {
		t.Fatalf("config dump error = %v", err)
	}
	if !strings.Contains(ta.stdout.String(), "runtime: virtual") {
		t.Errorf("yaml dump = %q", ta.stdout.String())
	}

	cue := newTestApp(t, nil, nil)
	cue.app.Config = staticConfig{cfg: cfg}
	if err := cue.execute("config", "dump"); err != nil {
		t.Fatalf("config dump error = %v", err)
	}
	if !strings.Contains(cue.stdout.String(), `runtime: "virtual"`) {
		t.Errorf("cue dump = %q", cue.stdout.String())
	}
}

func TestConfigInitAndPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "relbuild", "config.cue")

	ta := newTestApp(t, nil, nil)
	if err := ta.execute("--config", path, "config", "path"); err != nil {
		t.Fatalf("config path error = %v", err)
	}
	if got := strings.TrimSpace(ta.stdout.String()); got != path {
		t.Errorf("config path = %q, want %q", got, path)
	}

	initApp := newTestApp(t, nil, nil)
	if err := initApp.execute("--config", path, "config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
}

func TestRuntimeValue(t *testing.T) {
	t.Parallel()

	var v runtimeValue
	if err := v.Set(" Virtual "); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if v.String() != "virtual" {
		t.Errorf("String() = %q, want virtual", v.String())
	}
	if err := v.Set("container"); err == nil {
		t.Error("Set(container) should fail")
	}
	if v.Type() != "runtime" {
		t.Errorf("Type() = %q", v.Type())
	}
}

func TestCommands_DefaultsToWorkingDirectory(t *testing.T) {
	dir := testutil.Project{Scripts: [][2]string{{"build", "tsc"}}}.Write(t)
	testutil.Chdir(t, dir)

	ta := newTestApp(t, nil, nil)
	if err := ta.execute("commands"); err != nil {
		t.Fatalf("commands error = %v", err)
	}
	if got, want := ta.stdout.String(), "yarn install && yarn build && yarn install --production\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestExitCodeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain error", errors.New("boom"), 1},
		{"exit error", &ExitError{Code: 3}, 3},
		{"wrapped exit error", fmt.Errorf("run: %w", &ExitError{Code: 127}), 127},
		{"zero code still fails", &ExitError{Code: 0, Err: errors.New("odd")}, 1},
	}
	for _, tt := range tests {
		if got := exitCodeOf(tt.err); got != tt.want {
			t.Errorf("%s: exitCodeOf() = %d, want %d", tt.name, got, tt.want)
		}
	}

	if got := (&ExitError{Code: 2}).Error(); got != "exit status 2" {
		t.Errorf("Error() = %q", got)
	}
}
