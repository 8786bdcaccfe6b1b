// SPDX-License-Identifier: MPL-2.0

// Package inputs reads action inputs and runner environment values.
//
// Action inputs follow the runner convention: an input named "build command"
// or "BUILD_COMMAND" is read from INPUT_BUILD_COMMAND. All reads go through a
// Source so the rest of the program receives plain strings and never touches
// the process environment directly.
package inputs

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every action input variable.
	EnvPrefix = "INPUT"
	// WorkspaceEnv names the checked-out workspace directory.
	WorkspaceEnv = "GITHUB_WORKSPACE"

	// BuildCommandInput holds extra build commands joined by "&&".
	BuildCommandInput = "BUILD_COMMAND"
	// CommitMessageInput is the release commit message.
	CommitMessageInput = "COMMIT_MESSAGE"
	// CommitNameInput is the release commit author name.
	CommitNameInput = "COMMIT_NAME"
	// CommitEmailInput is the release commit author email.
	CommitEmailInput = "COMMIT_EMAIL"
	// BranchNameInput is the branch the release build is pushed to.
	BranchNameInput = "BRANCH_NAME"
	// AccessTokenInput is the token used to push.
	AccessTokenInput = "ACCESS_TOKEN"

	// DefaultCommitMessage is used when COMMIT_MESSAGE is empty.
	DefaultCommitMessage = "feat: Build for release"
	// DefaultCommitName is used when COMMIT_NAME is empty.
	DefaultCommitName = "GitHub Action"
	// DefaultCommitEmail is used when COMMIT_EMAIL is empty.
	DefaultCommitEmail = "example@example.com"
	// DefaultBranchName is used when BRANCH_NAME is empty.
	DefaultBranchName = "gh-actions"
)

type (
	// Source resolves a raw input or environment value by name.
	Source interface {
		// Input returns the action input called name, or "".
		Input(name string) string
		// Env returns the environment variable key, or "".
		Env(key string) string
	}

	envSource struct {
		v *viper.Viper
	}

	mapSource struct {
		inputs map[string]string
		env    map[string]string
	}

	// Inputs exposes typed accessors over a Source.
	Inputs struct {
		src Source
	}
)

// NormalizeName converts an input name to its environment form:
// upper case, spaces and dashes replaced by underscores.
func NormalizeName(name string) string {
	r := strings.NewReplacer(" ", "_", "-", "_")
	return strings.ToUpper(r.Replace(strings.TrimSpace(name)))
}

// EnvVar returns the environment variable that carries the input name.
func EnvVar(name string) string {
	return EnvPrefix + "_" + NormalizeName(name)
}

// FromEnv returns a Source reading the process environment.
func FromEnv() Source {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(" ", "_", "-", "_", ".", "_"))
	v.AutomaticEnv()
	return &envSource{v: v}
}

func (s *envSource) Input(name string) string {
	return strings.TrimSpace(s.v.GetString(NormalizeName(name)))
}

func (s *envSource) Env(key string) string {
	return os.Getenv(key)
}

// FromMap returns a Source over fixed values. Input keys are normalized.
func FromMap(inputs, env map[string]string) Source {
	s := &mapSource{inputs: make(map[string]string, len(inputs)), env: env}
	for k, v := range inputs {
		s.inputs[NormalizeName(k)] = v
	}
	return s
}

func (s *mapSource) Input(name string) string {
	return strings.TrimSpace(s.inputs[NormalizeName(name)])
}

func (s *mapSource) Env(key string) string {
	return s.env[key]
}

// New wraps src. A nil src reads the process environment.
func New(src Source) *Inputs {
	if src == nil {
		src = FromEnv()
	}
	return &Inputs{src: src}
}

// Get returns the raw input called name.
func (in *Inputs) Get(name string) string {
	return in.src.Input(name)
}

func (in *Inputs) getOr(name, fallback string) string {
	if v := in.src.Input(name); v != "" {
		return v
	}
	return fallback
}

// BuildCommand returns the build command override, or "".
func (in *Inputs) BuildCommand() string { return in.Get(BuildCommandInput) }

// CommitMessage returns the release commit message.
func (in *Inputs) CommitMessage() string { return in.getOr(CommitMessageInput, DefaultCommitMessage) }

// CommitName returns the release commit author name.
func (in *Inputs) CommitName() string { return in.getOr(CommitNameInput, DefaultCommitName) }

// CommitEmail returns the release commit author email.
func (in *Inputs) CommitEmail() string { return in.getOr(CommitEmailInput, DefaultCommitEmail) }

// BranchName returns the release branch name.
func (in *Inputs) BranchName() string { return in.getOr(BranchNameInput, DefaultBranchName) }

// AccessToken returns the push token, or "".
func (in *Inputs) AccessToken() string { return in.Get(AccessTokenInput) }

// Workspace returns the workspace directory, or "".
func (in *Inputs) Workspace() string { return in.src.Env(WorkspaceEnv) }
