// SPDX-License-Identifier: MPL-2.0

// Package event models the repository event that triggered a run and decides
// whether it should produce a release build.
package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

const (
	// EventRelease is the release event name.
	EventRelease = "release"
	// ActionPublished is the release action that triggers a build.
	ActionPublished = "published"

	// GitHubHost is the host used for push URLs.
	GitHubHost = "github.com"
)

// Runner environment variables read by FromEnv.
const (
	EnvEventName  = "GITHUB_EVENT_NAME"
	EnvEventPath  = "GITHUB_EVENT_PATH"
	EnvSHA        = "GITHUB_SHA"
	EnvRef        = "GITHUB_REF"
	EnvWorkflow   = "GITHUB_WORKFLOW"
	EnvAction     = "GITHUB_ACTION"
	EnvActor      = "GITHUB_ACTOR"
	EnvRepository = "GITHUB_REPOSITORY"
)

// ErrInvalidRepository is returned when GITHUB_REPOSITORY is not owner/repo.
var ErrInvalidRepository = errors.New("invalid repository")

// targetEvents maps event names to the payload actions that trigger a build.
var targetEvents = map[string][]string{
	EventRelease: {ActionPublished},
}

type (
	// Repo identifies a repository.
	Repo struct {
		Owner string
		Repo  string
	}

	// Payload is the event payload. Action is lifted out; the full document
	// stays available in Raw.
	Payload struct {
		Action string
		Raw    map[string]any
	}

	// Context describes the triggering event.
	Context struct {
		EventName string
		SHA       string
		Ref       string
		Workflow  string
		Action    string
		Actor     string
		Payload   Payload
		Repo      Repo
	}

	// Getenv looks up an environment variable, as os.Getenv does.
	Getenv func(key string) string
)

// ParseRepo splits "owner/repo".
func ParseRepo(s string) (Repo, error) {
	owner, repo, ok := strings.Cut(s, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return Repo{}, fmt.Errorf("%w: %q (want owner/repo)", ErrInvalidRepository, s)
	}
	return Repo{Owner: owner, Repo: repo}, nil
}

// String returns "owner/repo".
func (r Repo) String() string {
	return r.Owner + "/" + r.Repo
}

// ParsePayload decodes a JSON event payload. Empty input yields an empty payload.
func ParsePayload(data []byte) (Payload, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Payload{Raw: map[string]any{}}, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Payload{}, fmt.Errorf("failed to decode event payload: %w", err)
	}
	p := Payload{Raw: raw}
	if action, ok := raw["action"].(string); ok {
		p.Action = action
	}
	return p, nil
}

// FromEnv builds a Context from runner environment variables. The payload is
// read from the file named by GITHUB_EVENT_PATH; an unset or missing file
// yields an empty payload. An unset repository is allowed, a malformed one is not.
func FromEnv(fsys afero.Fs, getenv Getenv) (*Context, error) {
	ctx := &Context{
		EventName: getenv(EnvEventName),
		SHA:       getenv(EnvSHA),
		Ref:       getenv(EnvRef),
		Workflow:  getenv(EnvWorkflow),
		Action:    getenv(EnvAction),
		Actor:     getenv(EnvActor),
		Payload:   Payload{Raw: map[string]any{}},
	}

	if s := getenv(EnvRepository); s != "" {
		repo, err := ParseRepo(s)
		if err != nil {
			return nil, err
		}
		ctx.Repo = repo
	}

	if path := getenv(EnvEventPath); path != "" {
		data, err := afero.ReadFile(fsys, path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// keep the empty payload
		case err != nil:
			return nil, fmt.Errorf("failed to read event payload: %w", err)
		default:
			p, err := ParsePayload(data)
			if err != nil {
				return nil, err
			}
			ctx.Payload = p
		}
	}

	return ctx, nil
}

// IsTargetEvent reports whether ctx should trigger a release build.
func IsTargetEvent(ctx *Context) bool {
	if ctx == nil {
		return false
	}
	actions, ok := targetEvents[ctx.EventName]
	return ok && slices.Contains(actions, ctx.Payload.Action)
}

// Repository returns "owner/repo" for ctx.
func Repository(ctx *Context) string {
	return ctx.Repo.String()
}

// GitURL returns the authenticated HTTPS push URL for ctx's repository.
func GitURL(ctx *Context, token string) string {
	return fmt.Sprintf("https://%s@%s/%s.git", token, GitHubHost, Repository(ctx))
}

// RedactURL replaces token in url so it can be logged.
func RedactURL(url, token string) string {
	if token == "" {
		return url
	}
	return strings.ReplaceAll(url, token, "***")
}
