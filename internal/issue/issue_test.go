// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "resolve pipeline"},
			expected: "failed to resolve pipeline",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load manifest", Resource: "./package.json"},
			expected: "failed to load manifest: ./package.json",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "load manifest",
				Resource:  "./package.json",
				Cause:     errors.New("permission denied"),
			},
			expected: "failed to load manifest: ./package.json: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	root := errors.New("exit status 2")
	err := NewErrorContext().
		WithOperation("run pipeline").
		WithSuggestion("Run with --dry-run").
		WithSuggestion("Try --runtime virtual").
		Wrap(fmt.Errorf("step 2: %w", root)).
		Build()

	plain := err.Format(false)
	if !strings.Contains(plain, "  • Run with --dry-run") || !strings.Contains(plain, "  • Try --runtime virtual") {
		t.Errorf("Format(false) missing suggestions:\n%s", plain)
	}
	if strings.Contains(plain, "Error chain:") {
		t.Errorf("Format(false) should not include the chain:\n%s", plain)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "1. step 2: exit status 2") || !strings.Contains(verbose, "2. exit status 2") {
		t.Errorf("Format(true) missing chain:\n%s", verbose)
	}
	if !errors.Is(err, root) {
		t.Error("errors.Is(err, root) = false")
	}
}

func TestErrorContext_BuildRequiresOperation(t *testing.T) {
	if ae := NewErrorContext().WithResource("x").Build(); ae != nil {
		t.Errorf("Build() = %v, want nil", ae)
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() = %v, want untyped nil", err)
	}
	if WrapWithOperation(nil, "x") != nil {
		t.Error("WrapWithOperation(nil) should be nil")
	}
}

func TestCatalog(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d entries, want %d", len(values), len(issues))
	}
	for i, v := range values {
		if v.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, v.Id(), i+1)
		}
		if strings.TrimSpace(string(v.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no message", v.Id())
		}
		if Get(v.Id()) != v {
			t.Errorf("Get(%d) mismatch", v.Id())
		}
	}
	if Get(0) != nil {
		t.Error("Get(0) should be nil")
	}
}

func TestIssue_Render(t *testing.T) {
	out, err := Get(NotTargetEventId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Nothing to release") {
		t.Errorf("Render() output missing title:\n%s", out)
	}
}
