// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/relbuild/relbuild/internal/runner"
)

// runtimeValue is a --runtime flag that rejects unknown runtimes at parse time.
type runtimeValue runner.RuntimeType

var _ pflag.Value = (*runtimeValue)(nil)

func (v *runtimeValue) String() string { return string(*v) }

func (v *runtimeValue) Set(s string) error {
	t := runner.RuntimeType(strings.ToLower(strings.TrimSpace(s)))
	if err := t.Validate(); err != nil {
		return err
	}
	*v = runtimeValue(t)
	return nil
}

func (v *runtimeValue) Type() string { return "runtime" }
