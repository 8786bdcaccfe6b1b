// SPDX-License-Identifier: MPL-2.0

package buildcmd

import "github.com/relbuild/relbuild/pkg/manifest"

const (
	// ScriptBuild is the conventional build script name.
	ScriptBuild ScriptName = "build"
	// ScriptProduction is checked when no "build" script exists.
	ScriptProduction ScriptName = "production"
	// ScriptProd is the shortest alias, checked last.
	ScriptProd ScriptName = "prod"
)

// ScriptName names a manifest script recognized as a build step.
type ScriptName string

// BuildScriptNames lists the recognized build script names in priority order.
// Extend it by appending; earlier entries always win.
var BuildScriptNames = []ScriptName{
	ScriptBuild,
	ScriptProduction,
	ScriptProd,
}

// String returns the script name.
func (n ScriptName) String() string { return string(n) }

// Detect returns the first name in BuildScriptNames that m defines.
// Only presence matters; the script's command is not inspected.
func Detect(m *manifest.Manifest) (ScriptName, bool) {
	return detectIn(m, BuildScriptNames)
}

func detectIn(m *manifest.Manifest, names []ScriptName) (ScriptName, bool) {
	if m.Len() == 0 {
		return "", false
	}
	for _, name := range names {
		if m.Has(string(name)) {
			return name, true
		}
	}
	return "", false
}
