// SPDX-License-Identifier: MPL-2.0

package buildcmd

import (
	"strings"

	"github.com/relbuild/relbuild/pkg/manifest"
)

const (
	// InstallCommand installs all dependencies. It always opens the pipeline.
	InstallCommand = "yarn install"
	// ProductionInstallCommand reinstalls runtime dependencies only.
	ProductionInstallCommand = "yarn install --production"
	// RunScriptPrefix runs a manifest script.
	RunScriptPrefix = "yarn"
	// MetadataDir is the repository metadata directory removed before publishing.
	MetadataDir = ".github"
	// CleanupCommand removes MetadataDir from the working directory.
	CleanupCommand = "rm -rdf " + MetadataDir

	// commandSeparator joins commands inside an override string.
	commandSeparator = "&&"
)

type (
	// Params carries everything Assemble needs. The zero value yields the
	// minimal pipeline (install, production install).
	Params struct {
		// WorkDir is the project directory the pipeline runs in.
		WorkDir string
		// Override holds extra commands joined by "&&". Empty means none.
		Override string
		// Manifest is the loaded project manifest, nil when absent.
		Manifest *manifest.Manifest
		// HasMetadataDir reports whether WorkDir contains MetadataDir.
		HasMetadataDir bool
	}

	// Pipeline is an ordered list of shell commands, run one after another.
	Pipeline []string
)

// String renders the pipeline as a single "&&"-joined shell line.
func (p Pipeline) String() string {
	return strings.Join(p, " "+commandSeparator+" ")
}

// RunScriptCommand returns the command that runs the named manifest script.
func RunScriptCommand(name ScriptName) string {
	return RunScriptPrefix + " " + string(name)
}

// SplitOverride splits an override string on "&&" into trimmed, non-empty
// fragments. Anything else in a fragment is kept verbatim.
func SplitOverride(override string) []string {
	if strings.TrimSpace(override) == "" {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(override, commandSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Assemble builds the command pipeline for p.
//
// The result always starts with InstallCommand, followed by the override
// fragments (minus any repeat of InstallCommand), the detected build script
// unless an override fragment already runs it, ProductionInstallCommand and,
// when p.HasMetadataDir is set, CleanupCommand.
func Assemble(p Params) Pipeline {
	pipeline := Pipeline{InstallCommand}
	emitted := map[string]bool{InstallCommand: true}

	for _, fragment := range SplitOverride(p.Override) {
		if fragment == InstallCommand {
			continue
		}
		pipeline = append(pipeline, fragment)
		emitted[fragment] = true
	}

	if name, ok := Detect(p.Manifest); ok {
		if build := RunScriptCommand(name); !emitted[build] {
			pipeline = append(pipeline, build)
		}
	}

	pipeline = append(pipeline, ProductionInstallCommand)
	if p.HasMetadataDir {
		pipeline = append(pipeline, CleanupCommand)
	}
	return pipeline
}
