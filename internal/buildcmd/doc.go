// SPDX-License-Identifier: MPL-2.0

// Package buildcmd decides which shell commands prepare a project for release.
//
// Detect picks the script that represents "the build step" from a manifest
// using a fixed priority list. Assemble composes the full pipeline around it:
// dependency install, caller-supplied commands, the detected build, a
// production-only reinstall and, when the project carries a .github directory,
// a cleanup step. Both are pure. Resolver is the boundary that loads the
// manifest and probes the filesystem before calling Assemble.
package buildcmd
