// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries what was attempted, on which resource, and how to
// fix it. The Issue catalog holds longer Markdown guidance for the failures a
// release run hits most often, rendered for the terminal with glamour.
package issue
