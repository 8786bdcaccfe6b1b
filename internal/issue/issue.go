// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	ManifestInvalidId Id = iota + 1
	NotTargetEventId
	StepFailedId
	ConfigLoadFailedId
	InvalidRuntimeId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is Markdown guidance text.
	MarkdownMsg string

	// Issue is a catalog entry.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

func (i *Issue) Id() Id { return i.id }

func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// Render renders the guidance with the named glamour style ("dark", "light",
// "notty", "auto").
func (i *Issue) Render(style string) (string, error) {
	return render(string(i.mdMsg), style)
}

var (
	render = glamour.Render

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# The project manifest could not be read

relbuild looks for a ` + "`package.json`" + ` with a ` + "`scripts`" + ` object
mapping names to command strings.

## Things you can try
- Validate the file:
~~~
$ node -e 'require("./package.json")'
~~~
- Make sure every script value is a string.
- Provide the build explicitly with the ` + "`BUILD_COMMAND`" + ` input.`,
	}

	notTargetEventIssue = &Issue{
		id: NotTargetEventId,
		mdMsg: `
# Nothing to release

Release builds only run for a **published release**. Other events are skipped.

## Things you can try
- Trigger the workflow with:
~~~yaml
on:
  release:
    types: [published]
~~~`,
	}

	stepFailedIssue = &Issue{
		id: StepFailedId,
		mdMsg: `
# A pipeline command failed

The pipeline stops at the first command that exits non-zero.

## Things you can try
- Print the pipeline without running it:
~~~
$ relbuild run --dry-run
~~~
- Run the failing command by hand in the project directory.
- Try the other runtime (` + "`--runtime native`" + ` or ` + "`--runtime virtual`" + `).`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

## Things you can try
- Show where relbuild looks for its config:
~~~
$ relbuild config path
~~~
- Regenerate a default file:
~~~
$ relbuild config init
~~~`,
	}

	invalidRuntimeIssue = &Issue{
		id: InvalidRuntimeId,
		mdMsg: `
# Unknown runtime

Valid runtimes are ` + "`native`" + ` (host shell) and ` + "`virtual`" + ` (built-in interpreter).`,
	}

	issues = map[Id]*Issue{
		manifestInvalidIssue.Id():  manifestInvalidIssue,
		notTargetEventIssue.Id():   notTargetEventIssue,
		stepFailedIssue.Id():       stepFailedIssue,
		configLoadFailedIssue.Id(): configLoadFailedIssue,
		invalidRuntimeIssue.Id():   invalidRuntimeIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
