// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/relbuild/relbuild/cmd/relbuild"

func main() {
	cmd.Execute()
}
