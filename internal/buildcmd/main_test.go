// SPDX-License-Identifier: MPL-2.0

package buildcmd

import (
	"testing"

	"go.uber.org/goleak"
)

// ResolveAll fans out goroutines; none may outlive a call.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
