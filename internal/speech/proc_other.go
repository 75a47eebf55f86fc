//go:build !unix

package speech

import "os/exec"

// configureProcess keeps the default cancellation, which kills the direct child.
func configureProcess(*exec.Cmd) {}
