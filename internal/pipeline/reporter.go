package pipeline

import (
	"fmt"
	"io"
	"os"
)

// Reporter writes human-readable progress lines for the user. It is purely
// observational: it never fails and never changes pipeline behavior. Write
// errors on the output channel are deliberately not caught.
type Reporter struct {
	Out io.Writer
}

func (r *Reporter) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

// Starting reports that a step began.
func (r *Reporter) Starting(step Step) {
	fmt.Fprintf(r.out(), "==> %s: starting\n", step)
}

// Completed reports that a step finished.
func (r *Reporter) Completed(step Step) {
	fmt.Fprintf(r.out(), "==> %s: done\n", step)
}

// Failed reports the failing step and its cause.
func (r *Reporter) Failed(step Step, err error) {
	fmt.Fprintf(r.out(), "==> %s: failed: %v\n", step, err)
}

// Reentry emits the command that reproduces the activation state in a future
// session, so the environment stays usable without re-running the bootstrap.
func (r *Reporter) Reentry(command string) {
	fmt.Fprintf(r.out(), "\nEnvironment ready. To re-enter it later, run:\n\n    %s\n", command)
}
