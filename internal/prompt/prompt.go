// Package prompt asks the operator yes/no questions on a terminal.
package prompt

import (
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Confirm asks a yes/no question and returns the operator's answer.
// When in is not a terminal (cron, CI) the answer is always no, so an
// unattended run can never trigger a reboot.
func Confirm(in io.Reader, out io.Writer, question string) bool {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false
	}

	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithInput(in).WithOutput(out).Run()

	if err != nil {
		return false
	}
	return confirmed
}
