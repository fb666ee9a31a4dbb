package runtime

import (
	"github.com/manav03panchal/plantcare/internal/errors"
)

// FormatError formats an error with its suggestion for the terminal.
func FormatError(err error) string {
	return errors.FormatByCategory(err)
}

// Suggestion returns the fix to show next to err, if any.
func Suggestion(err error) string {
	return errors.GetSuggestion(err)
}

// ExitCode maps an error to the process exit status: 2 for input the user
// can fix, 1 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Classify(err) == errors.CategoryUser:
		return 2
	default:
		return 1
	}
}
