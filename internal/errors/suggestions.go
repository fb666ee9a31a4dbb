package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	// User input errors
	ErrPlantNotFound:     "Use 'plantcare list' to see your plants.",
	ErrAmbiguousPlant:    "Use a longer ID prefix or the full plant name.",
	ErrDuplicatePlant:    "Each plant needs a unique ID; import files must not repeat IDs.",
	ErrPlantRequired:     "Name a plant by ID prefix or by name, e.g. 'plantcare water fern'.",
	ErrInvalidFrequency:  "Try formats like '3', '3d', '1w', '36h', or 'every 2 weeks'.",
	ErrInvalidTimestamp:  "Try formats like '2 days ago', 'yesterday at 9am', or '2024-05-01 18:00'.",
	ErrWateredInFuture:   "Watering times must not be later than now.",
	ErrWateredBeforeLast: "Use a time after the last watering shown by 'plantcare show'.",
	ErrInvalidURL:        "Provide a valid URL starting with https:// (or http:// for localhost).",
	ErrInvalidAdapter:    "Use --adapter json or --adapter sqlite.",
	ErrNothingToUndo:     "Only the most recent add, water, edit, or delete can be undone.",

	// System errors
	ErrWriteConflict:     "Another client watered this plant at the same moment. Try again.",
	ErrRemoteUnavailable: "Check that 'plantcare serve' is running and --remote points at it.",
	ErrDiskFull:          "Free up disk space and try again. Your garden is unchanged.",
	ErrPermissionDenied:  "Check file permissions in your data directory (~/.local/share/plantcare/).",
	ErrTimeout:           "The operation took too long. Try again or check your network connection.",
}

// GetSuggestion returns a suggestion for an error, if available.
// It walks the error chain to find matching suggestions.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// A UserError's own suggestion is more specific than the sentinel's.
	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	return ""
}
