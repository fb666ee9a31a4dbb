// Package validate provides input validation helpers for the plantcare CLI and API.
package validate

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/model"
)

const (
	// MaxNameLength is the maximum length for a plant name, in runes.
	MaxNameLength = 64
	// MaxSpeciesLength is the maximum length for a species, in runes.
	MaxSpeciesLength = 64
	// MaxEmojiLength covers multi-codepoint emoji such as flags and ZWJ sequences.
	MaxEmojiLength = 8
	// MaxFrequencyDays is the longest watering interval accepted.
	MaxFrequencyDays = 365
	// MaxURLLength is the maximum length for a URL.
	MaxURLLength = 2048
)

// PlantName validates a plant name.
func PlantName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewUserErrorWithField("name", name,
			"Plant name cannot be empty",
			"Give your plant a name, e.g. plantcare add \"Monty\"")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return errors.NewUserErrorWithField("name", name,
			"Plant name too long",
			fmt.Sprintf("Plant names must be %d characters or fewer", MaxNameLength))
	}
	return nil
}

// Species validates a species. Empty is allowed.
func Species(species string) error {
	if utf8.RuneCountInString(species) > MaxSpeciesLength {
		return errors.NewUserErrorWithField("species", species,
			"Species too long",
			fmt.Sprintf("Species must be %d characters or fewer", MaxSpeciesLength))
	}
	return nil
}

// Emoji validates an emoji. Empty is allowed and means the default.
func Emoji(emoji string) error {
	if utf8.RuneCountInString(emoji) > MaxEmojiLength {
		return errors.NewUserErrorWithField("emoji", emoji,
			"Emoji too long",
			"Use a single emoji such as 🌵 or 🌱")
	}
	return nil
}

// Frequency validates a watering interval in days.
func Frequency(days float64) error {
	if math.IsNaN(days) || days <= 0 || days > MaxFrequencyDays {
		return errors.NewUserErrorWithField("watering_frequency_days", fmt.Sprintf("%g", days),
			fmt.Sprintf("Watering frequency must be more than 0 and at most %d days", MaxFrequencyDays),
			errors.GetSuggestion(errors.ErrInvalidFrequency),
		).WithCause(errors.ErrInvalidFrequency)
	}
	return nil
}

// Plant validates the editable fields of a plant.
func Plant(name, species, emoji string, frequencyDays float64) error {
	if err := PlantName(name); err != nil {
		return err
	}
	if err := Species(species); err != nil {
		return err
	}
	if err := Emoji(emoji); err != nil {
		return err
	}
	return Frequency(frequencyDays)
}

// Update sanitises the name in u and validates every field it sets.
func Update(u *model.PlantUpdate) error {
	if u.IsEmpty() {
		return errors.NewUserError("Nothing to change",
			"Pass at least one of --name, --species, --emoji or --every")
	}
	if u.Name != nil {
		name := SanitizeName(*u.Name)
		u.Name = &name
		if err := PlantName(name); err != nil {
			return err
		}
	}
	if u.Species != nil {
		if err := Species(*u.Species); err != nil {
			return err
		}
	}
	if u.Emoji != nil {
		if err := Emoji(*u.Emoji); err != nil {
			return err
		}
	}
	if u.WateringFrequencyDays != nil {
		return Frequency(*u.WateringFrequencyDays)
	}
	return nil
}

// URL validates an http(s) URL such as a webhook endpoint or a server address.
func URL(rawURL string) error {
	invalid := func(message string) error {
		return errors.NewUserErrorWithField("url", rawURL, message,
			errors.GetSuggestion(errors.ErrInvalidURL),
		).WithCause(errors.ErrInvalidURL)
	}

	if rawURL == "" {
		return invalid("URL cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return invalid(fmt.Sprintf("URL must be %d characters or fewer", MaxURLLength))
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return invalid("Invalid URL format")
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return invalid("URL must start with http:// or https://")
	}
	if parsed.Hostname() == "" {
		return invalid("URL is missing a hostname")
	}
	return nil
}

// NonEmpty validates that a string is not blank.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewUserError(
			field+" cannot be empty",
			"Provide a value for "+field)
	}
	return nil
}
