package vapi

import (
	"github.com/mitchellh/mapstructure"
)

type checkAvailabilityParams struct {
	DateTime string `mapstructure:"dateTime"`
	Duration int    `mapstructure:"duration"`
}

type bookAppointmentParams struct {
	Name          string `mapstructure:"name"`
	Email         string `mapstructure:"email"`
	Phone         string `mapstructure:"phone"`
	PreferredTime string `mapstructure:"preferredTime"`
	Duration      int    `mapstructure:"duration"`
}

// decodeParams fills out from the loosely typed assistant parameters, so
// "30" and 30 both decode to an int. Fields that fail to convert are left zero
// and reported in the returned error; the rest are still populated.
func decodeParams(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// MaxDurationMinutes bounds a requested duration to one day.
const MaxDurationMinutes = 24 * 60

// durationOrDefault keeps d when it is a usable length and otherwise falls
// back, so start+duration never overflows.
func durationOrDefault(d, fallback int) int {
	if d <= 0 || d > MaxDurationMinutes {
		return fallback
	}
	return d
}
