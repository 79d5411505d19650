package entrysync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var bloodPressurePattern = regexp.MustCompile(`^\d{2,3}/\d{2,3}$`)

// ValidateBloodPressure reports whether s looks like "120/80": two or three
// digits, a slash, two or three digits, nothing else.
func ValidateBloodPressure(s string) bool {
	return bloodPressurePattern.MatchString(s)
}

// Entry is the pair of readings stored for one day
type Entry struct {
	BloodPressure string       `json:"blood_pressure"`
	GlucoseLevel  GlucoseLevel `json:"glucose_level"`
}

// GlucoseLevel keeps the reading in the textual form the user edits. The
// server may send it as a JSON number, a numeric string, or null.
type GlucoseLevel string

// UnmarshalJSON accepts a number, a string or null
func (g *GlucoseLevel) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*g = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*g = GlucoseLevel(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("glucose_level: want number or string, got %s", b)
	}
	*g = GlucoseLevel(n.String())
	return nil
}

// MarshalJSON writes numeric readings as numbers, empty readings as null
// and anything else as a string.
func (g GlucoseLevel) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(g))
	if s == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

// Float returns the reading as a number
func (g GlucoseLevel) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(string(g)), 64)
}

func (g GlucoseLevel) String() string {
	return string(g)
}
