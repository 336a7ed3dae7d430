package validator

import "regexp"

var (
	// UUIDv4RX matches a canonical, hyphenated version 4 UUID in either case.
	UUIDv4RX = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

	// IMDbIDRX matches an IMDb title identifier such as tt0111161.
	IMDbIDRX = regexp.MustCompile(`^tt\d{7,}$`)
)

// Validator collects validation failures keyed by field. Keys are remembered
// in the order they first failed so that callers can report them
// deterministically.
type Validator struct {
	Errors map[string]string
	keys   []string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if the errors map doesn't contain any entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error message to the map, as long as no entry already
// exists for the given key.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
		v.keys = append(v.keys, key)
	}
}

// Check adds an error message to the map only if a validation check is not ok.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Keys returns the failed keys in insertion order.
func (v *Validator) Keys() []string {
	keys := make([]string, len(v.keys))
	copy(keys, v.keys)
	return keys
}

// In returns true if a specific value is in a list of strings.
func In(value string, list ...string) bool {
	for i := range list {
		if value == list[i] {
			return true
		}
	}
	return false
}

// Matches returns true if a string value matches a specific regexp pattern.
func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}
