package form

import (
	"fmt"
	"net/url"
)

// validate checks each required key in order: a missing key and a present but
// blank value produce different alerts.
func validate(values url.Values, keys ...string) []string {
	errors := []string{}
	for _, k := range keys {
		if !values.Has(k) {
			errors = append(errors, fmt.Sprintf("Missing %s field!", k))
		} else if values.Get(k) == "" {
			errors = append(errors, fmt.Sprintf("%s field cannot be blank!", k))
		}
	}
	return errors
}

// ValidateLogin checks the login form for username and password fields.
func ValidateLogin(values url.Values) []string {
	return validate(values, "username", "password")
}

// ValidateCompose checks the compose form for to, subject and body fields.
func ValidateCompose(values url.Values) []string {
	return validate(values, "to", "subject", "body")
}
