package newsletter

import (
	"fmt"
	"net/mail"
	"strings"
)

// ValidateEmail rejects obviously malformed addresses before they reach
// the provider. Full RFC 5322 enforcement stays on the provider side.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}
	if addr.Address != email {
		return fmt.Errorf("invalid email: expected a bare address, got %q", email)
	}
	at := strings.LastIndex(email, "@")
	if !strings.Contains(email[at+1:], ".") {
		return fmt.Errorf("invalid email: domain %q has no dot", email[at+1:])
	}
	return nil
}
