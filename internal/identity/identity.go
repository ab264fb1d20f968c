package identity

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultEmailSuffix is the college mail domain students log in with.
const DefaultEmailSuffix = ".simats@saveetha.com"

// EmailPolicy decides which login emails are acceptable. The current rule is
// exactly nine digits before the domain suffix; the original lax rule that
// allowed arbitrary alphanumeric prefixes is gone on purpose.
type EmailPolicy struct {
	suffix string
	re     *regexp.Regexp
}

func NewEmailPolicy(suffix string) *EmailPolicy {
	if suffix == "" {
		suffix = DefaultEmailSuffix
	}
	return &EmailPolicy{
		suffix: suffix,
		re:     regexp.MustCompile(`^\d{9}` + regexp.QuoteMeta(suffix) + `$`),
	}
}

func (p *EmailPolicy) Suffix() string {
	return p.suffix
}

func (p *EmailPolicy) Valid(email string) bool {
	return p.re.MatchString(email)
}

// RegNo derives the registration number from a college email: the digit
// prefix before the domain suffix.
func (p *EmailPolicy) RegNo(email string) (string, error) {
	if !p.Valid(email) {
		return "", fmt.Errorf("not a valid college email: %q", email)
	}
	return strings.TrimSuffix(email, p.suffix), nil
}

// Session is the immutable identity value constructed at login and passed
// into any operation that records who submitted. The core never reads login
// state from anywhere else.
type Session struct {
	Email string
	RegNo string
}

// Login validates the email and builds the session value for it.
func (p *EmailPolicy) Login(email string) (Session, error) {
	regNo, err := p.RegNo(email)
	if err != nil {
		return Session{}, err
	}
	return Session{Email: email, RegNo: regNo}, nil
}
