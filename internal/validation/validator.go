// Package validation decides whether a chat input value may be submitted.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/athyr-tech/athyr-chat/internal/config"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid input")

// Validator checks a value before submission. A nil error means valid.
type Validator interface {
	Validate(value string) error
}

// Func adapts a plain function to a Validator.
type Func func(value string) error

// Validate implements Validator.
func (f Func) Validate(value string) error { return f(value) }

// Invalid builds an error wrapping ErrInvalid with a user-facing reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Reason strips the ErrInvalid prefix for display.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := ErrInvalid.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}

// Constraints mirrors HTML constraint validation: required, minlength,
// maxlength and pattern. Lengths count runes; the pattern must match the
// whole value.
type Constraints struct {
	Required  bool
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
}

// NewConstraints builds Constraints from config.
func NewConstraints(cfg config.ValidationConfig) (*Constraints, error) {
	c := &Constraints{
		Required:  cfg.IsRequired(),
		MinLength: cfg.MinLength,
		MaxLength: cfg.MaxLength,
	}
	if cfg.Pattern != "" {
		re, err := regexp.Compile("^(?:" + cfg.Pattern + ")$")
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern: %w", err)
		}
		c.Pattern = re
	}
	return c, nil
}

// Validate implements Validator.
func (c *Constraints) Validate(value string) error {
	// An empty optional field skips every other constraint.
	if value == "" {
		if c.Required {
			return Invalid("please fill out this field")
		}
		return nil
	}

	n := utf8.RuneCountInString(value)
	if c.MinLength > 0 && n < c.MinLength {
		return Invalid("use at least %d characters (currently %d)", c.MinLength, n)
	}
	if c.MaxLength > 0 && n > c.MaxLength {
		return Invalid("use no more than %d characters (currently %d)", c.MaxLength, n)
	}
	if c.Pattern != nil && !c.Pattern.MatchString(value) {
		return Invalid("please match the requested format")
	}
	return nil
}

// Chain runs validators in order; the first failure wins. Nil entries are skipped.
func Chain(validators ...Validator) Validator {
	return Func(func(value string) error {
		for _, v := range validators {
			if v == nil {
				continue
			}
			if err := v.Validate(value); err != nil {
				return err
			}
		}
		return nil
	})
}
