package hideblock

import (
	"fmt"
	"regexp"

	"github.com/pkg/errors"
)

// Validator checks the argument string of a block tag before its handler runs.
type Validator interface {
	Validate(tagName, args string, pos Position) error
}

// ValidatorFunc adapts a plain function to Validator.
type ValidatorFunc func(tagName, args string, pos Position) error

func (f ValidatorFunc) Validate(tagName, args string, pos Position) error {
	return f(tagName, args, pos)
}

// RegexValidator accepts arguments matching Pattern. Description is shown in
// the error, e.g. "a capitalised title".
type RegexValidator struct {
	Pattern     *regexp.Regexp
	Description string
}

func (v *RegexValidator) Validate(tagName, args string, pos Position) error {
	if v.Pattern.MatchString(args) {
		return nil
	}
	msg := fmt.Sprintf("arguments %q do not match expected pattern: %s", args, v.Description)
	return NewValidationError(pos, tagName, msg, "")
}

// ValidatorRegistry holds the validators of each tag, in registration order.
type ValidatorRegistry struct {
	byTag map[string][]Validator
}

func NewValidatorRegistry() *ValidatorRegistry {
	return &ValidatorRegistry{byTag: map[string][]Validator{}}
}

func (r *ValidatorRegistry) Register(tagName string, v Validator) {
	if v == nil {
		return
	}
	name := canonicalName(tagName)
	r.byTag[name] = append(r.byTag[name], v)
}

// RegisterRegex compiles pattern and registers it for tagName.
func (r *ValidatorRegistry) RegisterRegex(tagName, pattern, description string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return errors.Wrapf(err, "invalid argument pattern for tag %s", tagName)
	}
	r.Register(tagName, &RegexValidator{Pattern: re, Description: description})
	return nil
}

func (r *ValidatorRegistry) RegisterFunc(tagName string, f func(tagName, args string, pos Position) error) {
	if f == nil {
		return
	}
	r.Register(tagName, ValidatorFunc(f))
}

// ValidateArgs returns the first failure among the validators of tagName.
func (r *ValidatorRegistry) ValidateArgs(tagName, args string, pos Position) error {
	name := canonicalName(tagName)
	for _, v := range r.byTag[name] {
		if err := v.Validate(name, args, pos); err != nil {
			return err
		}
	}
	return nil
}
