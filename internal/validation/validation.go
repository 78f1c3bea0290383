// Per-field validation chains for auth request bodies. A chain runs its rules
// in order and stops at the first failure; chains for different fields all run
// so the caller gets every field's problem in one aggregated list.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/user-vault/backend/internal/model"
)

var (
	lowercaseRe = regexp.MustCompile(`[a-z]`)
	uppercaseRe = regexp.MustCompile(`[A-Z]`)
	digitRe     = regexp.MustCompile(`[0-9]`)
	emailRe     = regexp.MustCompile(`^[A-Za-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?)+$`)
)

type rule struct {
	check func(value any, present bool) bool
	msg   string
}

type Chain struct {
	path  string
	rules []rule
}

func Field(path string) *Chain {
	return &Chain{path: path}
}

func (c *Chain) add(msg string, check func(value any, present bool) bool) *Chain {
	c.rules = append(c.rules, rule{check: check, msg: msg})
	return c
}

func (c *Chain) Exists(msg string) *Chain {
	return c.add(msg, func(value any, present bool) bool {
		return present
	})
}

func (c *Chain) IsString(msg string) *Chain {
	return c.add(msg, func(value any, present bool) bool {
		_, ok := value.(string)
		return ok
	})
}

func (c *Chain) NotEmpty(msg string) *Chain {
	return c.add(msg, func(value any, present bool) bool {
		s, ok := value.(string)
		return ok && s != ""
	})
}

func (c *Chain) Length(min, max int, msg string) *Chain {
	return c.add(msg, func(value any, present bool) bool {
		s, ok := value.(string)
		if !ok {
			return false
		}
		n := utf8.RuneCountInString(s)
		return n >= min && n <= max
	})
}

func (c *Chain) Matches(re *regexp.Regexp, msg string) *Chain {
	return c.add(msg, func(value any, present bool) bool {
		s, ok := value.(string)
		return ok && re.MatchString(s)
	})
}

// IsEmail also rejects overlong addresses (local part over 64 runes or the
// whole address over 254) with the same message.
func (c *Chain) IsEmail(msg string) *Chain {
	return c.add(msg, func(value any, present bool) bool {
		s, ok := value.(string)
		if !ok {
			return false
		}
		return isEmail(s)
	})
}

func isEmail(s string) bool {
	if utf8.RuneCountInString(s) > 254 {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at < 0 || utf8.RuneCountInString(s[:at]) > 64 {
		return false
	}
	return emailRe.MatchString(s)
}

// Validate runs the chain against a decoded JSON body and returns the first
// failing rule's error, or nil.
func (c *Chain) Validate(body map[string]any) *model.FieldError {
	value, present := body[c.path]
	for _, r := range c.rules {
		if r.check(value, present) {
			continue
		}
		fieldErr := &model.FieldError{
			Type:     "field",
			Path:     c.path,
			Msg:      r.msg,
			Location: "body",
		}
		if present {
			fieldErr.Value = value
		}
		return fieldErr
	}
	return nil
}

// Run validates every chain and aggregates the failures in chain order.
func Run(body map[string]any, chains ...*Chain) []model.FieldError {
	var errs []model.FieldError
	for _, c := range chains {
		if fieldErr := c.Validate(body); fieldErr != nil {
			errs = append(errs, *fieldErr)
		}
	}
	return errs
}

func usernameChain() *Chain {
	return Field("username").
		Exists("Username is not specified.").
		IsString("Username must be a string.").
		NotEmpty("Username must not be empty.").
		Length(5, 14, "Username must contain from 5 to 14 characters.")
}

func passwordChain() *Chain {
	return Field("password").
		Exists("Password is not specified.").
		IsString("Password must be a string.").
		NotEmpty("Password must not be empty.").
		Length(6, 28, "Password must contain from 6 to 28 characters.").
		Matches(lowercaseRe, "Password must contain at least one lowercase letter.").
		Matches(uppercaseRe, "Password must contain at least one uppercase letter.").
		Matches(digitRe, "Password must contain at least one number.")
}

func emailChain() *Chain {
	return Field("email").
		Exists("Email is not specified.").
		IsString("Email must be a string.").
		NotEmpty("Email must not be empty.").
		IsEmail("Email is invalid.")
}

func RegisterRules() []*Chain {
	return []*Chain{usernameChain(), emailChain(), passwordChain()}
}

func LoginRules() []*Chain {
	return []*Chain{usernameChain(), passwordChain()}
}
