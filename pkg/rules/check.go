package rules

import (
	"math"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

// Option configures a Checker.
type Option func(*Checker)

// WithMessages overrides how failure messages are resolved.
func WithMessages(fn MessageFunc) Option {
	return func(c *Checker) {
		if fn != nil {
			c.messages = fn
		}
	}
}

// Checker revalidates submitted values with the same semantics as the
// generated component. Compiled patterns are cached and the checker is safe
// for concurrent use.
//
// Patterns compile with RE2 while the component evaluates them with the
// browser's RegExp. Lookaround and backreferences are rejected here and
// reported as MsgBadPattern even though the component accepts them.
type Checker struct {
	messages MessageFunc

	mu       sync.Mutex
	patterns map[string]patternResult
}

type patternResult struct {
	re  *regexp.Regexp
	err error
}

// NewChecker constructs a checker using DefaultMessage unless overridden.
func NewChecker(options ...Option) *Checker {
	c := &Checker{
		messages: DefaultMessage,
		patterns: make(map[string]patternResult),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

var defaultChecker = NewChecker()

// Check validates value against rule with the default checker.
func Check(rule Rule, value any) []string {
	return defaultChecker.Check(rule, value)
}

// CheckAll validates every rule with the default checker.
func CheckAll(rules []Rule, values map[string]any, visible func(fieldID string) bool) map[string][]string {
	return defaultChecker.CheckAll(rules, values, visible)
}

// CheckAll validates each rule against values[rule.Field]. Rules whose field
// is hidden according to visible are skipped; a nil visible treats every
// field as shown. Only failing fields appear in the result.
func (c *Checker) CheckAll(rules []Rule, values map[string]any, visible func(fieldID string) bool) map[string][]string {
	out := make(map[string][]string)
	for _, rule := range rules {
		if visible != nil && !visible(rule.Field) {
			continue
		}
		if failures := c.Check(rule, values[rule.Field]); len(failures) > 0 {
			out[rule.Field] = failures
		}
	}
	return out
}

// Check returns the failure messages for value, or nil when it passes. Empty
// input (nil, "" or an empty list) fails only when the rule is required. A
// malformed pattern is reported as a failure rather than an error.
func (c *Checker) Check(rule Rule, value any) []string {
	f := &failures{}
	switch rule.Base {
	case BaseNumber:
		c.checkNumber(rule, value, f)
	case BaseEnum:
		c.checkEnum(rule, value, f)
	case BaseBoolean:
		c.checkBoolean(rule, value, f)
	case BaseAny:
		if isEmpty(value) && rule.Required {
			f.add(c.msg(MsgRequired, nil))
		}
	default:
		c.checkString(rule, value, f)
	}
	return f.list
}

func (c *Checker) checkString(rule Rule, value any, f *failures) {
	if isEmpty(value) {
		if rule.Required {
			f.add(c.msg(MsgRequired, nil))
		}
		return
	}
	text := stringValue(value)
	length := float64(utf8.RuneCountInString(text))

	for _, constraint := range rule.Constraints {
		switch constraint.Kind {
		case ConstraintMinLength:
			if constraint.Value != nil && length < *constraint.Value {
				f.add(c.constraintMsg(rule, MsgMinLength, *constraint.Value))
			}
		case ConstraintMaxLength:
			if constraint.Value != nil && length > *constraint.Value {
				f.add(c.constraintMsg(rule, MsgMaxLength, *constraint.Value))
			}
		case ConstraintPattern:
			re, err := c.compile(constraint.Pattern)
			if err != nil {
				f.add(c.msg(MsgBadPattern, map[string]any{"Error": err.Error()}))
				continue
			}
			if !re.MatchString(text) {
				if rule.Message != "" {
					f.add(rule.Message)
				} else {
					f.add(c.msg(MsgPattern, nil))
				}
			}
		}
	}

	switch rule.Format {
	case FormatEmail:
		if !validEmail(text) {
			f.add(c.msg(MsgEmail, nil))
		}
	case FormatURL:
		if !validURL(text) {
			f.add(c.msg(MsgURL, nil))
		}
	}
}

func (c *Checker) checkNumber(rule Rule, value any, f *failures) {
	if isEmpty(value) {
		if rule.Required {
			f.add(c.msg(MsgRequired, nil))
		}
		return
	}
	n, ok := numberValue(value)
	if !ok {
		f.add(c.msg(MsgNumber, nil))
		return
	}
	for _, constraint := range rule.Constraints {
		if constraint.Value == nil {
			continue
		}
		switch constraint.Kind {
		case ConstraintMin:
			if n < *constraint.Value {
				f.add(c.constraintMsg(rule, MsgMin, *constraint.Value))
			}
		case ConstraintMax:
			if n > *constraint.Value {
				f.add(c.constraintMsg(rule, MsgMax, *constraint.Value))
			}
		}
	}
}

func (c *Checker) checkEnum(rule Rule, value any, f *failures) {
	if isEmpty(value) {
		if rule.Required {
			f.add(c.msg(MsgRequired, nil))
		}
		return
	}
	choice := stringValue(value)
	for _, option := range rule.Enum {
		if option == choice {
			return
		}
	}
	f.add(c.msg(MsgOption, nil))
}

func (c *Checker) checkBoolean(rule Rule, value any, f *failures) {
	var checked bool
	switch v := value.(type) {
	case nil:
	case bool:
		checked = v
	case string:
		switch v {
		case "", "false", "off":
		case "true", "on":
			checked = true
		default:
			f.add(c.msg(MsgBoolean, nil))
			return
		}
	default:
		f.add(c.msg(MsgBoolean, nil))
		return
	}
	if rule.Required && !checked {
		f.add(c.msg(MsgRequired, nil))
	}
}

func (c *Checker) compile(pattern string) (*regexp.Regexp, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.patterns[pattern]; ok {
		return cached.re, cached.err
	}
	re, err := regexp.Compile(pattern)
	c.patterns[pattern] = patternResult{re: re, err: err}
	return re, err
}

func (c *Checker) msg(id string, data map[string]any) string {
	return c.messages(id, data)
}

func (c *Checker) constraintMsg(rule Rule, id string, limit float64) string {
	if rule.Message != "" {
		return rule.Message
	}
	return c.msg(id, map[string]any{"Limit": FormatNumber(limit)})
}

// FormatNumber renders a bound in its shortest decimal form.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type failures struct {
	list []string
}

func (f *failures) add(msg string) {
	for _, existing := range f.list {
		if existing == msg {
			return
		}
	}
	f.list = append(f.list, msg)
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	}
	return false
}

func stringValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return FormatNumber(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	n, ok := numberValue(value)
	if ok {
		return FormatNumber(n)
	}
	return ""
}

func numberValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v)
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func validEmail(text string) bool {
	addr, err := mail.ParseAddress(text)
	return err == nil && addr.Address == text && strings.Contains(text, "@")
}

func validURL(text string) bool {
	u, err := url.Parse(text)
	return err == nil && u.Scheme != "" && (u.Host != "" || u.Opaque != "")
}
