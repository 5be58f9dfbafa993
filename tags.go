package nosline

import (
	"fmt"
	"strconv"
	"strings"
)

// TagName is the struct tag read when packets are registered.
const TagName = "nos"

// Option names accepted in the nos tag.
const (
	OptOptional = "optional"
	OptGreedy   = "greedy"
	OptInner    = "inner"
	OptAfter    = "after"
	OptList     = "list"
	OptSep      = "sep"
	OptElem     = "elem"
	OptLen      = "len"
	OptCount    = "count"
	OptIf       = "if"
	OptUnless   = "unless"
	OptNull     = "null"
	OptEmpty    = "empty"
)

// separatorNames maps readable names to separator bytes for use in tags.
var separatorNames = map[string]byte{
	"space": ' ',
	"comma": ',',
	"pipe":  '|',
	"dot":   '.',
	"colon": ':',
	"caret": '^',
	"minus": '-',
	"hash":  '#',
}

// validOptions contains every option accepted in the nos tag.
var validOptions = map[string]bool{
	OptOptional: true,
	OptGreedy:   true,
	OptInner:    true,
	OptAfter:    true,
	OptList:     true,
	OptSep:      true,
	OptElem:     true,
	OptLen:      true,
	OptCount:    true,
	OptIf:       true,
	OptUnless:   true,
	OptNull:     true,
	OptEmpty:    true,
}

// IsValidOption returns true if name is a known nos tag option.
func IsValidOption(name string) bool {
	return validOptions[name]
}

// ParseSeparator converts a tag value into a separator byte. It accepts a
// single character or one of the names space, comma, pipe, dot, colon, caret,
// minus and hash.
func ParseSeparator(s string) (byte, error) {
	if c, ok := separatorNames[s]; ok {
		return c, nil
	}
	if len(s) == 1 && s[0] > ' ' && s[0] < 0x7f && s[0] != ',' {
		return s[0], nil
	}
	return 0, fmt.Errorf("invalid separator %q", s)
}

// fieldTag is the parsed form of a nos tag.
type fieldTag struct {
	index    int
	optional bool
	greedy   bool
	inner    byte
	after    byte
	list     bool
	sep      byte
	elem     byte
	length   int
	count    string
	cond     *Condition
	null     string
	hasNull  bool
	empty    int
}

// parseTag parses `<index>[,option...]`.
func parseTag(raw string) (fieldTag, error) {
	parts := strings.Split(raw, ",")
	index, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || index < 0 {
		return fieldTag{}, fmt.Errorf("invalid index %q", parts[0])
	}
	tag := fieldTag{index: index}

	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		name, value, hasValue := strings.Cut(part, "=")
		if !IsValidOption(name) {
			return fieldTag{}, fmt.Errorf("unknown option %q", name)
		}

		switch name {
		case OptOptional:
			tag.optional = true
		case OptGreedy:
			tag.greedy = true
		case OptList:
			tag.list = true
		case OptInner, OptAfter, OptSep, OptElem:
			c, err := ParseSeparator(value)
			if err != nil {
				return fieldTag{}, fmt.Errorf("%s: %w", name, err)
			}
			switch name {
			case OptInner:
				tag.inner = c
			case OptAfter:
				tag.after = c
			case OptSep:
				tag.sep = c
			default:
				tag.elem = c
			}
		case OptLen:
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return fieldTag{}, fmt.Errorf("invalid len %q", value)
			}
			tag.length = n
		case OptEmpty:
			tag.empty = 1
			if hasValue {
				n, err := strconv.Atoi(value)
				if err != nil || n <= 0 {
					return fieldTag{}, fmt.Errorf("invalid empty count %q", value)
				}
				tag.empty = n
			}
		case OptCount:
			if value == "" {
				return fieldTag{}, fmt.Errorf("count needs a field name")
			}
			tag.count = value
		case OptIf, OptUnless:
			if tag.cond != nil {
				return fieldTag{}, fmt.Errorf("only one of if and unless may be set")
			}
			cond, err := parseCondition(value, name == OptUnless)
			if err != nil {
				return fieldTag{}, err
			}
			tag.cond = cond
		case OptNull:
			if value == "" {
				return fieldTag{}, fmt.Errorf("null needs a symbol")
			}
			tag.null = value
			tag.hasNull = true
		}

		if !hasValue && requiresValue(name) {
			return fieldTag{}, fmt.Errorf("option %q needs a value", name)
		}
	}
	return tag, nil
}

func requiresValue(name string) bool {
	switch name {
	case OptInner, OptAfter, OptSep, OptElem, OptLen, OptCount, OptIf, OptUnless, OptNull:
		return true
	}
	return false
}

// parseCondition parses `Field:v1|v2`.
func parseCondition(value string, negate bool) (*Condition, error) {
	field, values, ok := strings.Cut(value, ":")
	if !ok || field == "" || values == "" {
		return nil, fmt.Errorf("invalid condition %q, want Field:value", value)
	}
	return &Condition{
		Field:  field,
		Values: strings.Split(values, "|"),
		Negate: negate,
	}, nil
}
