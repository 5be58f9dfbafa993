package capture

import (
	"strings"
)

// Masker hides a single wire token.
type Masker interface {
	Mask(token string) string
}

// keepFirstMasker masks everything but the first character: Hero -> H***
type keepFirstMasker struct{}

// KeepFirst returns a masker that keeps the first character of a token and
// replaces the rest with asterisks of the same length.
func KeepFirst() Masker {
	return keepFirstMasker{}
}

func (keepFirstMasker) Mask(token string) string {
	r := []rune(token)
	if len(r) <= 1 {
		return "*"
	}
	return string(r[0]) + strings.Repeat("*", len(r)-1)
}

// replaceMasker swaps the whole token for a fixed value.
type replaceMasker struct {
	with string
}

// Replace returns a masker that substitutes every token with s. s must not
// contain a space.
func Replace(s string) Masker {
	return replaceMasker{with: s}
}

func (m replaceMasker) Mask(string) string {
	return m.with
}

// Redactor masks tokens of captured lines by header and position. Positions
// count the space separated tokens after the header, so a rule only lines up
// with a field when every field before it is a single token.
type Redactor struct {
	rules map[string]map[int]Masker
}

// NewRedactor returns a redactor without rules.
func NewRedactor() *Redactor {
	return &Redactor{rules: make(map[string]map[int]Masker)}
}

// DefaultRedactor hides the account name and the session salt of twk.
func DefaultRedactor() *Redactor {
	return NewRedactor().
		Mask("twk", 2, KeepFirst()).
		Mask("twk", 4, Replace("***"))
}

// Mask adds a rule and returns r for chaining.
func (r *Redactor) Mask(header string, position int, m Masker) *Redactor {
	fields, ok := r.rules[header]
	if !ok {
		fields = make(map[int]Masker)
		r.rules[header] = fields
	}
	fields[position] = m
	return r
}

// Redact applies the rules for the line's header. Lines without rules are
// returned unchanged.
func (r *Redactor) Redact(line string) string {
	header, rest, _ := strings.Cut(line, " ")
	fields, ok := r.rules[header]
	if !ok || rest == "" {
		return line
	}

	tokens := strings.Split(rest, " ")
	changed := false
	for pos, m := range fields {
		if pos < 0 || pos >= len(tokens) || tokens[pos] == "" {
			continue
		}
		tokens[pos] = m.Mask(tokens[pos])
		changed = true
	}
	if !changed {
		return line
	}
	return header + " " + strings.Join(tokens, " ")
}

// Redacting wraps rr so every record is redacted before it is returned.
// Fingerprints are computed over the redacted line.
func Redacting(rr RecordReader, r *Redactor) RecordReader {
	return &redactingReader{next: rr, redactor: r}
}

type redactingReader struct {
	next     RecordReader
	redactor *Redactor
}

func (rr *redactingReader) Next() (Record, error) {
	rec, err := rr.next.Next()
	if err != nil {
		return rec, err
	}
	return NewRecord(rec.Seq, rec.Source, rr.redactor.Redact(rec.Line)), nil
}
