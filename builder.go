package nosline

import (
	"strconv"
)

type builderLevel struct {
	separator byte
	once      byte
	prepared  byte
}

// Builder writes a line token by token using the same level model as the
// Enumerator. The separator between two tokens is decided when the second
// token is written, so popping a level can swap in the parent separator.
//
// A Builder is created per packet and must not be shared between goroutines.
type Builder struct {
	buf     []byte
	levels  []builderLevel
	pending byte
}

// NewBuilder creates a builder whose top level is separated by spaces.
func NewBuilder() *Builder {
	return NewBuilderSize(64)
}

// NewBuilderSize creates a builder with an initial buffer capacity.
func NewBuilderSize(size int) *Builder {
	b := &Builder{
		buf:    make([]byte, 0, size),
		levels: make([]builderLevel, 1, 4),
	}
	b.levels[0] = builderLevel{separator: ' '}
	return b
}

func (b *Builder) current() *builderLevel {
	return &b.levels[len(b.levels)-1]
}

// Depth returns the number of levels pushed on top of the top level.
func (b *Builder) Depth() int {
	return len(b.levels) - 1
}

// SetAfterSeparatorOnce uses c instead of the level separator after the next token.
func (b *Builder) SetAfterSeparatorOnce(c byte) {
	b.current().once = c
}

// PushLevel starts a nested level separated by sep.
func (b *Builder) PushLevel(sep byte) {
	b.levels = append(b.levels, builderLevel{separator: sep})
}

// PrepareLevel stores a separator for PushPreparedLevel.
func (b *Builder) PrepareLevel(sep byte) {
	b.current().prepared = sep
}

// RemovePreparedLevel forgets the prepared separator.
func (b *Builder) RemovePreparedLevel() {
	b.current().prepared = 0
}

// PushPreparedLevel starts a level with the prepared separator.
// It returns false when nothing was prepared.
func (b *Builder) PushPreparedLevel() bool {
	sep := b.current().prepared
	if sep == 0 {
		return false
	}
	b.PushLevel(sep)
	return true
}

// PopLevel returns to the parent level. A separator waiting to be written is
// replaced by the parent level separator.
func (b *Builder) PopLevel() error {
	if len(b.levels) == 1 {
		return newTokenizationError(ErrLevelUnderflow, len(b.buf), false)
	}
	parent := &b.levels[len(b.levels)-2]
	if b.pending != 0 {
		b.pending = parent.separator
		if parent.once != 0 {
			b.pending = parent.once
			parent.once = 0
		}
	}
	b.levels = b.levels[:len(b.levels)-1]
	return nil
}

func (b *Builder) beforeAppend() {
	if b.pending != 0 {
		b.buf = append(b.buf, b.pending)
		b.pending = 0
	}
}

func (b *Builder) afterAppend() {
	lvl := b.current()
	b.pending = lvl.separator
	if lvl.once != 0 {
		b.pending = lvl.once
		lvl.once = 0
	}
}

// Append writes s as a single token.
func (b *Builder) Append(s string) {
	b.beforeAppend()
	b.buf = append(b.buf, s...)
	b.afterAppend()
}

// AppendInt writes a signed integer token.
func (b *Builder) AppendInt(v int64) {
	b.beforeAppend()
	b.buf = strconv.AppendInt(b.buf, v, 10)
	b.afterAppend()
}

// AppendUint writes an unsigned integer token.
func (b *Builder) AppendUint(v uint64) {
	b.beforeAppend()
	b.buf = strconv.AppendUint(b.buf, v, 10)
	b.afterAppend()
}

// AppendFloat writes a floating point token in the shortest form that parses
// back to the same value.
func (b *Builder) AppendFloat(v float64, bitSize int) {
	b.beforeAppend()
	b.buf = strconv.AppendFloat(b.buf, v, 'f', -1, bitSize)
	b.afterAppend()
}

// AppendBool writes 1 or 0.
func (b *Builder) AppendBool(v bool) {
	if v {
		b.Append("1")
		return
	}
	b.Append("0")
}

// Len returns the number of bytes written so far.
func (b *Builder) Len() int {
	return len(b.buf)
}

// String returns the line written so far. A trailing separator is never included.
func (b *Builder) String() string {
	return string(b.buf)
}
