package nosline

// DefaultMaxTokensPerLevel bounds the tokens a single level may yield.
const DefaultMaxTokensPerLevel = 4096

// tristate is a boolean that may not be known yet.
type tristate uint8

const (
	unknown tristate = iota
	yes
	no
)

func tri(b bool) tristate {
	if b {
		return yes
	}
	return no
}

// Token is a single value read from a line.
type Token struct {
	// Value is the raw text between two separators.
	Value string

	// PacketEnd is true when the token ends the whole line.
	PacketEnd bool

	last  tristate
	upper tristate
}

// IsLast reports whether the token is the last one of its level.
// known is false when the separator that ended the token is shared by several
// levels and the answer depends on the schema.
func (t Token) IsLast() (last, known bool) {
	return t.last == yes, t.last != unknown
}

// EncounteredUpperLevel reports whether the token was ended by the separator of
// a level above the parent level.
func (t Token) EncounteredUpperLevel() (upper, known bool) {
	return t.upper == yes, t.upper != unknown
}

type enumLevel struct {
	separator  byte
	once       byte
	maxTokens  int // -1 when unbounded
	tokensRead int
	captured   int // -1 when nothing was captured
	reachedEnd tristate
	prepared   *preparedLevel
}

type preparedLevel struct {
	separator byte
	maxTokens int
}

type cachedToken struct {
	token Token
	end   int
}

// Enumerator walks a line token by token over a stack of levels, each level
// with its own separator.
//
// An Enumerator is created per line and must not be shared between goroutines.
type Enumerator struct {
	data       string
	cursor     int
	levels     []enumLevel
	separators [256]uint16
	cached     *cachedToken
	readToLast bool
	limit      int
}

// NewEnumerator creates an enumerator over line whose top level is separated
// by spaces.
func NewEnumerator(line string) *Enumerator {
	e := &Enumerator{
		data:   line,
		levels: make([]enumLevel, 1, 4),
		limit:  DefaultMaxTokensPerLevel,
	}
	e.levels[0] = enumLevel{
		separator:  ' ',
		maxTokens:  -1,
		captured:   -1,
		reachedEnd: no,
	}
	e.separators[' '] = 1
	return e
}

// SetTokenLimit changes the maximum number of tokens a level may yield.
// Zero or a negative value disables the bound.
func (e *Enumerator) SetTokenLimit(n int) {
	e.limit = n
}

// Depth returns the number of levels pushed on top of the top level.
func (e *Enumerator) Depth() int {
	return len(e.levels) - 1
}

// Offset returns the byte offset of the cursor.
func (e *Enumerator) Offset() int {
	return e.cursor
}

// Remaining returns the unread part of the line.
func (e *Enumerator) Remaining() string {
	if e.cursor >= len(e.data) {
		return ""
	}
	return e.data[e.cursor:]
}

func (e *Enumerator) current() *enumLevel {
	return &e.levels[len(e.levels)-1]
}

func (e *Enumerator) parent() *enumLevel {
	if len(e.levels) < 2 {
		return nil
	}
	return &e.levels[len(e.levels)-2]
}

// SetAfterSeparatorOnce makes c end the next token of the current level in
// addition to the level separator.
func (e *Enumerator) SetAfterSeparatorOnce(c byte) {
	e.cached = nil
	e.current().once = c
}

// SetReadToLast makes the next token run over separators that are known to
// belong to the current level.
func (e *Enumerator) SetReadToLast() {
	e.readToLast = true
}

// Skip moves the cursor forward by n bytes.
func (e *Enumerator) Skip(n int) {
	e.cached = nil
	e.cursor += n
}

// PushLevel starts a nested level separated by sep.
func (e *Enumerator) PushLevel(sep byte) {
	e.PushLevelN(sep, -1)
}

// PushLevelN starts a nested level separated by sep that ends after
// maxTokens tokens have been read in it. A negative maxTokens leaves the
// level unbounded.
func (e *Enumerator) PushLevelN(sep byte, maxTokens int) {
	inherited := e.current().reachedEnd
	if maxTokens == 0 {
		inherited = yes
	}
	e.levels = append(e.levels, enumLevel{
		separator:  sep,
		maxTokens:  maxTokens,
		captured:   -1,
		reachedEnd: inherited,
	})
	e.separators[sep]++
	e.cached = nil
}

// PrepareLevel stores a level for PushPreparedLevel to start later, used once
// per list element.
func (e *Enumerator) PrepareLevel(sep byte, maxTokens int) {
	e.current().prepared = &preparedLevel{separator: sep, maxTokens: maxTokens}
}

// PushPreparedLevel starts the level stored by PrepareLevel.
// It returns false when no level was prepared.
func (e *Enumerator) PushPreparedLevel() bool {
	p := e.current().prepared
	if p == nil {
		return false
	}
	e.PushLevelN(p.separator, p.maxTokens)
	return true
}

// RemovePreparedLevel forgets the level stored by PrepareLevel.
func (e *Enumerator) RemovePreparedLevel() {
	e.current().prepared = nil
}

// PopLevel returns to the parent level.
func (e *Enumerator) PopLevel() error {
	if len(e.levels) == 1 {
		return newTokenizationError(ErrLevelUnderflow, e.cursor, false)
	}
	e.separators[e.current().separator]--
	e.levels = e.levels[:len(e.levels)-1]
	e.cached = nil
	return nil
}

// CaptureReadTokens remembers how many tokens the current level has read.
func (e *Enumerator) CaptureReadTokens() {
	e.current().captured = e.current().tokensRead
}

// IncrementReadTokens sets the read count of the current level to the
// captured count plus one, so a nested element counts as exactly one token
// however many tokens it consumed. The capture is used up; the next call needs
// a new CaptureReadTokens.
func (e *Enumerator) IncrementReadTokens() error {
	lvl := e.current()
	if lvl.captured < 0 {
		return newTokenizationError(ErrNoCapturedTokens, e.cursor, false)
	}
	lvl.tokensRead = lvl.captured + 1
	lvl.captured = -1
	if lvl.maxTokens >= 0 && lvl.tokensRead >= lvl.maxTokens {
		lvl.reachedEnd = yes
	}
	return nil
}

// IsOnLastToken reports whether the current level has no more tokens.
// known is false when that cannot be told from the separators alone.
func (e *Enumerator) IsOnLastToken() (last, known bool) {
	if e.cursor >= len(e.data) {
		return true, true
	}
	r := e.current().reachedEnd
	return r == yes, r != unknown
}

// IsOnSeparator reports whether the cursor stands on a separator, which means
// the next token is empty.
func (e *Enumerator) IsOnSeparator() bool {
	if e.cursor >= len(e.data) {
		return false
	}
	ok, _, _ := e.isSeparator(e.data[e.cursor])
	return ok
}

// NextToken reads the next token of the current level and moves past it.
func (e *Enumerator) NextToken() (Token, error) {
	return e.getNextToken(true)
}

// PeekToken reads the next token of the current level without moving past it.
func (e *Enumerator) PeekToken() (Token, error) {
	return e.getNextToken(false)
}

func (e *Enumerator) getNextToken(seek bool) (Token, error) {
	if e.cached != nil {
		c := e.cached
		if seek {
			e.advance(c.token, c.end)
		}
		return c.token, nil
	}

	lvl := e.current()
	if e.cursor >= len(e.data) {
		return Token{}, newTokenizationError(ErrPacketEndReached, e.cursor, false)
	}
	if lvl.reachedEnd == yes {
		return Token{}, newTokenizationError(ErrPacketEndReached, e.cursor, true)
	}
	if e.limit > 0 && lvl.tokensRead >= e.limit {
		return Token{}, newTokenizationError(ErrTokenLimit, e.cursor, false)
	}

	start := e.cursor
	end := start
	last, upper := unknown, unknown
	for ; end < len(e.data); end++ {
		isSep, l, u := e.isSeparator(e.data[end])
		if !isSep {
			continue
		}
		if e.readToLast && l == no {
			continue
		}
		last, upper = l, u
		break
	}
	if end >= len(e.data) {
		last, upper = yes, yes
	}
	e.readToLast = false

	tok := Token{
		Value:     e.data[start:end],
		PacketEnd: end >= len(e.data),
		last:      last,
		upper:     upper,
	}
	if seek {
		e.advance(tok, end)
	} else {
		e.cached = &cachedToken{token: tok, end: end}
	}
	return tok, nil
}

func (e *Enumerator) advance(tok Token, end int) {
	e.updateLevels(tok)
	e.current().tokensRead++
	e.cached = nil
	e.cursor = end + 1
}

func (e *Enumerator) updateLevels(tok Token) {
	cur := e.current()
	if cur.reachedEnd != yes {
		cur.reachedEnd = tok.last
	}
	if p := e.parent(); p != nil {
		if tok.last == yes {
			p.tokensRead++
			if p.maxTokens >= 0 && p.tokensRead >= p.maxTokens {
				p.reachedEnd = yes
				cur.reachedEnd = yes
			}
		}
		if tok.upper == yes {
			p.reachedEnd = yes
			cur.reachedEnd = yes
		}
	}
	cur.once = 0
}

// isSeparator classifies c against the level stack. A separator used by
// exactly one level tells which level it closes. A separator shared by several
// levels is only conclusive when neither the current nor the parent level
// uses it, in which case it closes a level further up.
func (e *Enumerator) isSeparator(c byte) (bool, tristate, tristate) {
	cur := e.current()
	if cur.once != 0 && cur.once == c {
		return true, no, unknown
	}

	n := e.separators[c]
	if n == 0 {
		return false, unknown, unknown
	}

	p := e.parent()
	isParent := p != nil && p.separator == c
	isCurrent := cur.separator == c

	if n == 1 {
		switch {
		case isParent:
			return true, yes, no
		case isCurrent:
			return true, no, no
		default:
			return true, yes, yes
		}
	}

	if !isParent && !isCurrent {
		return true, yes, yes
	}
	return true, unknown, unknown
}
