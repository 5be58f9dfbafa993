package nosline

import (
	"errors"
	"strconv"
	"testing"
)

func mustNext(t *testing.T, e *Enumerator) Token {
	t.Helper()
	tok, err := e.NextToken()
	if err != nil {
		t.Fatalf("NextToken() error: %v", err)
	}
	return tok
}

func assertLast(t *testing.T, tok Token, wantLast, wantUpper bool) {
	t.Helper()
	last, known := tok.IsLast()
	if !known {
		t.Fatalf("token %q: IsLast unknown", tok.Value)
	}
	if last != wantLast {
		t.Errorf("token %q: IsLast = %v, want %v", tok.Value, last, wantLast)
	}
	upper, known := tok.EncounteredUpperLevel()
	if !known {
		t.Fatalf("token %q: EncounteredUpperLevel unknown", tok.Value)
	}
	if upper != wantUpper {
		t.Errorf("token %q: EncounteredUpperLevel = %v, want %v", tok.Value, upper, wantUpper)
	}
}

func assertLevelEnded(t *testing.T, e *Enumerator) {
	t.Helper()
	last, known := e.IsOnLastToken()
	if !known || !last {
		t.Errorf("IsOnLastToken() = (%v, %v), want (true, true)", last, known)
	}
}

func TestEnumerator_NestedList(t *testing.T) {
	e := NewEnumerator("in 1 11.12.13|14.15.16|17.18.19")

	header := mustNext(t, e)
	if header.Value != "in" || header.PacketEnd {
		t.Fatalf("header = %+v", header)
	}
	assertLast(t, header, false, false)
	assertLast(t, mustNext(t, e), false, false)

	e.PushLevel('|')
	e.PrepareLevel('.', -1)

	for i := 0; i < 3; i++ {
		if !e.PushPreparedLevel() {
			t.Fatal("PushPreparedLevel() = false")
		}
		for j := 0; j < 3; j++ {
			tok := mustNext(t, e)
			if want := strconv.Itoa(j + i*3 + 11); tok.Value != want {
				t.Errorf("token = %q, want %q", tok.Value, want)
			}
			assertLast(t, tok, j == 2, j == 2 && i == 2)
		}
		assertLevelEnded(t, e)
		if err := e.PopLevel(); err != nil {
			t.Fatalf("PopLevel() error: %v", err)
		}
	}

	assertLevelEnded(t, e)
	if err := e.PopLevel(); err != nil {
		t.Fatalf("PopLevel() error: %v", err)
	}
	assertLevelEnded(t, e)
}

func TestEnumerator_PacketEnd(t *testing.T) {
	e := NewEnumerator("in 1 2 3 4")
	for _, want := range []string{"in", "1", "2", "3", "4"} {
		if tok := mustNext(t, e); tok.Value != want {
			t.Errorf("token = %q, want %q", tok.Value, want)
		}
	}

	_, err := e.NextToken()
	if !errors.Is(err, ErrPacketEndReached) {
		t.Fatalf("expected ErrPacketEndReached, got %v", err)
	}
	var te *TokenizationError
	if !errors.As(err, &te) || te.LevelEnd {
		t.Errorf("expected line end, got %v", err)
	}
}

func TestEnumerator_LevelEnd(t *testing.T) {
	e := NewEnumerator("in 1|2.2|3.3|4.4|5")
	mustNext(t, e)

	e.PushLevel('.')
	e.PushLevel('|')

	mustNext(t, e)
	tok := mustNext(t, e)
	if tok.Value != "2" {
		t.Errorf("token = %q, want 2", tok.Value)
	}
	assertLast(t, tok, true, false)

	_, err := e.NextToken()
	var te *TokenizationError
	if !errors.As(err, &te) || !errors.Is(err, ErrPacketEndReached) {
		t.Fatalf("expected ErrPacketEndReached, got %v", err)
	}
	if !te.LevelEnd {
		t.Error("expected LevelEnd")
	}
}

func TestEnumerator_ListLength(t *testing.T) {
	e := NewEnumerator("in 1|2.2|3.3|4.4|5")
	mustNext(t, e)

	e.PushLevelN('.', 2)

	for item := 0; item < 2; item++ {
		e.PushLevel('|')
		mustNext(t, e)
		tok := mustNext(t, e)
		if last, known := tok.IsLast(); !known || !last {
			t.Errorf("item %d: second token should be last", item)
		}
		if err := e.PopLevel(); err != nil {
			t.Fatalf("PopLevel() error: %v", err)
		}
	}

	// The third item is out of reach.
	assertLevelEnded(t, e)
	e.PushLevel('|')
	_, err := e.NextToken()
	var te *TokenizationError
	if !errors.As(err, &te) || !errors.Is(err, ErrPacketEndReached) || !te.LevelEnd {
		t.Errorf("expected level end, got %v", err)
	}
}

func TestEnumerator_EncounteredUpperLevel(t *testing.T) {
	e := NewEnumerator("in 1|2 1")
	mustNext(t, e)

	e.PushLevel('.')
	e.PushLevel('|')

	mustNext(t, e)
	assertLast(t, mustNext(t, e), true, true)
}

func TestEnumerator_SharedSeparatorIsUnknown(t *testing.T) {
	e := NewEnumerator("x 1 2")
	mustNext(t, e)
	e.PushLevel(' ')

	tok := mustNext(t, e)
	if _, known := tok.IsLast(); known {
		t.Error("separator shared by both levels should leave IsLast unknown")
	}
	if _, known := e.IsOnLastToken(); known {
		t.Error("IsOnLastToken should be unknown")
	}
}

func TestEnumerator_SeparatorOfOuterLevel(t *testing.T) {
	// '|' and ' ' are both used twice, but ' ' is used by neither the
	// current nor the parent level, so it can only close an outer level.
	e := NewEnumerator("x 0|1 9")
	mustNext(t, e)
	e.PushLevel(' ')
	e.PushLevel('|')
	e.PushLevel('.')
	e.PushLevel('|')

	tok := mustNext(t, e)
	if _, known := tok.IsLast(); known {
		t.Error("'|' is the current separator and shared, IsLast should be unknown")
	}
	tok = mustNext(t, e)
	if tok.Value != "1" {
		t.Fatalf("token = %q, want 1", tok.Value)
	}
	assertLast(t, tok, true, true)
	assertLevelEnded(t, e)
}

func TestEnumerator_PeekToken(t *testing.T) {
	e := NewEnumerator("mv 3 122")
	mustNext(t, e)

	peeked, err := e.PeekToken()
	if err != nil {
		t.Fatalf("PeekToken() error: %v", err)
	}
	if peeked.Value != "3" {
		t.Errorf("PeekToken() = %q, want 3", peeked.Value)
	}
	if e.Offset() != 3 {
		t.Errorf("Offset() = %d after peek, want 3", e.Offset())
	}
	if tok := mustNext(t, e); tok.Value != "3" {
		t.Errorf("NextToken() = %q after peek, want 3", tok.Value)
	}
	if got := e.Remaining(); got != "122" {
		t.Errorf("Remaining() = %q, want 122", got)
	}
}

func TestEnumerator_ReadToLast(t *testing.T) {
	e := NewEnumerator("say hello there friend")
	mustNext(t, e)

	e.SetReadToLast()
	tok := mustNext(t, e)
	if tok.Value != "hello there friend" {
		t.Errorf("token = %q", tok.Value)
	}
	if !tok.PacketEnd {
		t.Error("expected PacketEnd")
	}
}

func TestEnumerator_AfterSeparatorOnce(t *testing.T) {
	e := NewEnumerator("x a:b c")
	mustNext(t, e)

	e.SetAfterSeparatorOnce(':')
	if tok := mustNext(t, e); tok.Value != "a" {
		t.Errorf("first token = %q, want a", tok.Value)
	}
	if tok := mustNext(t, e); tok.Value != "b" {
		t.Errorf("second token = %q, want b", tok.Value)
	}
	if tok := mustNext(t, e); tok.Value != "c" {
		t.Errorf("third token = %q, want c", tok.Value)
	}
}

func TestEnumerator_EmptyToken(t *testing.T) {
	e := NewEnumerator("clist 99  1")
	mustNext(t, e)
	mustNext(t, e)

	if !e.IsOnSeparator() {
		t.Fatal("IsOnSeparator() = false on a doubled separator")
	}
	if tok := mustNext(t, e); tok.Value != "" {
		t.Errorf("token = %q, want empty", tok.Value)
	}
	if e.IsOnSeparator() {
		t.Error("IsOnSeparator() = true before a value")
	}
	if tok := mustNext(t, e); tok.Value != "1" {
		t.Errorf("token = %q, want 1", tok.Value)
	}
}

func TestEnumerator_ReadTokens(t *testing.T) {
	e := NewEnumerator("x 1.2 3.4 5.6")
	mustNext(t, e)

	if err := e.IncrementReadTokens(); !errors.Is(err, ErrNoCapturedTokens) {
		t.Errorf("expected ErrNoCapturedTokens, got %v", err)
	}

	e.PushLevelN(' ', 2)
	e.PrepareLevel('.', -1)
	for i := 0; i < 2; i++ {
		e.CaptureReadTokens()
		e.PushPreparedLevel()
		mustNext(t, e)
		mustNext(t, e)
		if err := e.PopLevel(); err != nil {
			t.Fatal(err)
		}
		if err := e.IncrementReadTokens(); err != nil {
			t.Fatalf("IncrementReadTokens() error: %v", err)
		}
		if err := e.IncrementReadTokens(); !errors.Is(err, ErrNoCapturedTokens) {
			t.Fatalf("second IncrementReadTokens() = %v, want ErrNoCapturedTokens", err)
		}
	}
	assertLevelEnded(t, e)
	e.RemovePreparedLevel()
	if e.PushPreparedLevel() {
		t.Error("PushPreparedLevel() = true after RemovePreparedLevel")
	}
}

func TestEnumerator_PopUnderflow(t *testing.T) {
	e := NewEnumerator("x")
	if err := e.PopLevel(); !errors.Is(err, ErrLevelUnderflow) {
		t.Errorf("expected ErrLevelUnderflow, got %v", err)
	}
	e.PushLevel('.')
	if e.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", e.Depth())
	}
	if err := e.PopLevel(); err != nil {
		t.Errorf("PopLevel() error: %v", err)
	}
}

func TestEnumerator_TokenLimit(t *testing.T) {
	e := NewEnumerator("h 1 2 3")
	e.SetTokenLimit(2)
	mustNext(t, e)
	mustNext(t, e)

	if _, err := e.NextToken(); !errors.Is(err, ErrTokenLimit) {
		t.Errorf("expected ErrTokenLimit, got %v", err)
	}

	e.SetTokenLimit(0)
	if tok := mustNext(t, e); tok.Value != "2" {
		t.Errorf("token = %q after removing the limit", tok.Value)
	}
}

func TestEnumerator_ZeroLengthLevel(t *testing.T) {
	e := NewEnumerator("x 1 2")
	mustNext(t, e)
	e.PushLevelN(' ', 0)
	assertLevelEnded(t, e)
}
