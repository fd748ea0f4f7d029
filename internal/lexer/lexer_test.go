package lexer

import (
	"testing"

	"pl241/internal/token"
)

func TestKeywordsAndIdentifiers(t *testing.T) {
	tests := []struct {
		src  string
		want token.Type
	}{
		{"main", token.MAIN},
		{"var", token.VAR},
		{"let", token.LET},
		{"call", token.CALL},
		{"if", token.IF},
		{"fi", token.FI},
		{"then", token.THEN},
		{"else", token.ELSE},
		{"while", token.WHILE},
		{"do", token.DO},
		{"od", token.OD},
		{"void", token.VOID},
		{"function", token.FUNCTION},
		{"return", token.RETURN},
		{"x", token.IDENT},
		{"foo123", token.IDENT},
	}

	for _, tt := range tests {
		l := New([]byte(tt.src))
		tok := l.Next()
		if tok.Type != tt.want {
			t.Errorf("Next(%q) = %v, want %v", tt.src, tok.Type, tt.want)
		}
	}
}

func TestIdentifierInterning(t *testing.T) {
	l := New([]byte("foo bar foo"))

	first := l.Next()
	if first.Type != token.IDENT {
		t.Fatalf("expected IDENT, got %v", first.Type)
	}

	second := l.Next()
	if second.Type != token.IDENT {
		t.Fatalf("expected IDENT, got %v", second.Type)
	}
	if second.Ident == first.Ident {
		t.Fatalf("bar should intern to a different id than foo")
	}

	third := l.Next()
	if third.Ident != first.Ident {
		t.Errorf("second occurrence of foo should reuse id %d, got %d", first.Ident, third.Ident)
	}
}

func TestPredefinedIdentsPreinterned(t *testing.T) {
	l := New([]byte("InputNum OutputNum OutputNewLine"))

	in := l.Next()
	out := l.Next()
	nl := l.Next()

	if in.Ident != token.InputNumID {
		t.Errorf("InputNum = %d, want %d", in.Ident, token.InputNumID)
	}
	if out.Ident != token.OutputNumID {
		t.Errorf("OutputNum = %d, want %d", out.Ident, token.OutputNumID)
	}
	if nl.Ident != token.OutputNewLineID {
		t.Errorf("OutputNewLine = %d, want %d", nl.Ident, token.OutputNewLineID)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"0", 0},
		{"7", 7},
		{"42", 42},
		{"1000000", 1000000},
	}

	for _, tt := range tests {
		l := New([]byte(tt.src))
		tok := l.Next()
		if tok.Type != token.NUMBER {
			t.Fatalf("Next(%q) type = %v, want NUMBER", tt.src, tok.Type)
		}
		if tok.Num != tt.want {
			t.Errorf("Next(%q) = %d, want %d", tt.src, tok.Num, tt.want)
		}
	}
}

func TestOperatorsAndPunctuation(t *testing.T) {
	tests := []struct {
		src  string
		want token.Type
	}{
		{"+", token.PLUS},
		{"-", token.MINUS},
		{"*", token.STAR},
		{"/", token.SLASH},
		{"==", token.EQ},
		{"!=", token.NEQ},
		{"<", token.LT},
		{"<=", token.LE},
		{">", token.GT},
		{">=", token.GE},
		{"<-", token.ARROW},
		{",", token.COMMA},
		{";", token.SEMICOLON},
		{".", token.PERIOD},
		{"(", token.LPAREN},
		{")", token.RPAREN},
		{"{", token.LBRACE},
		{"}", token.RBRACE},
	}

	for _, tt := range tests {
		l := New([]byte(tt.src))
		tok := l.Next()
		if tok.Type != tt.want {
			t.Errorf("Next(%q) = %v, want %v", tt.src, tok.Type, tt.want)
		}
	}
}

func TestLessDisambiguation(t *testing.T) {
	l := New([]byte("< <- <= <"))

	if tok := l.Next(); tok.Type != token.LT {
		t.Errorf("first token = %v, want LT", tok.Type)
	}
	if tok := l.Next(); tok.Type != token.ARROW {
		t.Errorf("second token = %v, want ARROW", tok.Type)
	}
	if tok := l.Next(); tok.Type != token.LE {
		t.Errorf("third token = %v, want LE", tok.Type)
	}
	if tok := l.Next(); tok.Type != token.LT {
		t.Errorf("fourth token = %v, want LT", tok.Type)
	}
}

func TestWhitespaceAndEOF(t *testing.T) {
	l := New([]byte("  \n  x  \n  "))

	tok := l.Next()
	if tok.Type != token.IDENT {
		t.Fatalf("expected IDENT after leading whitespace, got %v", tok.Type)
	}

	eof := l.Next()
	if eof.Type != token.EOF {
		t.Errorf("expected EOF, got %v", eof.Type)
	}
}

func TestEmptySourceIsEOF(t *testing.T) {
	l := New([]byte(""))
	tok := l.Next()
	if tok.Type != token.EOF {
		t.Errorf("empty source should scan as EOF, got %v", tok.Type)
	}
}

func TestUnrecognizedByteScansAsEOF(t *testing.T) {
	l := New([]byte("$"))
	tok := l.Next()
	if tok.Type != token.EOF {
		t.Errorf("unrecognized byte should scan as EOF, got %v", tok.Type)
	}
}

func TestIllegalEqualAndBang(t *testing.T) {
	tests := []string{"=", "!"}
	for _, src := range tests {
		l := New([]byte(src))
		tok := l.Next()
		if tok.Type != token.ILLEGAL {
			t.Errorf("Next(%q) = %v, want ILLEGAL", src, tok.Type)
		}
	}
}

func TestPositionTracking(t *testing.T) {
	l := New([]byte("x\ny"))

	first := l.Next()
	if first.Pos.Line != 1 || first.Pos.Column != 1 {
		t.Errorf("first token pos = %+v, want line 1 column 1", first.Pos)
	}

	second := l.Next()
	if second.Pos.Line != 2 || second.Pos.Column != 1 {
		t.Errorf("second token pos = %+v, want line 2 column 1", second.Pos)
	}
}

func TestIdentsReturnsInternTable(t *testing.T) {
	l := New([]byte("foo bar"))
	l.Next()
	l.Next()

	idents := l.Idents()
	if len(idents) != token.PredefinedIdents+2 {
		t.Fatalf("Idents() len = %d, want %d", len(idents), token.PredefinedIdents+2)
	}
	if idents[token.PredefinedIdents] != "foo" {
		t.Errorf("Idents()[%d] = %q, want foo", token.PredefinedIdents, idents[token.PredefinedIdents])
	}
	if idents[token.PredefinedIdents+1] != "bar" {
		t.Errorf("Idents()[%d] = %q, want bar", token.PredefinedIdents+1, idents[token.PredefinedIdents+1])
	}
}
