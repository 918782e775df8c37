package token

import "testing"

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident    string
		expected TokenType
	}{
		{"LET", LET},
		{"PRINT", PRINT},
		{"GOSUB", GOSUB},
		{"END", STOP},
		{"STOP", STOP},
		{"MOD", MODULO},
		{"CHR$", CHR},
		{"MID$", MID},
		{"IFF", TERNARY},
		{"IF$", TERNARY},
		{"RENUM", RENUM},
		{"AND", AND},
		{"PI", PI},
		{"I", NAME},
		{"COUNT", NAME},
		{"A$", NAME},
		{"X_1", NAME},
	}

	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			if got := LookupIdent(tt.ident); got != tt.expected {
				t.Errorf("LookupIdent(%q) = %v, want %v", tt.ident, got, tt.expected)
			}
		})
	}
}

func TestLookupOperator(t *testing.T) {
	tests := []struct {
		op       string
		expected TokenType
		ok       bool
	}{
		{"=", ASSIGNOP, true},
		{"<>", NOTEQUAL, true},
		{"!=", NOTEQUAL, true},
		{"<=", LESSEQUAL, true},
		{">=", GREATEQUAL, true},
		{"<", LESSER, true},
		{">", GREATER, true},
		{"%", MODULO, true},
		{"#", HASH, true},
		{";", SEMICOLON, true},
		{"&", ILLEGAL, false},
		{"==", ILLEGAL, false},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			got, ok := LookupOperator(tt.op)
			if ok != tt.ok {
				t.Fatalf("LookupOperator(%q) ok = %v, want %v", tt.op, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("LookupOperator(%q) = %v, want %v", tt.op, got, tt.expected)
			}
		})
	}
}

func TestTokenTypePredicates(t *testing.T) {
	tests := []struct {
		name       string
		tt         TokenType
		isLiteral  bool
		isKeyword  bool
		isFunction bool
		isOperator bool
	}{
		{"UNSIGNEDINT", UNSIGNEDINT, true, false, false, false},
		{"STRING", STRING, true, false, false, false},
		{"NAME", NAME, true, false, false, false},
		{"FOR", FOR, false, true, false, false},
		{"AND", AND, false, true, false, false},
		{"SQR", SQR, false, true, true, false},
		{"TAB", TAB, false, true, true, false},
		{"ASSIGNOP", ASSIGNOP, false, false, false, true},
		{"COLON", COLON, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tt.IsLiteral(); got != tt.isLiteral {
				t.Errorf("IsLiteral() = %v, want %v", got, tt.isLiteral)
			}
			if got := tt.tt.IsKeyword(); got != tt.isKeyword {
				t.Errorf("IsKeyword() = %v, want %v", got, tt.isKeyword)
			}
			if got := tt.tt.IsFunction(); got != tt.isFunction {
				t.Errorf("IsFunction() = %v, want %v", got, tt.isFunction)
			}
			if got := tt.tt.IsOperator(); got != tt.isOperator {
				t.Errorf("IsOperator() = %v, want %v", got, tt.isOperator)
			}
		})
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		name     string
		token    Token
		expected string
	}{
		{"name token", New(NAME, "I", 4), `NAME("I") at 4`},
		{"keyword", New(PRINT, "PRINT", 0), `PRINT("PRINT") at 0`},
		{"eof", New(EOF, "", 10), "EOF at 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}
