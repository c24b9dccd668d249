package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestLex_KeywordsAndIdentifiers(t *testing.T) {
	assert := assert.New(t)

	s, errs := Lex("int x = 5;")
	assert.Empty(errs)

	assert.Equal([]Kind{KindInt, KindIdent, KindAssign, KindIntLit, KindSemi, EOF}, kinds(s.Tokens))
	assert.Equal("x", s.Tokens[1].Lexeme)
	assert.Equal("5", s.Tokens[3].Lexeme)
}

func TestLex_OperatorLongestMatch(t *testing.T) {
	assert := assert.New(t)

	s, errs := Lex("a <= b && c == d")
	assert.Empty(errs)

	assert.Equal([]Kind{KindIdent, KindLeq, KindIdent, KindAnd, KindIdent, KindEq, KindIdent, EOF}, kinds(s.Tokens))
}

func TestLex_FloatLiteral(t *testing.T) {
	assert := assert.New(t)

	s, errs := Lex("float f = 3.14;")
	assert.Empty(errs)

	var found bool
	for _, tok := range s.Tokens {
		if tok.Kind == KindFloatLit {
			found = true
			assert.Equal("3.14", tok.Lexeme)
		}
	}
	assert.True(found)
}

func TestLex_StringAndCharLiterals(t *testing.T) {
	assert := assert.New(t)

	s, errs := Lex(`string s = "hi"; char c = 'x';`)
	assert.Empty(errs)

	var sawString, sawChar bool
	for _, tok := range s.Tokens {
		if tok.Kind == KindStringLit {
			sawString = true
			assert.Equal("hi", tok.Lexeme)
		}
		if tok.Kind == KindCharLit {
			sawChar = true
			assert.Equal("x", tok.Lexeme)
		}
	}
	assert.True(sawString)
	assert.True(sawChar)
}

func TestLex_CommentsAreSkipped(t *testing.T) {
	assert := assert.New(t)

	s, errs := Lex("int x; // a comment\n/* block\ncomment */ int y;")
	assert.Empty(errs)

	assert.Equal([]Kind{KindInt, KindIdent, KindSemi, KindInt, KindIdent, KindSemi, EOF}, kinds(s.Tokens))
}

func TestLex_UnrecognizedCharacterIsError(t *testing.T) {
	assert := assert.New(t)

	s, errs := Lex("int x = 1 $ 2;")
	if assert.Len(errs, 1) {
		assert.Equal("$", errs[0].Lexeme)
	}

	var sawInvalid bool
	for _, tok := range s.Tokens {
		if tok.Kind == Invalid {
			sawInvalid = true
			assert.Equal("$", tok.Lexeme)
		}
	}
	assert.True(sawInvalid, "an Invalid token should be recorded for the offending region")
}

func TestLex_UnterminatedStringIsError(t *testing.T) {
	assert := assert.New(t)

	s, errs := Lex("string s = \"oops;")
	assert.Len(errs, 1)

	last := s.Tokens[len(s.Tokens)-2] // before the trailing EOF token
	assert.Equal(Invalid, last.Kind)
	assert.Equal("oops;", last.Lexeme)
}

func TestLex_UnterminatedCharIsError(t *testing.T) {
	assert := assert.New(t)

	s, errs := Lex("char c = 'x;")
	assert.Len(errs, 1)

	last := s.Tokens[len(s.Tokens)-2]
	assert.Equal(Invalid, last.Kind)
	assert.Equal("x;", last.Lexeme)
}

func TestLex_UnterminatedBlockCommentReportsExactlyOneError(t *testing.T) {
	assert := assert.New(t)

	_, errs := Lex("int x;\n/* this comment\nnever\ncloses")
	if assert.Len(errs, 1) {
		assert.Contains(errs[0].Message, "line 2")
	}
}

func TestLex_LeadingZeroDecimalIsInvalidOctal(t *testing.T) {
	assert := assert.New(t)

	s, errs := Lex("int x = 08;")
	assert.Len(errs, 1)

	var sawInvalid bool
	for _, tok := range s.Tokens {
		if tok.Kind == Invalid && tok.Lexeme == "08" {
			sawInvalid = true
		}
	}
	assert.True(sawInvalid)
}

func TestLex_ZeroAloneIsValidDecimal(t *testing.T) {
	assert := assert.New(t)

	s, errs := Lex("int x = 0;")
	assert.Empty(errs)

	var found bool
	for _, tok := range s.Tokens {
		if tok.Kind == KindIntLit {
			found = true
			assert.Equal("0", tok.Lexeme)
		}
	}
	assert.True(found)
}

func TestLex_HexPrefixWithNoDigitsIsInvalid(t *testing.T) {
	assert := assert.New(t)

	s, errs := Lex("int x = 0x;")
	assert.Len(errs, 1)

	var sawInvalid bool
	for _, tok := range s.Tokens {
		if tok.Kind == Invalid && tok.Lexeme == "0x" {
			sawInvalid = true
		}
	}
	assert.True(sawInvalid)
}

func TestLex_ValidHexLiteral(t *testing.T) {
	assert := assert.New(t)

	s, errs := Lex("int x = 0x1A;")
	assert.Empty(errs)

	var found bool
	for _, tok := range s.Tokens {
		if tok.Kind == KindIntLit && tok.Lexeme == "0x1A" {
			found = true
		}
	}
	assert.True(found)
}

func TestLex_MultipleDotsIsInvalidFloat(t *testing.T) {
	assert := assert.New(t)

	s, errs := Lex("float f = 1.2.3;")
	assert.Len(errs, 1)

	var sawInvalid bool
	for _, tok := range s.Tokens {
		if tok.Kind == Invalid && tok.Lexeme == "1.2.3" {
			sawInvalid = true
		}
	}
	assert.True(sawInvalid)
}

func TestLex_TrailingLettersInvalidatesNumericLiteral(t *testing.T) {
	assert := assert.New(t)

	s, errs := Lex("int x = 123abc;")
	assert.Len(errs, 1)

	var sawInvalid bool
	for _, tok := range s.Tokens {
		if tok.Kind == Invalid && tok.Lexeme == "123abc" {
			sawInvalid = true
		}
	}
	assert.True(sawInvalid, "the whole run should be absorbed into one invalid token, not split at the first letter")
}

func TestLex_IllegalOperatorRunIsOneError(t *testing.T) {
	assert := assert.New(t)

	s, errs := Lex("int x = a &|% b;")
	if assert.Len(errs, 1) {
		assert.Equal("&|%", errs[0].Lexeme)
		assert.Contains(errs[0].Message, "illegal operator")
	}

	var sawInvalid bool
	for _, tok := range s.Tokens {
		if tok.Kind == Invalid && tok.Lexeme == "&|%" {
			sawInvalid = true
		}
	}
	assert.True(sawInvalid)
}

func TestLex_AlwaysEndsInEOF(t *testing.T) {
	assert := assert.New(t)

	s, _ := Lex("")
	if assert.Len(s.Tokens, 1) {
		assert.Equal(EOF, s.Tokens[0].Kind)
	}
}

func TestStream_PeekAndNext(t *testing.T) {
	assert := assert.New(t)

	s, _ := Lex("int x;")
	assert.Equal(KindInt, s.Peek().Kind)
	assert.Equal(KindInt, s.Next().Kind)
	assert.Equal(KindIdent, s.Next().Kind)
	assert.Equal(KindSemi, s.Next().Kind)
	assert.Equal(EOF, s.Next().Kind)
	// further Next past EOF stays at EOF
	assert.Equal(EOF, s.Next().Kind)
}
