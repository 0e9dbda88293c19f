package tokenizer

import (
	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// NewTokenizer creates a tokenizer for exported sheet text.
// Matchers are tried in order of specificity:
//  1. Row break (CR LF only)
//  2. Comma
//  3. Double quote
//  4. A lone CR, which is field content
//  5. Field content (any run of characters other than comma, quote, CR)
//
// A lone LF is not a row break. Sheet exports terminate rows with CR LF, so
// an LF-only file tokenizes as a single row.
func NewTokenizer() tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(
		tokenizer.StringMatcherFunc(TokenRowBreak, "\r\n"),
		tokenizer.StringMatcherFunc(TokenComma, ","),
		tokenizer.StringMatcherFunc(TokenDQuote, `"`),
		tokenizer.StringMatcherFunc(TokenField, "\r"),
		FieldContentMatcher(),
	)
}

// NewTokenizerWithStream creates a tokenizer using a pre-configured stream.
// This is used to tokenize text read from an io.Reader.
func NewTokenizerWithStream(stream tokenizer.Stream) tokenizer.Tokenizer {
	tok := NewTokenizer()
	tok.InitializeFromStream(stream)
	return tok
}

// FieldContentMatcher matches runs of characters that are not a comma,
// a double quote or a CR.
//
// Grammar:
//
//	Field = Character+ ;
//	Character = <any character except ',', '"', CR> ;
//
// LF is deliberately part of Character.
func FieldContentMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		if byteStream, ok := stream.(tokenizer.ByteStream); ok {
			return fieldContentMatcherByte(byteStream)
		}
		return fieldContentMatcherRune(stream)
	}
}

func isFieldStop(r rune) bool {
	return r == ',' || r == '"' || r == '\r'
}

// fieldContentMatcherByte scans ASCII delimiters directly on a ByteStream.
func fieldContentMatcherByte(stream tokenizer.ByteStream) *tokenizer.Token {
	startPos := stream.BytePosition()

	for {
		b, ok := stream.PeekByte()
		if !ok || isFieldStop(rune(b)) {
			break
		}
		stream.NextByte()
	}

	if stream.BytePosition() == startPos {
		return nil
	}

	value := stream.SliceFrom(startPos)
	return tokenizer.NewToken(TokenField, []rune(string(value)))
}

func fieldContentMatcherRune(stream tokenizer.Stream) *tokenizer.Token {
	var value []rune

	for {
		r, ok := stream.PeekChar()
		if !ok || isFieldStop(r) {
			break
		}
		stream.NextChar()
		value = append(value, r)
	}

	if len(value) == 0 {
		return nil
	}

	return tokenizer.NewToken(TokenField, value)
}
