// Package parser implements LL(1) recursive descent parsing of exported sheet text.
// Each production rule of the row grammar corresponds to a parse function.
//
// Grammar:
//
//	File          = { RowBreak } [ Record { RowBreak { RowBreak } Record } ] { RowBreak } ;
//	Record        = Field { "," Field } ;
//	Field         = QuotedField | UnquotedField ;
//	QuotedField   = '"' { QuotedChar | '""' } '"' { UnquotedChar } ;
//	UnquotedField = { UnquotedChar } ;
//	RowBreak      = CR LF ;
package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-sheet/internal/tokenizer"
)

// ErrUnclosedQuote is returned when input ends inside a quoted field.
var ErrUnclosedQuote = errors.New("unclosed quoted field")

// Error carries the token position of a parse failure.
type Error struct {
	Line   int
	Column int
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Parser implements LL(1) recursive descent parsing for sheet rows.
// It maintains a single token lookahead for predictive parsing.
type Parser struct {
	tokenizer *shapetokenizer.Tokenizer
	current   *shapetokenizer.Token
	hasToken  bool
}

// NewParser creates a parser for the given input string.
func NewParser(input string) *Parser {
	return NewParserFromStream(shapetokenizer.NewStream(input))
}

// NewParserFromStream creates a parser using a pre-configured stream.
func NewParserFromStream(stream shapetokenizer.Stream) *Parser {
	tok := tokenizer.NewTokenizerWithStream(stream)
	p := &Parser{tokenizer: &tok}
	p.advance()
	return p
}

// Parse parses the input into an *ast.ArrayDataNode of records, where each
// record is an *ast.ArrayDataNode of *ast.LiteralNode string fields.
//
// Empty rows are skipped, so a trailing row break never produces a record.
func (p *Parser) Parse() (ast.SchemaNode, error) {
	records := make([]ast.SchemaNode, 0, 16)

	for {
		record, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return ast.NewArrayDataNode(records, ast.ZeroPosition()), nil
}

// Next parses the next non-empty record. It returns io.EOF once the input
// is exhausted.
func (p *Parser) Next() (*ast.ArrayDataNode, error) {
	for p.is(tokenizer.TokenRowBreak) {
		p.advance()
	}
	if !p.hasToken {
		return nil, io.EOF
	}
	return p.parseRecord()
}

// parseRecord parses a single row.
//
// Grammar:
//
//	Record = Field { "," Field } ( RowBreak | EOF ) ;
func (p *Parser) parseRecord() (*ast.ArrayDataNode, error) {
	startPos := p.position()
	fields := make([]ast.SchemaNode, 0, 8)

	field, err := p.parseField()
	if err != nil {
		return nil, err
	}
	fields = append(fields, field)

	for p.is(tokenizer.TokenComma) {
		p.advance()

		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	if p.is(tokenizer.TokenRowBreak) {
		p.advance()
	}

	return ast.NewArrayDataNode(fields, startPos), nil
}

// parseField parses a single field.
//
// Grammar:
//
//	Field = QuotedField | UnquotedField ;
func (p *Parser) parseField() (*ast.LiteralNode, error) {
	startPos := p.position()
	if p.is(tokenizer.TokenDQuote) {
		return p.parseQuotedField(startPos)
	}
	return ast.NewLiteralNode(strings.TrimSpace(p.readUnquoted()), startPos), nil
}

// parseQuotedField parses a quoted field. Embedded commas and row breaks are
// literal, and "" unescapes to a single quote. Content between the closing
// quote and the next separator is appended as-is.
func (p *Parser) parseQuotedField(startPos ast.Position) (*ast.LiteralNode, error) {
	line, column := p.lineColumn()
	p.advance() // opening quote

	var value strings.Builder
	for {
		if !p.hasToken {
			return nil, &Error{Line: line, Column: column, Err: ErrUnclosedQuote}
		}

		token := p.peek()
		if token.Kind() == tokenizer.TokenDQuote {
			p.advance()
			if p.is(tokenizer.TokenDQuote) {
				value.WriteByte('"')
				p.advance()
				continue
			}
			value.WriteString(p.readUnquoted())
			return ast.NewLiteralNode(value.String(), startPos), nil
		}

		// Field content, comma and row break are all literal here.
		value.WriteString(token.ValueString())
		p.advance()
	}
}

// readUnquoted consumes tokens up to the next comma, row break or EOF.
// A stray quote in unquoted content is kept as a literal character.
func (p *Parser) readUnquoted() string {
	var value strings.Builder
	for p.hasToken && !p.is(tokenizer.TokenComma) && !p.is(tokenizer.TokenRowBreak) {
		value.WriteString(p.peek().ValueString())
		p.advance()
	}
	return value.String()
}

// Helper methods

// peek returns current token without advancing.
func (p *Parser) peek() *shapetokenizer.Token {
	return p.current
}

// is reports whether the current token is of the given kind.
func (p *Parser) is(kind string) bool {
	return p.hasToken && p.current != nil && p.current.Kind() == kind
}

// advance moves to next token.
func (p *Parser) advance() {
	token, ok := p.tokenizer.NextToken()
	if ok {
		p.current = token
		p.hasToken = true
	} else {
		p.hasToken = false
		p.current = nil
	}
}

// position returns current position for AST nodes.
func (p *Parser) position() ast.Position {
	if p.hasToken && p.current != nil {
		return ast.NewPosition(
			p.current.Offset(),
			p.current.Row(),
			p.current.Column(),
		)
	}
	return ast.ZeroPosition()
}

func (p *Parser) lineColumn() (int, int) {
	if p.current == nil {
		return 0, 0
	}
	return p.current.Row(), p.current.Column()
}
