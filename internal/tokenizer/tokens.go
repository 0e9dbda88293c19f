// Package tokenizer provides sheet text tokenization using Shape's tokenizer framework.
package tokenizer

// Token type constants for exported sheet text.
//
// Note: The tokenizer emits character-level tokens only. The parser decides
// field boundaries and whether a row break sits inside a quoted field.
const (
	// Structural tokens
	TokenComma    = "Comma"    // , (field separator)
	TokenDQuote   = "DQuote"   // " (quote delimiter)
	TokenRowBreak = "RowBreak" // \r\n (the only row terminator)

	// Field content token. A lone \r or \n is field content.
	TokenField = "Field"

	// Special token
	TokenEOF = "EOF" // End of file
)
