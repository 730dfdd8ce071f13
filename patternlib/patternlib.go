// Package patternlib provides a small set of ready-made pattern
// terminals for common lexical shapes: reusable regular-expression
// vocabulary built on top of the core library rather than a competing
// lexer.
package patternlib

import "github.com/hadriel/grammex"

// Identifier matches a C-style identifier: a letter or underscore
// followed by any run of letters, digits, and underscores.
func Identifier() grammex.Production {
	return grammex.PatternTerminal(`[A-Za-z_][A-Za-z0-9_]*`)
}

// Integer matches an optionally-signed run of decimal digits.
func Integer() grammex.Production {
	return grammex.PatternTerminal(`-?[0-9]+`)
}

// Decimal matches an optionally-signed decimal number with an
// optional fractional part and optional exponent, as one capture
// group spanning the whole literal.
func Decimal() grammex.Production {
	return grammex.PatternTerminal(`(-?[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?)`)
}

// QuotedString matches a double-quoted string with backslash escapes,
// capturing the interior (without the surrounding quotes, with escape
// sequences left as written).
func QuotedString() grammex.Production {
	return grammex.PatternTerminal(`"((?:[^"\\]|\\.)*)"`)
}

// Whitespace matches a run of one or more space, tab, carriage
// return, or newline characters.
func Whitespace() grammex.Production {
	return grammex.PatternTerminal(`[ \t\r\n]+`)
}
