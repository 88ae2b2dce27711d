package lexer

import (
	"fmt"
	"strings"

	"gulfofmexico/interpreter-go/pkg/diag"
)

// DefaultIndentUnit is the number of spaces one indentation level occupies.
const DefaultIndentUnit = 3

// Tokenize converts source text into a token stream using the default
// indentation unit.
func Tokenize(filename, source string) ([]Token, *diag.Error) {
	return TokenizeIndent(filename, source, DefaultIndentUnit)
}

// quoteWeight assigns double quotes twice the weight of single quotes, so
// one double quote closes a pair of singles and arbitrarily deep mixed
// quoting balances by weight.
func quoteWeight(r rune) int {
	if r == '"' {
		return 2
	}
	return 1
}

func runWeight(run []rune) int {
	total := 0
	for _, r := range run {
		total += quoteWeight(r)
	}
	return total
}

// isBalancedRun reports whether a quote run can be split into an opening
// half and a closing half of equal weight, i.e. it already delimits an
// empty string.
func isBalancedRun(run []rune) bool {
	total := runWeight(run)
	if total%2 != 0 {
		return false
	}
	for i := range run {
		if runWeight(run[:i]) == total/2 {
			return true
		}
	}
	return false
}

// scanString consumes a string literal starting at the first quote
// character. It returns the index of the last consumed rune and the string
// body: the shortest span terminated by a quote run whose weight equals the
// opening run's weight.
func scanString(chars []rune, start int) (end int, value string, ok bool) {
	curr := start
	var opening []rune
	for curr < len(chars) && (chars[curr] == '"' || chars[curr] == '\'') {
		opening = append(opening, chars[curr])
		if isBalancedRun(opening) {
			return curr, "", true
		}
		curr++
	}
	want := runWeight(opening)

	var body strings.Builder
	for curr < len(chars) {
		running := 0
		runStart := curr
		for curr < len(chars) && (chars[curr] == '"' || chars[curr] == '\'') {
			running += quoteWeight(chars[curr])
			if running == want {
				return curr, body.String(), true
			}
			curr++
		}
		if curr < len(chars) {
			for i := runStart; i <= curr; i++ {
				body.WriteRune(chars[i])
			}
		}
		curr++
	}
	return 0, "", false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isNameStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
func isNameRune(r rune) bool {
	return isNameStart(r) || isDigit(r) || r == '.'
}

// TokenizeIndent converts source text into a token stream, validating that
// leading indentation is a run of spaces whose width is a multiple of unit.
func TokenizeIndent(filename, source string, unit int) ([]Token, *diag.Error) {
	chars := []rune(source)
	var tokens []Token

	line := 1
	lineStart := -1 // index of the newline before the current line
	space := 0      // spaces immediately before the next token
	atLineStart := true

	add := func(tt TokenType, value string, at int) {
		tokens = append(tokens, Token{
			Type:  tt,
			Value: value,
			Line:  line,
			Col:   at - lineStart,
			Space: space,
		})
		space = 0
		atLineStart = false
	}

	// run consumes a maximal run of the rune at position curr and returns
	// its length.
	run := func(curr int, r rune) int {
		n := 0
		for curr+n < len(chars) && chars[curr+n] == r {
			n++
		}
		return n
	}

	curr := 0
	for curr < len(chars) {
		ch := chars[curr]
		switch {
		case ch == '\n':
			add(Newline, "\n", curr)
			line++
			lineStart = curr
			atLineStart = true
			space = 0

		case ch == ' ' || ch == '\t':
			if atLineStart {
				// Leading whitespace is significant: it must be spaces, and
				// a whole number of indentation units.
				width := 0
				j := curr
				for j < len(chars) && (chars[j] == ' ' || chars[j] == '\t') {
					if chars[j] == '\t' {
						return nil, diag.At(diag.KindIndentation,
							"tabs are not allowed in indentation",
							source, line, j-lineStart, 1)
					}
					width++
					j++
				}
				if j < len(chars) && chars[j] != '\n' && width%unit != 0 {
					return nil, diag.At(diag.KindIndentation,
						fmt.Sprintf("indentation must be a multiple of %d spaces", unit),
						source, line, 1, width)
				}
				space = width
				atLineStart = false
				curr = j
				continue
			}
			space++

		case ch == '{':
			add(LCurly, "{", curr)
		case ch == '}':
			add(RCurly, "}", curr)
		case ch == '[':
			add(LSquare, "[", curr)
		case ch == ']':
			add(RSquare, "]", curr)
		case ch == '(':
			add(LParen, "(", curr)
		case ch == ')':
			add(RParen, ")", curr)
		case ch == ',':
			add(Comma, ",", curr)
		case ch == ':':
			add(Colon, ":", curr)
		case ch == '.':
			if curr+1 < len(chars) && isDigit(chars[curr+1]) {
				end := scanNumber(chars, curr)
				add(Number, string(chars[curr:end]), curr)
				curr = end
				continue
			}
			add(Dot, ".", curr)
		case ch == '|':
			add(Pipe, "|", curr)
		case ch == '&':
			add(Ampersand, "&", curr)
		case ch == '*':
			add(Multiply, "*", curr)
		case ch == '^':
			add(Caret, "^", curr)

		case ch == '+':
			if run(curr, '+') >= 2 {
				add(Increment, "++", curr)
				curr += 2
				continue
			}
			add(Add, "+", curr)

		case ch == '-':
			if run(curr, '-') >= 2 {
				add(Decrement, "--", curr)
				curr += 2
				continue
			}
			if curr+1 < len(chars) && (isDigit(chars[curr+1]) ||
				(chars[curr+1] == '.' && curr+2 < len(chars) && isDigit(chars[curr+2]))) {
				end := scanNumber(chars, curr+1)
				add(Number, string(chars[curr:end]), curr)
				curr = end
				continue
			}
			add(Subtract, "-", curr)

		case ch == '/':
			if curr+1 < len(chars) && chars[curr+1] == '/' {
				for curr < len(chars) && chars[curr] != '\n' {
					curr++
				}
				continue
			}
			add(Divide, "/", curr)

		case ch == '=':
			if curr+1 < len(chars) && chars[curr+1] == '>' {
				add(FuncPoint, "=>", curr)
				curr += 2
				continue
			}
			n := run(curr, '=')
			switch {
			case n == 1:
				add(Equal, "=", curr)
			case n == 2:
				add(EqualEqual, "==", curr)
			case n == 3:
				add(TripleEqual, "===", curr)
			default:
				// Four or more collapse to the deepest tier.
				add(QuadEqual, string(chars[curr:curr+n]), curr)
			}
			curr += n
			continue

		case ch == ';':
			eq := run(curr+1, '=')
			switch eq {
			case 0:
				add(Semicolon, ";", curr)
			case 1:
				add(NotEqual, ";=", curr)
			case 2:
				add(NotDouble, ";==", curr)
			default:
				add(NotTriple, string(chars[curr:curr+1+eq]), curr)
			}
			curr += 1 + eq
			continue

		case ch == '<':
			if curr+1 < len(chars) && chars[curr+1] == '=' {
				add(LessEqual, "<=", curr)
				curr += 2
				continue
			}
			add(LessThan, "<", curr)
		case ch == '>':
			if curr+1 < len(chars) && chars[curr+1] == '=' {
				add(GreaterEqual, ">=", curr)
				curr += 2
				continue
			}
			add(GreaterThan, ">", curr)

		case ch == '!':
			n := run(curr, '!')
			add(Bang, string(chars[curr:curr+n]), curr)
			curr += n
			continue
		case ch == '?':
			n := run(curr, '?')
			add(Question, string(chars[curr:curr+n]), curr)
			curr += n
			continue

		case ch == '"' || ch == '\'':
			end, value, ok := scanString(chars, curr)
			if !ok {
				return nil, diag.At(diag.KindLex,
					"invalid string: opening quotes are never matched by closing quotes",
					source, line, curr-lineStart, 1)
			}
			tt := String
			if strings.Contains(value, "${") {
				tt = InterpolatedString
			}
			add(tt, value, curr)
			curr = end

		case isDigit(ch):
			end := scanNumber(chars, curr)
			add(Number, string(chars[curr:end]), curr)
			curr = end
			continue

		case isNameStart(ch):
			end := curr
			for end < len(chars) && isNameRune(chars[end]) {
				end++
			}
			add(Name, string(chars[curr:end]), curr)
			curr = end
			continue

		default:
			// Unknown runes are skipped like whitespace.
		}
		curr++
	}

	tokens = append(tokens, Token{Type: EOF, Line: line, Col: len(chars) - lineStart, Space: space})
	return tokens, nil
}

// scanNumber consumes digits with at most one decimal point starting at
// start, returning the index one past the literal.
func scanNumber(chars []rune, start int) int {
	curr := start
	hasDot := false
	for curr < len(chars) {
		switch {
		case isDigit(chars[curr]):
			curr++
		case chars[curr] == '.' && !hasDot && curr+1 < len(chars) && isDigit(chars[curr+1]):
			hasDot = true
			curr++
		default:
			return curr
		}
	}
	return curr
}
