package sql

import (
	"strconv"
	"strings"

	"github.com/tsplot/tsplot/pkg/tserr"
)

// Parse tokenises a comma-separated postfix program. An empty string is a
// valid empty program. "(" and ")" delimit a word list that is
// collapsed into a single TokWordList token; tokens starting with ":" are
// operators; numeric tokens (including scientific notation, e.g. "50e3")
// become TokNumber; anything else is a TokString literal.
func Parse(text string) (Program, error) {
	if strings.TrimSpace(text) == "" {
		return Program{}, nil
	}
	raw := strings.Split(text, ",")

	prog := make(Program, 0, len(raw))
	offset := 0
	i := 0
	for i < len(raw) {
		tok := raw[i]
		tokOffset := offset
		offset += len(tok) + 1 // +1 for the consumed comma

		switch {
		case tok == "(":
			words := make([]string, 0)
			j := i + 1
			for j < len(raw) && raw[j] != ")" {
				words = append(words, raw[j])
				offset += len(raw[j]) + 1
				j++
			}
			if j >= len(raw) {
				return nil, tserr.Newf(tserr.Parse, "", "unbalanced '(' at offset %d", tokOffset)
			}
			offset += len(raw[j]) + 1 // consume the ")"
			prog = append(prog, Token{Kind: TokWordList, Words: words, Offset: tokOffset})
			i = j + 1
			continue

		case tok == ")":
			return nil, tserr.Newf(tserr.Parse, "", "unbalanced ')' at offset %d", tokOffset)

		case strings.HasPrefix(tok, ":"):
			name := strings.TrimPrefix(tok, ":")
			if name == "" {
				return nil, tserr.Newf(tserr.Parse, "", "empty operator at offset %d", tokOffset)
			}
			prog = append(prog, Token{Kind: TokOperator, Str: name, Offset: tokOffset})

		default:
			if n, err := strconv.ParseFloat(tok, 64); err == nil {
				prog = append(prog, Token{Kind: TokNumber, Num: n, Offset: tokOffset})
			} else {
				prog = append(prog, Token{Kind: TokString, Str: tok, Offset: tokOffset})
			}
		}
		i++
	}
	return prog, nil
}
