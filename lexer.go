package garden

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"
)

// Token is one word of program text.
type Token struct {
	Word   string   // word as written
	Name   string   // canonical operation name, empty for numbers and unknown words
	Params []string // colon separated suffixes of Word
	Value  Smp      // literal value when Number is set
	Number bool
	Pos    scanner.Position
}

// Known reports whether the word resolved to an operation.
func (t Token) Known() bool {
	return t.Name != ""
}

func scanFloat(text string) (float64, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("not a finite number: %s", text)
		}
		return f, nil
	}
	nominator, denominator, found := strings.Cut(text, "/")
	if found {
		n, err1 := strconv.ParseFloat(nominator, 64)
		d, err2 := strconv.ParseFloat(denominator, 64)
		if err1 == nil && err2 == nil && d != 0 && !math.IsInf(n, 0) && !math.IsNaN(n) && !math.IsInf(d, 0) && !math.IsNaN(d) {
			return n / d, nil
		}
	}
	return 0, fmt.Errorf("cannot parse float: %s", text)
}

func isIdentRune(ch rune, i int) bool {
	if unicode.IsSpace(ch) || unicode.IsControl(ch) {
		return false
	}
	if ch == '[' || ch == ']' || ch == ',' {
		return false
	}
	if i == 0 && ch == '#' {
		return false
	}
	return ch != scanner.EOF
}

// Lex splits program text into tokens and resolves aliases.
//
// Brackets and commas count as whitespace; "//" and "#" start a comment
// running to the end of the line.
func Lex(text string, filename string) []Token {
	var s scanner.Scanner
	s.Init(strings.NewReader(text))
	s.Mode = scanner.ScanIdents
	s.IsIdentRune = isIdentRune
	s.Error = func(*scanner.Scanner, string) {}
	s.Filename = filename
	tokens := make([]Token, 0, 64)
	skipLine := func() {
		for {
			ch := s.Next()
			if ch == '\n' || ch == scanner.EOF {
				break
			}
		}
	}
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		switch tok {
		case '#':
			skipLine()
		case scanner.Ident:
			text := s.TokenText()
			if strings.HasPrefix(text, "//") {
				skipLine()
				continue
			}
			tokens = append(tokens, makeToken(text, s.Position))
		default:
			// brackets, commas and stray control characters
		}
	}
	return tokens
}

func makeToken(text string, pos scanner.Position) Token {
	t := Token{Word: text, Pos: pos}
	if f, err := scanFloat(text); err == nil {
		t.Value = f
		t.Number = true
		return t
	}
	parts := strings.Split(text, ":")
	if len(parts) > 1 {
		t.Params = parts[1:]
	}
	t.Name = ResolveAlias(parts[0])
	return t
}
