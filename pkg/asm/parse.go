package asm

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrSyntax is returned by Parse for a line it cannot make sense of.
var ErrSyntax = errors.New("assembly syntax error")

// Parse reads a textual listing — one directive or instruction per
// line, blank lines and "; comment" lines ignored — and assembles it
// into module wire bytes.
//
// Directives:
//
//	.int <value>      declare an int constant, in pool order
//	.num <value>       declare a float constant
//	.str "value"       declare a string constant (Go quoted-string syntax, escapes included)
//
// Every other non-blank line is "MNEMONIC [operand ...]", operands
// given as decimal bytes (0-255).
func Parse(src string) ([]byte, error) {
	b := NewBuilder()
	scanner := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		switch {
		case strings.HasPrefix(line, ".int "):
			v, err := strconv.ParseInt(strings.TrimSpace(line[5:]), 10, 32)
			if err != nil {
				return nil, errors.Wrapf(ErrSyntax, "line %d: %v", lineNo, err)
			}
			b.Int(int32(v))
			continue

		case strings.HasPrefix(line, ".num "):
			v, err := strconv.ParseFloat(strings.TrimSpace(line[5:]), 64)
			if err != nil {
				return nil, errors.Wrapf(ErrSyntax, "line %d: %v", lineNo, err)
			}
			b.Num(v)
			continue

		case strings.HasPrefix(line, ".str "):
			raw := strings.TrimSpace(line[5:])
			s, err := strconv.Unquote(raw)
			if err != nil {
				return nil, errors.Wrapf(ErrSyntax, "line %d: %v", lineNo, err)
			}
			b.Str(s)
			continue
		}

		fields := strings.Fields(line)
		mnemonic := fields[0]
		operands := make([]byte, 0, len(fields)-1)
		for _, f := range fields[1:] {
			n, err := strconv.ParseUint(f, 10, 8)
			if err != nil {
				return nil, errors.Wrapf(ErrSyntax, "line %d: operand %q: %v", lineNo, f, err)
			}
			operands = append(operands, byte(n))
		}
		b.Emit(mnemonic, operands...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.Bytes()
}
