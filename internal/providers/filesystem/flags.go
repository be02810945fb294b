package filesystem

import (
	"fmt"
	"strconv"
	"strings"
)

// flagSet holds single-letter options parsed from the front and middle of
// an argument list.
type flagSet map[rune]bool

func (f flagSet) has(letters ...rune) bool {
	for _, l := range letters {
		if f[l] {
			return true
		}
	}
	return false
}

// parseFlags separates "-abc" style options from operands. Options may
// appear anywhere; "--" ends option parsing and a lone "-" is an operand.
// An option letter outside allowed is reported as invalid.
func parseFlags(cmd string, args []string, allowed string) (flagSet, []string, error) {
	flags := make(flagSet)
	var operands []string
	done := false

	for _, arg := range args {
		if done || len(arg) < 2 || arg[0] != '-' {
			operands = append(operands, arg)
			continue
		}
		if arg == "--" {
			done = true
			continue
		}
		for _, r := range arg[1:] {
			if !strings.ContainsRune(allowed, r) {
				return nil, nil, fmt.Errorf("%s: invalid option -- '%c'", cmd, r)
			}
			flags[r] = true
		}
	}
	return flags, operands, nil
}

// parseLineCount reads head/tail arguments: [-n N | -nN] file.
func parseLineCount(cmd string, args []string) (int, string, error) {
	usage := fmt.Errorf("Usage: %s [-n num_lines] [file]", cmd)
	n := 10
	rest := args

	if len(rest) > 0 && strings.HasPrefix(rest[0], "-n") {
		val := rest[0][2:]
		rest = rest[1:]
		if val == "" {
			if len(rest) == 0 {
				return 0, "", usage
			}
			val, rest = rest[0], rest[1:]
		}
		parsed, err := strconv.Atoi(val)
		if err != nil || parsed < 0 {
			return 0, "", fmt.Errorf("%s: invalid number of lines: '%s'", cmd, val)
		}
		n = parsed
	}

	if len(rest) != 1 {
		return 0, "", usage
	}
	return n, rest[0], nil
}
