package vfs

import (
	"strings"
)

var permGroups = [8]string{"---", "--x", "-w-", "-wx", "r--", "r-x", "rw-", "rwx"}

// ParseMode converts a 3-digit octal string such as "755" into its
// 9-character symbolic form.
func ParseMode(octal string) (string, error) {
	if len(octal) != 3 {
		return "", newError("chmod", octal, ErrInvalidMode)
	}
	var b strings.Builder
	for _, c := range octal {
		if c < '0' || c > '7' {
			return "", newError("chmod", octal, ErrInvalidMode)
		}
		b.WriteString(permGroups[c-'0'])
	}
	return b.String(), nil
}

// FormatMode converts a symbolic permission string back to octal. Unknown
// characters count as unset bits.
func FormatMode(perms string) string {
	var out [3]byte
	for g := 0; g < 3; g++ {
		var v byte
		for i, bit := range []byte{4, 2, 1} {
			idx := g*3 + i
			if idx < len(perms) && perms[idx] != '-' {
				v |= bit
			}
		}
		out[g] = '0' + v
	}
	return string(out[:])
}
