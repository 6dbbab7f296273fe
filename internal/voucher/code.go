package voucher

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
)

// Alphabet leaves out 0, O, 1 and I so codes survive being read aloud or
// copied by hand. 32 symbols means each byte maps without bias.
const Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const (
	DefaultPrefix = "WA"
	groupLength   = 4
)

// GenerateCode returns a code of the form PREFIX-XXXX-XXXX.
func GenerateCode(prefix string) (string, error) {
	buf := make([]byte, 2*groupLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	var sb strings.Builder
	sb.Grow(len(prefix) + 2 + len(buf))
	sb.WriteString(prefix)
	for i, b := range buf {
		if i%groupLength == 0 {
			sb.WriteByte('-')
		}
		sb.WriteByte(Alphabet[int(b)%len(Alphabet)])
	}
	return sb.String(), nil
}

// NormalizeCode makes lookups case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func codePattern(prefix string) *regexp.Regexp {
	group := fmt.Sprintf("[%s]{%d}", Alphabet, groupLength)
	return regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + "-" + group + "-" + group + "$")
}
