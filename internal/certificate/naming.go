package certificate

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// OutputName is the file name of a registrant's certificate.
func OutputName(chineseName, dharmaName string) string {
	return fmt.Sprintf("output_%s_%s.pdf", sanitizeNamePart(chineseName), sanitizeNamePart(dharmaName))
}

// sanitizeNamePart keeps names readable but safe as a single path element.
func sanitizeNamePart(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':':
			return '_'
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, s)
}

// nameSet hands out unique file names within one batch. A repeated name gets
// a numeric suffix: output_a_b.pdf, output_a_b_2.pdf, output_a_b_3.pdf.
type nameSet struct {
	seen map[string]int
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[string]int)}
}

func (s *nameSet) unique(name string) (string, bool) {
	n := s.seen[name]
	s.seen[name] = n + 1
	if n == 0 {
		return name, false
	}
	stem := strings.TrimSuffix(name, ".pdf")
	for {
		n++
		candidate := fmt.Sprintf("%s_%d.pdf", stem, n)
		if _, taken := s.seen[candidate]; !taken {
			s.seen[candidate] = 1
			return candidate, true
		}
	}
}
