// Package idgen allocates hierarchical artifact IDs.
//
// Initiatives get bijective base-26 letter runs (A..Z, AA..ZZ, AAA..);
// milestones and issues get numeric suffixes under their parent. Allocation
// is max+1 over the existing set, so freed IDs are never reissued and an
// ID seen anywhere in history stays unambiguous forever.
package idgen

import "fmt"

// EncodeLetters converts a 1-based ordinal to its bijective base-26 letter
// run: 1 -> A, 26 -> Z, 27 -> AA, 703 -> AAA. Returns "" for n < 1.
func EncodeLetters(n int) string {
	if n < 1 {
		return ""
	}
	buf := make([]byte, 0, 4)
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// DecodeLetters is the inverse of EncodeLetters.
func DecodeLetters(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty letter run")
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("invalid letter run %q", s)
		}
		n = n*26 + int(c-'A'+1)
	}
	return n, nil
}
