package importing

import "strings"

// MinPhoneDigits is the minimum number of national digits for a well-formed
// number (Israeli numbering plan: 9 digits after the country code).
const MinPhoneDigits = 9

// NormalizePhone canonicalizes a raw phone cell into international form.
// Arabic-Indic digits are folded to ASCII, separators are stripped, and a
// local leading zero is rewritten to the +972 country prefix.
// PRE: none
// POST: returns the canonical value and true, or a best-effort value and
// false when the number has too few digits to be dialable
func NormalizePhone(raw string) (string, bool) {
	digits := foldDigits(raw)
	if digits == "" {
		return "", false
	}

	var national string
	switch {
	case strings.HasPrefix(digits, "972"):
		national = strings.TrimPrefix(digits, "972")
	case strings.HasPrefix(digits, "0"):
		national = strings.TrimPrefix(digits, "0")
	default:
		national = digits
	}

	canonical := "+972" + national
	return canonical, len(national) >= MinPhoneDigits
}

// foldDigits keeps only digit runes, converting Arabic-Indic (U+0660..U+0669)
// and Extended Arabic-Indic (U+06F0..U+06F9) digits to ASCII.
func foldDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 0x0660 && r <= 0x0669:
			b.WriteRune('0' + (r - 0x0660))
		case r >= 0x06F0 && r <= 0x06F9:
			b.WriteRune('0' + (r - 0x06F0))
		}
	}
	return b.String()
}
