package importing

import "testing"

// TestNormalizePhone_CanonicalForms verifies the three accepted spellings of
// the same number normalize to one canonical value.
// PRE: inputs are variants of the same Israeli mobile number.
// POST: all produce +972501234567 and ok=true.
func TestNormalizePhone_CanonicalForms(t *testing.T) {
	inputs := []string{"050-123-4567", "+972501234567", "0501234567", "972 50 123 4567"}
	for _, in := range inputs {
		got, ok := NormalizePhone(in)
		if !ok {
			t.Errorf("NormalizePhone(%q) ok=false, want true", in)
		}
		if got != "+972501234567" {
			t.Errorf("NormalizePhone(%q) = %q, want +972501234567", in, got)
		}
	}
}

// TestNormalizePhone_ArabicIndicDigits verifies locale digit conversion.
func TestNormalizePhone_ArabicIndicDigits(t *testing.T) {
	got, ok := NormalizePhone("٠٥٠١٢٣٤٥٦٧")
	if !ok {
		t.Fatal("ok=false, want true")
	}
	if got != "+972501234567" {
		t.Errorf("got %q, want +972501234567", got)
	}
}

// TestNormalizePhone_TooShort verifies that short numbers are flagged but
// still returned for manual correction.
func TestNormalizePhone_TooShort(t *testing.T) {
	got, ok := NormalizePhone("05012")
	if ok {
		t.Error("ok=true for 5-digit number, want false")
	}
	if got == "" {
		t.Error("got empty canonical value, want best-effort value")
	}
}

// TestNormalizePhone_Empty verifies empty and non-numeric input.
func TestNormalizePhone_Empty(t *testing.T) {
	for _, in := range []string{"", "---", "n/a"} {
		if _, ok := NormalizePhone(in); ok {
			t.Errorf("NormalizePhone(%q) ok=true, want false", in)
		}
	}
}
