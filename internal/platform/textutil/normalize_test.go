package textutil

import "testing"

func TestNormalizeTextComposesNFC(t *testing.T) {
	// Decomposed Hangul (NFD) must compose to the precomposed form.
	decomposed := "\u1112\u1161\u11ab"
	composed := "\ud55c"
	if got := NormalizeText(decomposed); got != composed {
		t.Fatalf("NormalizeText(%q) = %q, want %q", decomposed, got, composed)
	}
}

func TestNormalizeTextTrimsAndStripsControls(t *testing.T) {
	if got := NormalizeText("  따뜻한\x00 빛  "); got != "따뜻한 빛" {
		t.Fatalf("NormalizeText = %q", got)
	}
	if got := NormalizeText("   "); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestNormalizeStringMap(t *testing.T) {
	got := NormalizeStringMap(map[string]string{
		" member ": " umuti ",
		"":         "dropped",
	})
	if len(got) != 1 || got["member"] != "umuti" {
		t.Fatalf("unexpected map %v", got)
	}

	if got := NormalizeStringMap(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}
