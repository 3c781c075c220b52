package utils

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"Face Cream":        "Face_Cream",
		"EcoBeauty 2000+":   "EcoBeauty_2000_",
		"all-purpose (new)": "all_purpose__new_",
		"Plain":             "Plain",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
