package catalogparser

import "testing"

func TestCanonicalRegionID(t *testing.T) {
	cases := map[string]string{
		"13":    "013",
		"013":   "013",
		"0":     "000",
		"000":   "000",
		"1":     "001",
		"47":    "047",
		" 27 ":  "027",
		"1000":  "1000",
		"":      "",
		"-5":    "-5",
		"tokyo": "tokyo",
		"13abc": "13abc",
		"  x  ": "x",
	}
	for input, want := range cases {
		if got := CanonicalRegionID(input); got != want {
			t.Errorf("CanonicalRegionID(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFoldKey(t *testing.T) {
	cases := map[string]string{
		"ＰＯＩＮＴ１":   "POINT1",
		"ｏｍｔ":       "omt",
		"  price  ": "price",
		"POINT1":    "POINT1",
		"":          "",
	}
	for input, want := range cases {
		if got := FoldKey(input); got != want {
			t.Errorf("FoldKey(%q) = %q, want %q", input, got, want)
		}
	}
}
