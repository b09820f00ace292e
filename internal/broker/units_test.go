package broker

import (
	"math/big"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1", "1000000000000000000"},
		{"1.5", "1500000000000000000"},
		{"0.000000000000000001", "1"},
		{"123.456", "123456000000000000000"},
		// The 19th fractional digit is truncated, not rounded.
		{"0.0000000000000000019", "1"},
		{".5", "500000000000000000"},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tc.in, err)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("ParseAmount(%q): got %s want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "-1", "+1", "abc", "1.2.3", "1,5"} {
		if _, err := ParseAmount(in); err == nil {
			t.Errorf("ParseAmount(%q): expected error", in)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1000000000000000000", "1"},
		{"1500000000000000000", "1.5"},
		{"1", "0.000000000000000001"},
		{"123456000000000000000", "123.456"},
	}
	for _, tc := range cases {
		wei, _ := new(big.Int).SetString(tc.in, 10)
		if got := FormatAmount(wei); got != tc.want {
			t.Errorf("FormatAmount(%s): got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseFormat_Roundtrip(t *testing.T) {
	for _, s := range []string{"0", "1", "1.5", "0.000000000000000001", "987654.321"} {
		wei, err := ParseAmount(s)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", s, err)
		}
		if got := FormatAmount(wei); got != s {
			t.Errorf("roundtrip %q: got %q", s, got)
		}
	}
}
