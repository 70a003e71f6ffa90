package chain

import (
	"math/big"
	"testing"
)

func TestParseEther(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1", "1000000000000000000"},
		{"0.001", "1000000000000000"},
		{"0.00001", "10000000000000"},
		{"0.005", "5000000000000000"},
		{"0", "0"},
	}

	for _, tc := range cases {
		got, err := ParseEther(tc.in)
		if err != nil {
			t.Fatalf("ParseEther(%q) failed: %v", tc.in, err)
		}
		want, _ := new(big.Int).SetString(tc.want, 10)
		if got.Cmp(want) != 0 {
			t.Errorf("ParseEther(%q) = %s, want %s", tc.in, got, want)
		}
	}
}

func TestParseEtherRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "abc", "-1", "0.0000000000000000001"} {
		if _, err := ParseEther(in); err == nil {
			t.Errorf("ParseEther(%q) should have failed", in)
		}
	}
}

func TestFormatEtherRoundTrip(t *testing.T) {
	for _, in := range []string{"1", "0.001", "0.00001", "0.005"} {
		wei, err := ParseEther(in)
		if err != nil {
			t.Fatalf("ParseEther(%q) failed: %v", in, err)
		}
		if got := FormatEther(wei); got != in {
			t.Errorf("FormatEther(ParseEther(%q)) = %q", in, got)
		}
	}
}
