package ripple

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalLocale(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "en_us", want: "en-US", ok: true},
		{in: "fa-IR", want: "fa-IR", ok: true},
		{in: " de ", want: "de", ok: true},
		{in: "", want: "", ok: true},
		{in: "!!bogus!!", want: "!!bogus!!", ok: false},
	}
	for _, tc := range cases {
		got, ok := canonicalLocale(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}
