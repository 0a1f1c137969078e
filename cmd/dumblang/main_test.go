package main

import "testing"

func TestBraceDelta(t *testing.T) {
	cases := []struct {
		line string
		want int
	}{
		{"main() {", 1},
		{"}", -1},
		{"if (x) { y = 1; }", 0},
		{`s = "{not a brace}";`, 0},
		{"s = '{';", 0},
		{"x = 1; # comment with {", 0},
		{"while (1) { if (2) {", 2},
	}
	for _, c := range cases {
		if got := braceDelta(c.line); got != c.want {
			t.Fatalf("braceDelta(%q) = %d, want %d", c.line, got, c.want)
		}
	}
}
