package common

import "testing"

func TestFamily(t *testing.T) {
	cases := map[string]int{
		"":       0,
		"bug-3":  3,
		"bug-10": 0,
		"bug-19": 9,
		"a":      int('a') % Families,
	}
	for id, want := range cases {
		if got := Family(id); got != want {
			t.Fatalf("Family(%q) = %d, want %d", id, got, want)
		}
	}
}

func TestClamp(t *testing.T) {
	cases := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{3, 0, -5, 0},
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Fatalf("Clamp(%v, %v, %v) = %v, want %v", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestFrac(t *testing.T) {
	if got := Frac(2.25); got != 0.25 {
		t.Fatalf("Frac(2.25) = %v", got)
	}
	if got := Frac(-0.25); got != 0.75 {
		t.Fatalf("Frac(-0.25) = %v", got)
	}
}
