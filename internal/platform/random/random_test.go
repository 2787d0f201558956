package random_test

import (
	"testing"

	"github.com/jsamuelsen11/go-eventcore/internal/platform/random"
)

func TestString_LengthAndAlphabet(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 16, 64} {
		got, err := random.String(n)
		if err != nil {
			t.Fatalf("String(%d) error = %v", n, err)
		}
		if len(got) != n {
			t.Errorf("len(String(%d)) = %d", n, len(got))
		}
		for _, r := range got {
			isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
			if !isAlnum {
				t.Errorf("String(%d) = %q contains %q", n, got, r)
			}
		}
	}
}

func TestString_NegativeLength(t *testing.T) {
	t.Parallel()

	if _, err := random.String(-1); err == nil {
		t.Fatal("String(-1) error = nil, want error")
	}
}

func TestSource_NextNumberVaries(t *testing.T) {
	t.Parallel()

	src := random.Source{Length: 16}
	a, err := src.NextNumber()
	if err != nil {
		t.Fatalf("NextNumber() error = %v", err)
	}
	b, err := src.NextNumber()
	if err != nil {
		t.Fatalf("NextNumber() error = %v", err)
	}
	if a == b {
		t.Errorf("NextNumber() returned %q twice", a)
	}
}
