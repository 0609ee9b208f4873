package envutil

import (
	"testing"
	"time"
)

func TestSeconds(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", 5 * time.Second},
		{"900", 900 * time.Second},
		{"15m", 15 * time.Minute},
		{"nope", 5 * time.Second},
	}
	for _, tc := range cases {
		t.Setenv("SIGNED_URL_TTL", tc.raw)
		if got := Seconds("SIGNED_URL_TTL", 5*time.Second); got != tc.want {
			t.Fatalf("Seconds(%q): got=%s want=%s", tc.raw, got, tc.want)
		}
	}
}

func TestCSVDropsBlanks(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test, ,http://b.test ")
	got := CSV("CORS_ALLOWED_ORIGINS", nil)
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("unexpected CSV: %v", got)
	}
}

func TestBoolDefault(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "maybe")
	if !Bool("METRICS_ENABLED", true) {
		t.Fatalf("expected default to win for unparsable value")
	}
	t.Setenv("METRICS_ENABLED", "off")
	if Bool("METRICS_ENABLED", true) {
		t.Fatalf("expected off to parse as false")
	}
}
