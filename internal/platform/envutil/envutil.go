package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// lookup parses a trimmed variable, falling back to def when it is unset or
// does not parse.
func lookup[T any](name string, def T, parse func(string) (T, bool)) T {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	if v, ok := parse(raw); ok {
		return v
	}
	return def
}

func String(name, def string) string {
	return lookup(name, def, func(s string) (string, bool) { return s, true })
}

func Int(name string, def int) int {
	return lookup(name, def, func(s string) (int, bool) {
		i, err := strconv.Atoi(s)
		return i, err == nil
	})
}

func Float(name string, def float64) float64 {
	return lookup(name, def, func(s string) (float64, bool) {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	})
}

func Bool(name string, def bool) bool {
	return lookup(name, def, func(s string) (bool, bool) {
		switch strings.ToLower(s) {
		case "1", "true", "yes", "on":
			return true, true
		case "0", "false", "no", "off":
			return false, true
		}
		return false, false
	})
}

// Seconds accepts a bare number of seconds or a Go duration string.
func Seconds(name string, def time.Duration) time.Duration {
	return lookup(name, def, func(s string) (time.Duration, bool) {
		if i, err := strconv.Atoi(s); err == nil {
			return time.Duration(i) * time.Second, true
		}
		d, err := time.ParseDuration(s)
		return d, err == nil
	})
}

// CSV splits a comma separated list, dropping blanks.
func CSV(name string, def []string) []string {
	return lookup(name, def, func(s string) ([]string, bool) { return SplitCSV(s), true })
}

func SplitCSV(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
