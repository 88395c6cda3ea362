package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/gyeh/claimstats/internal/model"
)

const maxIntFloat = float64(1 << 63)

// ParseDays parses a day-count cell. Commas and a trailing "days" suffix are
// tolerated; fractional values are truncated. ok is false for blank or
// unparseable input, including values outside the int range.
func ParseDays(raw string) (days int, ok bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, "days")
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f >= maxIntFloat || f < -maxIntFloat {
		return 0, false
	}
	return int(f), true
}

// ParseAgeBucket returns the age bucket for a row. A label naming one of the
// four buckets always wins over the bucket computed from days.
func ParseAgeBucket(label string, days int) model.AgeBucket {
	if b, ok := bucketFromLabel(label); ok {
		return b
	}
	return BucketForDays(days)
}

// BucketForDays computes the age bucket from an elapsed-day count.
func BucketForDays(days int) model.AgeBucket {
	switch {
	case days >= 365:
		return model.Age365Plus
	case days >= 181:
		return model.Age181To365
	case days >= 61:
		return model.Age61To180
	default:
		return model.AgeUnder60
	}
}

func bucketFromLabel(label string) (model.AgeBucket, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	if l == "" {
		return "", false
	}
	// Order matters: "181-365" also contains "365".
	switch {
	case strings.Contains(l, "365+"):
		return model.Age365Plus, true
	case strings.Contains(l, "181"):
		return model.Age181To365, true
	case strings.Contains(l, "61"):
		return model.Age61To180, true
	case strings.Contains(l, "60"):
		return model.AgeUnder60, true
	}
	return "", false
}
