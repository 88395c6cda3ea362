package normalize

import "strings"

// ParseBool reports whether raw is a yes value: yes, y, true or 1 in any case.
func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}

// ParseCP1 derives the CP1 flag. A non-blank overall flag is authoritative;
// only when it is blank are the exposure and claim flags OR'd together.
// evaluated is false when all three values are blank.
func ParseCP1(overall, exposure, claim string) (flag, evaluated bool) {
	if strings.TrimSpace(overall) != "" {
		return ParseBool(overall), true
	}
	if strings.TrimSpace(exposure) == "" && strings.TrimSpace(claim) == "" {
		return false, false
	}
	return ParseBool(exposure) || ParseBool(claim), true
}
