// Package filter holds the inclusion rules shared by the aggregation and risk
// engines: which rows are workable exposures, and which coverages count
// toward the financial totals.
package filter

import (
	"regexp"
	"strings"

	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/normalize"
)

// excludedStatuses are BI status fragments (normalized, see
// normalize.NormalizeLabel) that take a row out of the workable inventory.
// Matching is by substring; "spd" (settled pending docs, including spd-lit)
// is matched as a whole word.
var excludedStatuses = []string{
	"settled pending docs",
	"settled pending documentation",
	"conditional",
	"court approval pending",
	"pending court approval",
	"pending payment",
	"medical release",
	"closed",
}

// pendingSuits matches "pending bi suits", "pending um suit" and similar.
var pendingSuits = regexp.MustCompile(`\bpending\b.*\bsuits?\b`)

var wordSPD = regexp.MustCompile(`\bspd\b`)

// financialCoverages are the coverages that carry reserves and evaluations
// in the financial totals.
var financialCoverages = map[string]bool{"BI": true, "UM": true, "UI": true}

// IsWorkable reports whether the exposure is part of the open, workable
// inventory. Settled, pending-documentation and closed rows are not.
func IsWorkable(e *model.ExposureRecord) bool {
	if isExcludedLabel(e.ExposureCategory) {
		return false
	}
	return !isExcludedLabel(e.BIStatus)
}

func isExcludedLabel(v string) bool {
	s := normalize.NormalizeLabel(v)
	if s == "" {
		return false
	}
	if wordSPD.MatchString(s) || pendingSuits.MatchString(s) {
		return true
	}
	for _, frag := range excludedStatuses {
		if strings.Contains(s, frag) {
			return true
		}
	}
	return false
}

// IsFinancialCoverage reports whether the coverage code is BI, UM or UI.
func IsFinancialCoverage(coverage string) bool {
	return financialCoverages[normalize.NormalizeCode(coverage)]
}

// IsLitigationGroup reports whether the type group is LIT, in any case.
func IsLitigationGroup(typeGroup string) bool {
	return strings.EqualFold(strings.TrimSpace(typeGroup), "LIT")
}

// IsBodilyInjury reports whether the coverage code is BI.
func IsBodilyInjury(coverage string) bool {
	return normalize.NormalizeCode(coverage) == "BI"
}

// BIStatusBucket rolls a BI status up to in-progress, settled or other.
func BIStatusBucket(status string) string {
	s := normalize.NormalizeLabel(status)
	switch {
	case strings.Contains(s, "in progress"):
		return model.BIStatusInProgress
	case strings.Contains(s, "settled"):
		return model.BIStatusSettled
	default:
		return model.BIStatusOther
	}
}

// Workable filters records down to the workable ones, preserving order.
func Workable(records []model.ExposureRecord) []model.ExposureRecord {
	out := make([]model.ExposureRecord, 0, len(records))
	for i := range records {
		if IsWorkable(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}
