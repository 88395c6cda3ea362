package aggregate

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gyeh/claimstats/internal/model"
)

// BaseClaim returns the claim number without its trailing exposure sequence,
// e.g. "65-158035-1" → "65-158035". Claim numbers with fewer than two "-"
// separators cannot be grouped and return ok=false.
func BaseClaim(claimNumber string) (string, bool) {
	cn := strings.TrimSpace(claimNumber)
	if strings.Count(cn, "-") < 2 {
		return "", false
	}
	return cn[:strings.LastIndex(cn, "-")], true
}

// GroupMultiPacks groups exposures by base claim number and keeps groups of
// two or more. Groups are ordered by pack size then summed reserves, both
// descending; members within a group are ordered by claim number.
func GroupMultiPacks(members []model.PackMember) model.MultiPackSummary {
	byBase := make(map[string][]model.PackMember)
	for _, m := range members {
		base, ok := BaseClaim(m.ClaimNumber)
		if !ok {
			continue
		}
		byBase[base] = append(byBase[base], m)
	}

	groups := make([]model.MultiPackGroup, 0)
	for base, ms := range byBase {
		if len(ms) < 2 {
			continue
		}
		sort.SliceStable(ms, func(i, j int) bool {
			return ms[i].ClaimNumber < ms[j].ClaimNumber
		})
		total := decimal.Zero
		for _, m := range ms {
			total = total.Add(m.Reserves)
		}
		groups = append(groups, model.MultiPackGroup{
			BaseClaim: base,
			PackSize:  len(ms),
			Reserves:  total,
			Claims:    ms,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].PackSize != groups[j].PackSize {
			return groups[i].PackSize > groups[j].PackSize
		}
		if c := groups[i].Reserves.Cmp(groups[j].Reserves); c != 0 {
			return c > 0
		}
		return groups[i].BaseClaim < groups[j].BaseClaim
	})

	return model.MultiPackSummary{
		Groups: groups,
		BySize: summarizeBySize(groups),
	}
}

func summarizeBySize(groups []model.MultiPackGroup) []model.PackSizeSummary {
	bySize := make(map[int]*model.PackSizeSummary)
	for _, g := range groups {
		s, ok := bySize[g.PackSize]
		if !ok {
			s = &model.PackSizeSummary{PackSize: g.PackSize, Reserves: decimal.Zero}
			bySize[g.PackSize] = s
		}
		s.Groups++
		s.Claims += len(g.Claims)
		s.Reserves = s.Reserves.Add(g.Reserves)
	}

	out := make([]model.PackSizeSummary, 0, len(bySize))
	for _, s := range bySize {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PackSize < out[j].PackSize })
	return out
}
