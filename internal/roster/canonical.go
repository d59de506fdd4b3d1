package roster

import (
	"sort"
	"strconv"
)

// missingTimeSentinel sorts a signature with no start time after any real
// HH:MM value during tie-breaking.
const missingTimeSentinel = "￿"

// CanonicalVariant pairs a signature with its final display label and
// observed frequency.
type CanonicalVariant struct {
	Sig       VariantSignature
	Label     string
	Frequency int
}

// Canonicalize assigns one stable display label per signature. Signatures
// sharing a base title are ranked by descending frequency, ties broken by
// ascending start time (missing start times last); the winner keeps the bare
// title and the rest get the title suffixed with their 1-based rank.
//
// The result is a pure function of the signature set and frequencies: input
// ordering does not affect it.
func Canonicalize(stats []SignatureStats) []CanonicalVariant {
	groups := make(map[string][]SignatureStats)
	for _, s := range stats {
		groups[s.Sig.Title] = append(groups[s.Sig.Title], s)
	}

	titles := make([]string, 0, len(groups))
	for t := range groups {
		titles = append(titles, t)
	}
	sort.Strings(titles)

	var out []CanonicalVariant
	for _, title := range titles {
		group := groups[title]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Count != group[j].Count {
				return group[i].Count > group[j].Count
			}
			return startKey(group[i].Sig) < startKey(group[j].Sig)
		})
		for rank, s := range group {
			label := title
			if rank > 0 {
				label = title + strconv.Itoa(rank)
			}
			out = append(out, CanonicalVariant{Sig: s.Sig, Label: label, Frequency: s.Count})
		}
	}
	return out
}

// LabelMap flattens canonical variants into a signature -> label lookup.
func LabelMap(variants []CanonicalVariant) map[VariantSignature]string {
	m := make(map[VariantSignature]string, len(variants))
	for _, v := range variants {
		m[v.Sig] = v.Label
	}
	return m
}

func startKey(sig VariantSignature) string {
	if sig.StartTime == "" {
		return missingTimeSentinel
	}
	return sig.StartTime
}
