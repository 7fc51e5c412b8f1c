// Package dedup merges wallet-address lists gathered from multiple
// leaderboard sources into one unique set with provenance.
package dedup

import "strings"

// List is one ordered address list tagged with its source label.
type List struct {
	Source    string
	Addresses []string
}

// Result is the merged outcome: unique addresses in first-seen order with
// first-seen casing, plus a lower-cased-address -> comma-joined source map.
type Result struct {
	Addresses []string
	Sources   map[string]string
}

// Merge combines labeled address lists. Addresses are identical when they
// match case-insensitively; the casing of the first occurrence wins. Every
// list that produced an address contributes its label, comma-joined in list
// order; repeats of an address within the same list do not re-append it.
func Merge(lists ...List) Result {
	var addresses []string
	seen := make(map[string]bool)
	sources := make(map[string]string)
	lastList := make(map[string]int)

	for k, list := range lists {
		for _, addr := range list.Addresses {
			low := strings.ToLower(addr)
			if !seen[low] {
				seen[low] = true
				addresses = append(addresses, addr)
			}
			if _, ok := sources[low]; !ok {
				sources[low] = list.Source
				lastList[low] = k
			} else if lastList[low] != k {
				sources[low] += "," + list.Source
				lastList[low] = k
			}
		}
	}

	return Result{Addresses: addresses, Sources: sources}
}

// SourceFor returns the provenance string for an address, or "unknown" when
// the address was never merged.
func (r Result) SourceFor(address string) string {
	if src, ok := r.Sources[strings.ToLower(address)]; ok {
		return src
	}
	return "unknown"
}
