package catalog

import "strings"

// Merge combines remote and local programs keyed by id. Remote entries keep their order; a local entry
// replaces the remote entry with the same id in place, otherwise it is appended.
func Merge(remote, local []Program) []Program {
	merged := make([]Program, 0, len(remote)+len(local))
	index := make(map[string]int, len(remote)+len(local))

	put := func(p Program) {
		if i, ok := index[p.ID]; ok {
			merged[i] = p
			return
		}
		index[p.ID] = len(merged)
		merged = append(merged, p)
	}
	for _, p := range remote {
		put(p)
	}
	for _, p := range local {
		put(p)
	}
	return merged
}

// MergeCategories unions remote categories with those implied by local programs, keeping first occurrence.
func MergeCategories(remote []string, local []Program) []string {
	out := make([]string, 0, len(remote)+len(local))
	seen := make(map[string]struct{}, len(remote)+len(local))
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, c := range remote {
		add(c)
	}
	for _, p := range local {
		add(p.Category)
	}
	return out
}
