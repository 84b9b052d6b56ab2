package utils

import (
	"sort"
)

// UniqueSorted merges the given slices, drops empty and duplicate values and sorts the result ascending.
func UniqueSorted(lists ...[]string) []string {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, item := range list {
			if item == "" {
				continue
			}
			set[item] = struct{}{}
		}
	}
	result := make([]string, 0, len(set))
	for item := range set {
		result = append(result, item)
	}
	sort.Strings(result)
	return result
}
