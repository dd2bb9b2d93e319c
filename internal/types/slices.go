package types

import "sort"

// SliceContains returns true if the given slice contains the given value.
func SliceContains[T comparable](slice []T, value T) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// SliceUnique returns a new slice with unique values from the given slice.
func SliceUnique[T comparable](slice []T) []T {
	visited := make(map[T]bool)
	var result []T
	for _, item := range slice {
		if _, ok := visited[item]; !ok {
			visited[item] = true
			result = append(result, item)
		}
	}
	return result
}

// SliceDifference returns the sorted unique values of a that are not in b.
func SliceDifference(a, b []string) []string {
	exclude := make(map[string]bool, len(b))
	for _, item := range b {
		exclude[item] = true
	}

	var result []string
	for _, item := range SliceUnique(a) {
		if !exclude[item] {
			result = append(result, item)
		}
	}
	sort.Strings(result)
	return result
}
