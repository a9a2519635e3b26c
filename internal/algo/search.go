// SPDX-License-Identifier: MIT

// Package algo collects classic search, sort and graph routines with
// uniform generic signatures.
package algo

import "cmp"

// BinarySearch returns the index of target in the sorted slice arr.
// The second return value is false when target is absent.
func BinarySearch[T cmp.Ordered](arr []T, target T) (int, bool) {
	left, right := 0, len(arr)
	for left < right {
		mid := int(uint(left+right) >> 1) // avoid overflow on huge slices
		switch {
		case arr[mid] == target:
			return mid, true
		case arr[mid] < target:
			left = mid + 1
		default:
			right = mid
		}
	}
	return 0, false
}
