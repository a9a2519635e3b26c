package algo

import "cmp"

// BubbleSort sorts arr in place. It exists as a benchmark subject next to
// the standard library sort, not as the recommended way to sort anything.
func BubbleSort[T cmp.Ordered](arr []T) {
	n := len(arr)
	for i := 0; i < n; i++ {
		swapped := false
		for j := 0; j < n-i-1; j++ {
			if arr[j] > arr[j+1] {
				arr[j], arr[j+1] = arr[j+1], arr[j]
				swapped = true
			}
		}
		if !swapped {
			return
		}
	}
}

// IsSorted reports whether arr is in non-decreasing order.
func IsSorted[T cmp.Ordered](arr []T) bool {
	for i := 1; i < len(arr); i++ {
		if arr[i] < arr[i-1] {
			return false
		}
	}
	return true
}
