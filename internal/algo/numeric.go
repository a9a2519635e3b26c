package algo

import "sort"

// Fibonacci computes the n-th Fibonacci number iteratively.
// Results overflow uint64 beyond n=93.
func Fibonacci(n uint) uint64 {
	if n <= 1 {
		return uint64(n)
	}
	prev, curr := uint64(0), uint64(1)
	for i := uint(2); i <= n; i++ {
		prev, curr = curr, prev+curr
	}
	return curr
}

// CoinChange makes change for amount using a greedy largest-coin-first
// strategy. It returns nil when the amount cannot be paid exactly.
//
// Greedy change is only optimal for canonical coin systems; for arbitrary
// denominations it can miss payable amounts (e.g. coins {3,4}, amount 6).
func CoinChange(coins []uint, amount uint) []uint {
	sorted := make([]uint, len(coins))
	copy(sorted, coins)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })

	result := make([]uint, 0)
	remaining := amount
	for _, coin := range sorted {
		if coin == 0 {
			continue
		}
		for remaining >= coin {
			result = append(result, coin)
			remaining -= coin
		}
	}
	if remaining != 0 {
		return nil
	}
	return result
}

// SumIterative sums numbers with a plain loop.
func SumIterative(numbers []int) int {
	total := 0
	for _, n := range numbers {
		total += n
	}
	return total
}

// SumRecursive sums numbers recursively. Benchmark subject only: it costs a
// stack frame per element.
func SumRecursive(numbers []int) int {
	if len(numbers) == 0 {
		return 0
	}
	return numbers[0] + SumRecursive(numbers[1:])
}
