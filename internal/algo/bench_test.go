package algo

import (
	"math/rand"
	"sort"
	"testing"
)

func BenchmarkFibonacci20(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Fibonacci(20)
	}
}

func BenchmarkSumIterative(b *testing.B) {
	numbers := sequence(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = SumIterative(numbers)
	}
}

func BenchmarkSumRecursive(b *testing.B) {
	numbers := sequence(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = SumRecursive(numbers)
	}
}

func BenchmarkBubbleSort(b *testing.B) {
	src := shuffled(1000)
	buf := make([]int, len(src))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(buf, src)
		BubbleSort(buf)
	}
}

func BenchmarkStdSort(b *testing.B) {
	src := shuffled(1000)
	buf := make([]int, len(src))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(buf, src)
		sort.Ints(buf)
	}
}

func sequence(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func shuffled(n int) []int {
	out := sequence(n)
	rng := rand.New(rand.NewSource(42))
	rng.Shuffle(n, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
