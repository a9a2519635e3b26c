package algo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinarySearch(t *testing.T) {
	arr := []int{1, 3, 5, 7, 9}

	idx, ok := BinarySearch(arr, 5)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = BinarySearch(arr, 4)
	assert.False(t, ok)

	_, ok = BinarySearch([]int{}, 1)
	assert.False(t, ok, "empty slice must not match")

	idx, ok = BinarySearch(arr, 1)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = BinarySearch(arr, 9)
	assert.True(t, ok)
	assert.Equal(t, 4, idx)
}

func TestBinarySearchStrings(t *testing.T) {
	arr := []string{"ant", "bee", "cat", "dog"}
	idx, ok := BinarySearch(arr, "cat")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestBubbleSort(t *testing.T) {
	arr := []int{5, 3, 8, 4, 2}
	BubbleSort(arr)
	assert.Equal(t, []int{2, 3, 4, 5, 8}, arr)

	empty := []int{}
	BubbleSort(empty)
	assert.Empty(t, empty)

	single := []int{42}
	BubbleSort(single)
	assert.Equal(t, []int{42}, single)
}

func TestBubbleSortRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	arr := make([]int, 200)
	for i := range arr {
		arr[i] = rng.Intn(1000)
	}
	BubbleSort(arr)
	assert.True(t, IsSorted(arr))
}

func TestDFS(t *testing.T) {
	g := Graph{
		1: {2, 3},
		2: {4, 5},
		3: {6},
		4: {},
		5: {},
		6: {},
	}
	assert.Equal(t, []int{1, 2, 4, 5, 3, 6}, g.DFS(1))
}

func TestDFSCycle(t *testing.T) {
	g := Graph{
		1: {2},
		2: {3},
		3: {1}, // cycle back to start
	}
	assert.Equal(t, []int{1, 2, 3}, g.DFS(1), "cycles must not loop forever")
}

func TestDFSUnknownStart(t *testing.T) {
	g := Graph{1: {2}, 2: {}}
	assert.Nil(t, g.DFS(99))
}

func TestFibonacci(t *testing.T) {
	cases := map[uint]uint64{
		0:  0,
		1:  1,
		2:  1,
		3:  2,
		10: 55,
		20: 6765,
		93: 12200160415121876738,
	}
	for n, want := range cases {
		assert.Equal(t, want, Fibonacci(n), "Fibonacci(%d)", n)
	}
}

func TestCoinChange(t *testing.T) {
	assert.Equal(t, []uint{25, 25, 10, 5, 1, 1}, CoinChange([]uint{1, 5, 10, 25}, 67))
	assert.Equal(t, []uint{}, CoinChange([]uint{1, 5, 10, 25}, 0))
	assert.Nil(t, CoinChange([]uint{5, 10}, 3), "unpayable amount yields nil")
	// Greedy limitation: {3,4} cannot greedily pay 6 even though 3+3 works.
	assert.Nil(t, CoinChange([]uint{3, 4}, 6))
}

func TestSums(t *testing.T) {
	numbers := []int{1, 2, 3, 4, 5}
	assert.Equal(t, 15, SumIterative(numbers))
	assert.Equal(t, 15, SumRecursive(numbers))
	assert.Equal(t, 0, SumIterative(nil))
	assert.Equal(t, 0, SumRecursive(nil))
}
