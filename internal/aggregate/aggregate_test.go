package aggregate

import (
	"reflect"
	"testing"
)

// TestUnique tests order-preserving deduplication.
func TestUnique(t *testing.T) {
	t.Parallel()

	t.Run("removes duplicates keeping first occurrence", func(t *testing.T) {
		t.Parallel()

		got := Unique([]string{"a", "b", "a", "c", "b"})
		want := []string{"a", "b", "c"}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("already unique input is unchanged", func(t *testing.T) {
		t.Parallel()

		got := Unique([]int{3, 1, 2})
		want := []int{3, 1, 2}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty input yields nil", func(t *testing.T) {
		t.Parallel()

		if got := Unique([]string(nil)); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})

	t.Run("works on struct values", func(t *testing.T) {
		t.Parallel()

		type pair struct{ A, B string }
		got := Unique([]pair{{"x", "y"}, {"x", "y"}, {"x", "z"}})

		if len(got) != 2 {
			t.Errorf("got %d elements, want 2", len(got))
		}
	})
}

// TestMerge tests set union across slices.
func TestMerge(t *testing.T) {
	t.Parallel()

	t.Run("unions with cross-slice deduplication", func(t *testing.T) {
		t.Parallel()

		got := Merge([]string{"a", "b"}, []string{"b", "c"}, []string{"a", "d"})
		want := []string{"a", "b", "c", "d"}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("no slices yields nil", func(t *testing.T) {
		t.Parallel()

		if got := Merge[string](); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})

	t.Run("single slice is deduplicated", func(t *testing.T) {
		t.Parallel()

		got := Merge([]int{1, 1, 2})
		want := []int{1, 2}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}
