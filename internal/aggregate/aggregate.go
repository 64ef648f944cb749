// Package aggregate deduplicates record collections with set semantics.
//
// Duplicates are a fact of the crawl, not a bug: one citing author may cite
// the root author through several papers, and one cleaned institution name
// may arise from several raw strings. Every pipeline boundary (post-crawl,
// post-clean, post-geocode) runs its collection through Unique so that
// result-set equality is independent of worker arrival order.
package aggregate

// Unique returns the input with duplicates removed by full structural
// equality. First occurrence order is preserved and the input slice is not
// modified.
func Unique[T comparable](in []T) []T {
	if len(in) == 0 {
		return nil
	}

	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Merge unions several collections into one deduplicated set. The pipeline
// uses it to combine pre-cleaning and post-cleaning affiliation records
// before geocoding: cleaning only adds candidates, it never removes the raw
// form's chance to resolve.
func Merge[T comparable](sets ...[]T) []T {
	var all []T
	for _, s := range sets {
		all = append(all, s...)
	}
	return Unique(all)
}
