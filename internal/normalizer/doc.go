// Package normalizer turns one raw affiliation string into zero or more
// cleaned institution-name candidates.
//
// The transform is pure and deterministic, and idempotent over its own
// output: re-normalizing a cleaned candidate yields the candidate itself.
// The steps, in order:
//
//  1. Split on semicolons and the standalone word "and"
//  2. Split each part on commas, except that a "place, country" pair stays
//     joined (so "Cambridge, UK" is one unit, not two)
//  3. Drop any unit carrying a personal/role-identity marker as a whole
//     word ("Director at Acme" is somebody's job, not an institution)
//  4. Strip leading text through the first "at" or "@" ("Researcher at
//     MIT" becomes "MIT")
//  5. Trim whitespace and drop empty units
//
// The role-marker filter trades recall for precision on purpose: job
// titles it misses and legitimate institution names it swallows are both
// accepted costs.
package normalizer
