// Package database provides SQLite-based checkpoint storage for citemap.
//
// Checkpoints persist intermediate crawl output keyed by (author ID, stage)
// so a re-run can resume after the expensive, blockable network traversal
// instead of repeating it. Two stages are stored: the citation-edge set and
// the pre-normalization affiliation record set. Checkpoints never expire;
// staleness is the caller's responsibility and Delete forces a refresh.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of flat
// files because:
//  1. No external dependencies - the store is a single file
//  2. CGO-free implementation allows easy cross-compilation
//  3. (author, stage) keying and atomic replace come for free
//  4. WAL mode keeps reads cheap while a run is writing
package database
