// Package transcript parses raw subtitle cue streams and groups the result
// into readable timestamped paragraphs.
//
// Parsing and grouping are pure functions over in-memory text. Deduplication
// is exact-match over the whole parse: the first occurrence of a cleaned line
// wins regardless of timestamp, so re-parsing already deduplicated output is
// a no-op.
package transcript
