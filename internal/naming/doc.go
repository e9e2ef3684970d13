// Package naming sanitizes user-editable naming fields and composes
// deterministic, collision-free output paths.
//
// Sanitization is idempotent and never yields an empty component. Paths
// follow {base}/{author-folder}/{author}_{topic}_{year}[_{n}].{ext}, with
// the author folder sanitized independently of the filename's author
// segment. Collisions resolve by numeric suffixing up to a fixed ceiling.
package naming
