// Package preflight provides readiness checks for the external binary and
// filesystem paths that Scrivener depends on.
//
// These checks run in two contexts:
//   - The batch coordinator's callers run them before starting a long batch
//     so a missing yt-dlp or full disk surfaces up front.
//   - The CLI "scrivener doctor" command displays each check's outcome.
package preflight
