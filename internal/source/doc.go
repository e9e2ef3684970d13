// Package source retrieves video metadata and raw subtitle cue streams.
//
// The Source interface is what the batch coordinator depends on; YtDlp is
// the production implementation shelling out to the yt-dlp binary. ID
// extraction and naming-field derivation live here because they operate on
// raw source metadata before anything else sees it.
package source
