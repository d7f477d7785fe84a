package shared

import "strings"

// maxTitleLength bounds sanitized titles so the playlist directory plus
// yt-dlp's own output filenames stay under common filesystem path limits.
const maxTitleLength = 150

// SanitizeTitle converts a playlist title into a filesystem-safe path segment.
//
// Path separators, characters rejected by common filesystems, and control
// characters are replaced with underscores. Leading/trailing dots and spaces
// are trimmed and overly long titles are truncated on a rune boundary.
// The id is always appended: playlist titles are not unique on YouTube,
// so two playlists carrying the same title must still map to distinct
// directories. An empty result falls back to the id alone.
func SanitizeTitle(title, id string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, title)

	cleaned = strings.Trim(cleaned, ". ")

	if len(cleaned) > maxTitleLength {
		runes := []rune(cleaned)
		for len(string(runes)) > maxTitleLength {
			runes = runes[:len(runes)-1]
		}
		cleaned = string(runes)
	}

	if cleaned == "" {
		return id
	}
	if id == "" {
		return cleaned
	}
	return cleaned + "-" + id
}
