package sorter

import (
	"fmt"
	"path/filepath"
	"strings"
)

// sanitizer maps characters that are illegal on common filesystems to
// recognizable stand-ins. Slashes become dashes (the only invalid character
// on *NIX), double quotes cause enough shell headaches to drop outright,
// and the Windows-reserved set is removed.
var sanitizer = strings.NewReplacer(
	"/", "-",
	`"`, "",
	":", "",
	"<", "",
	">", "",
	"\\", "",
	"|", "",
	"?", "",
	"*", "",
)

// SanitizeName makes a title safe for use as a path component
func SanitizeName(name string) string {
	return strings.TrimSpace(sanitizer.Replace(name))
}

// MovieDestination composes the destination path for a movie:
//
//	{root}/{Title} ({Year})/{Title} ({Year})[ - [tag1 tag2]].{ext}
//
// The metainfo block is omitted when tags is empty.
func MovieDestination(root, title, year string, tags []string, ext string) string {
	title = SanitizeName(title)
	base := fmt.Sprintf("%s (%s)", title, year)

	name := base
	if len(tags) > 0 {
		name = fmt.Sprintf("%s - [%s]", base, strings.Join(tags, " "))
	}

	return filepath.Join(root, base, name+ext)
}

// TVDestination composes the destination path for an episode:
//
//	{root}/{Series}/Season {NN}/{Series} - S{NN}E{NN}[ - {Episode Title}].{ext}
//
// Numbers are zero-padded to two digits; values of 100 or more keep their
// natural width.
func TVDestination(root, series string, season, episode int, episodeTitle, ext string) string {
	series = SanitizeName(series)

	name := fmt.Sprintf("%s - S%02dE%02d", series, season, episode)
	if episodeTitle != "" {
		name = fmt.Sprintf("%s - %s", name, SanitizeName(episodeTitle))
	}

	return filepath.Join(root,
		series,
		fmt.Sprintf("Season %02d", season),
		name+ext)
}
