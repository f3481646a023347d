// Package classify maps filenames to destination categories by extension.
package classify

import (
	"strings"

	"github.com/mydehq/organizer/internal/types"
)

var categoryExtensions = map[types.Category][]string{
	types.CategoryImages:    {".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp"},
	types.CategoryVideos:    {".mp4", ".mkv", ".mov", ".avi", ".wmv", ".flv"},
	types.CategoryDocuments: {".pdf", ".doc", ".docx", ".txt", ".xls", ".xlsx", ".ppt", ".pptx", ".csv"},
	types.CategoryAudio:     {".mp3", ".wav", ".flac", ".aac", ".ogg"},
	types.CategoryArchives:  {".zip", ".rar", ".7z", ".tar", ".gz"},
	types.CategoryCode:      {".py", ".js", ".html", ".css", ".c", ".cpp", ".java", ".json", ".xml"},
}

// table is built once and never written afterwards.
var table = buildTable()

func buildTable() map[string]types.Category {
	t := make(map[string]types.Category)
	for cat, exts := range categoryExtensions {
		for _, ext := range exts {
			if prev, dup := t[ext]; dup {
				panic("classify: extension " + ext + " mapped to both " + string(prev) + " and " + string(cat))
			}
			t[ext] = cat
		}
	}
	return t
}

// Ext returns the lowercase extension of name, including the leading dot.
// Names without a dot, or whose only dot is the first character, have no extension.
func Ext(name string) string {
	return strings.ToLower(RawExt(name))
}

// RawExt is Ext without case folding.
func RawExt(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	return name[i:]
}

// Classify returns the category for a filename. Unknown extensions map to Others.
func Classify(name string) types.Category {
	if cat, ok := table[Ext(name)]; ok {
		return cat
	}
	return types.CategoryOthers
}

// Extensions returns the extensions registered for a category.
func Extensions(cat types.Category) []string {
	exts := categoryExtensions[cat]
	out := make([]string, len(exts))
	copy(out, exts)
	return out
}
