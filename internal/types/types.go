package types

import (
	"fmt"
	"path/filepath"
)

// Category is the destination folder label a file is sorted into.
type Category string

const (
	CategoryImages    Category = "Images"
	CategoryVideos    Category = "Videos"
	CategoryDocuments Category = "Documents"
	CategoryAudio     Category = "Audio"
	CategoryArchives  Category = "Archives"
	CategoryCode      Category = "Code"
	CategoryOthers    Category = "Others"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryImages,
	CategoryVideos,
	CategoryDocuments,
	CategoryAudio,
	CategoryArchives,
	CategoryCode,
	CategoryOthers,
}

// FileEntry is a file discovered while listing the target directory.
type FileEntry struct {
	Path string // Absolute path
	Name string // Base filename
	Ext  string // Lowercase extension including the dot, empty if none
}

// Action is the kind of event written to the journal.
type Action string

const (
	ActionMoved   Action = "moved"
	ActionPlanned Action = "planned"
	ActionSkipped Action = "skipped"
	ActionError   Action = "error"
	ActionCleanup Action = "cleanup"
	ActionSession Action = "session"
	ActionSummary Action = "summary"
)

// MoveRecord is the outcome of one attempted relocation.
type MoveRecord struct {
	Source      string
	Destination string
	Category    Category
	Action      Action
	Reason      string // Why a file was skipped
	Err         error
}

// Failed reports whether the move ended in an error.
func (r MoveRecord) Failed() bool {
	return r.Action == ActionError
}

// Renamed reports whether the destination name differs from the source name.
func (r MoveRecord) Renamed() bool {
	return r.Destination != "" && filepath.Base(r.Source) != filepath.Base(r.Destination)
}

// Summary aggregates the outcome of a run.
type Summary struct {
	Dir           string
	Total         int
	Moved         int
	Planned       int
	Skipped       int
	Failed        int
	RemovedDirs   []string
	CleanupErrors int
	Interrupted   bool
	PerCategory   map[Category]int
}

// Add folds a move record into the summary counters.
func (s *Summary) Add(rec MoveRecord) {
	s.Total++
	switch rec.Action {
	case ActionMoved:
		s.Moved++
	case ActionPlanned:
		s.Planned++
	case ActionSkipped:
		s.Skipped++
		return
	case ActionError:
		s.Failed++
		return
	}
	if s.PerCategory == nil {
		s.PerCategory = make(map[Category]int)
	}
	s.PerCategory[rec.Category]++
}

// String renders a one-line human summary.
func (s *Summary) String() string {
	return fmt.Sprintf("Processed %d files: %d moved, %d skipped, %d failed. Removed %d empty folders.",
		s.Total, s.Moved, s.Skipped, s.Failed, len(s.RemovedDirs))
}
