package extract

import (
	"github.com/joshuapare/ndxkit/pkg/types"
)

// SectionReport is the outcome of one section.
type SectionReport struct {
	ID       types.SectionID
	Section  uint32 // resolved section number; equals ID.Value() for numeric ids
	Config   types.SectionConfig
	Excluded bool
	Offsets  int // entries in the offset list
	Images   int // records decoded and dispatched for writing
	Skipped  int // records that produced no image
	Err      error
}

// WriteError is a failed image write. It never stops the batch.
type WriteError struct {
	Name    string
	Section types.SectionID
	Err     error
}

func (e WriteError) Error() string { return e.Name + ": " + e.Err.Error() }

func (e WriteError) Unwrap() error { return e.Err }

// Report carries the run totals. It replaces the global counters of a
// single-threaded extractor so the write stage can run in parallel.
type Report struct {
	Sections     []SectionReport
	Images       int // images decoded across all sections
	Skipped      int
	Written      int
	FailedWrites []WriteError
}

// FailedSections counts sections that could not be enumerated.
func (r *Report) FailedSections() int {
	n := 0
	for _, s := range r.Sections {
		if s.Err != nil {
			n++
		}
	}
	return n
}

// Failed reports whether any section or write failed.
func (r *Report) Failed() bool {
	return r.FailedSections() > 0 || len(r.FailedWrites) > 0
}
