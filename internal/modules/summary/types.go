package summary

import "time"

// SubjectKind discriminates what a summary describes.
type SubjectKind int

const (
	SubjectConflict SubjectKind = iota
	SubjectCountry
)

// Subject identifies what to summarise: a single conflict or a country-level
// aggregate. Both id spaces are positive integers.
type Subject struct {
	Kind SubjectKind
	ID   int64
}

// StorageKey folds the subject into the signed cache key: conflict ids are
// stored as-is, country aggregates as the negated country id. The sign
// convention exists only at the storage boundary.
func (s Subject) StorageKey() int64 {
	if s.Kind == SubjectCountry {
		return -s.ID
	}
	return s.ID
}

// Request is a resolved summary request. When both ids are set the conflict
// wins; the country id is kept as row metadata.
type Request struct {
	ConflictID   *int64
	CountryID    *int64
	ConflictName string
	CountryName  string
	ForceRefresh bool
}

func (r Request) subject() (Subject, bool) {
	if r.ConflictID != nil {
		return Subject{Kind: SubjectConflict, ID: *r.ConflictID}, true
	}
	if r.CountryID != nil {
		return Subject{Kind: SubjectCountry, ID: *r.CountryID}, true
	}
	return Subject{}, false
}

// Result is what the service hands back regardless of cache state.
type Result struct {
	Summary     string    `json:"summary"`
	Model       string    `json:"model"`
	Cached      bool      `json:"cached"`
	GeneratedAt time.Time `json:"generatedAt"`
}
