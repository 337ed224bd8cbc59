package scanner

import "time"

// Stage names a step of the duplicate search.
type Stage int

const (
	StageResolve Stage = iota
	StageWalk
	StageHash
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageResolve:
		return "Resolving"
	case StageWalk:
		return "Scanning"
	case StageHash:
		return "Comparing"
	case StageDone:
		return "Done"
	}
	return "?"
}

// Progress reports scanning progress.
type Progress struct {
	// Stage is the step currently running.
	Stage Stage
	// CurrentPath is the path currently being visited or hashed.
	CurrentPath string
	// FilesScanned is the total files recorded so far.
	FilesScanned int64
	// DirsScanned is the total directories listed so far.
	DirsScanned int64
	// BytesFound is the total size of recorded files.
	BytesFound int64
	// Errors is the count of unreadable directories and broken links.
	Errors int64
	// FilesHashed and FilesToHash track the content comparison.
	FilesHashed int64
	FilesToHash int64
	// BytesHashed and BytesToHash track the content comparison in bytes.
	BytesHashed int64
	BytesToHash int64
	// Done indicates the search is complete.
	Done bool
	// StartTime is when the scan began.
	StartTime time.Time
	// Duration is elapsed time.
	Duration time.Duration
}

// ItemsPerSecond returns the walk rate.
func (p Progress) ItemsPerSecond() float64 {
	if p.Duration.Seconds() == 0 {
		return 0
	}
	return float64(p.FilesScanned+p.DirsScanned) / p.Duration.Seconds()
}

// HashFraction returns the share of bytes hashed, in [0, 1].
func (p Progress) HashFraction() float64 {
	if p.BytesToHash <= 0 {
		return 0
	}
	f := float64(p.BytesHashed) / float64(p.BytesToHash)
	if f > 1 {
		return 1
	}
	return f
}
