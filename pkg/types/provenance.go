package types

import "time"

// Provenance records where a schematic was read from.
type Provenance interface {
	Kind() string
	// Path returns a displayable location, or "" if there is none.
	Path() string
}

// FileProvenance is a schematic read from a file on disk.
type FileProvenance struct {
	FilePath string
}

func (f FileProvenance) Kind() string { return "file" }
func (f FileProvenance) Path() string { return f.FilePath }

// StdinProvenance is a schematic piped to the CLI.
type StdinProvenance struct{}

func (StdinProvenance) Kind() string { return "stdin" }
func (StdinProvenance) Path() string { return "-" }

// GitProvenance is a schematic read from a blob in a git tree.
type GitProvenance struct {
	RepoPath string
	Commit   *CommitMetadata // nil if commit info was not collected
	BlobPath string          // path within the tree
}

func (g GitProvenance) Kind() string { return "git" }
func (g GitProvenance) Path() string { return g.BlobPath }

// CommitMetadata holds git commit information.
type CommitMetadata struct {
	CommitID        string
	AuthorName      string
	AuthorEmail     string
	AuthorTimestamp time.Time
	Message         string
}

// ExtendedProvenance is a schematic submitted by a client of the streaming
// server, labelled with whatever source string the client supplied.
type ExtendedProvenance struct {
	Source string
}

func (e ExtendedProvenance) Kind() string { return "extended" }
func (e ExtendedProvenance) Path() string { return e.Source }
