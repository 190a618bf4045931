package models

import "time"

// WriteKind tells whether a submission created the metafield or replaced it.
type WriteKind string

const (
	WriteCreate WriteKind = "create"
	WriteUpdate WriteKind = "update"
)

// ArchiveEntry is the record kept for each accepted submission outside the
// metafield, so that reviews lost to an overwrite can be recovered.
type ArchiveEntry struct {
	ProductID      int64
	MetafieldID    int64
	Review         *Review
	RequestID      string
	Kind           WriteKind
	CollectionSize int
	AcceptedAt     time.Time
}
