package models

import "time"

// Asset is the durable record of a successfully uploaded and transcoded
// image. Immutable after creation; deletion is a soft-delete followed by an
// asynchronous blob purge.
type Asset struct {
	ID           string
	FileName     string
	Key          string
	Backend      string
	ContentType  string
	SourceFormat string
	SizeBytes    int64
	Width        int
	Height       int
	DeletedAt    *time.Time
	CreatedAt    time.Time
}
