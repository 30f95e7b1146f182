package events

import "time"

// AssemblyStart is emitted before document models are turned into a schema.
type AssemblyStart struct {
	Source string
	Models int
}

// AssemblyFinish is emitted once schema assembly completes or fails.
type AssemblyFinish struct {
	Source     string
	Types      int
	Unresolved int
	Err        error
	Duration   time.Duration
}

// TypeRegistered is emitted each time an object type is stored in a registry.
type TypeRegistered struct {
	Type   string
	Model  string
	Fields int
}

// FieldsResolved is emitted when a rescan adds previously unresolvable fields.
type FieldsResolved struct {
	Type   string
	Fields []string
}
