// Package state persists what the announcer needs between runs.
//
// Storage is a flat key-value space (KV) with interchangeable backends:
//   - file:     one file per key in a directory (the default)
//   - sqlite:   a single table in a local database file
//   - postgres: the same table on a shared server
//   - redis:    plain string keys under a prefix
//
// State is the typed view the announcer uses: the last announced selection,
// the template bags and the run mode.
package state
