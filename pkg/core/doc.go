// Package core defines the shared data types of leapsheet.
//
// This package contains:
//   - Value, the tagged cell value (Null, String, Number, Boolean, Date)
//   - FlatTable and Record, a sheet flattened to name-keyed records
//   - Table, the column-ordered table handed to SQL and renderers
//   - Adapter configuration and table metadata types
//
// pkg/core imports only the standard library. All other packages depend on
// core, not the reverse.
package core
