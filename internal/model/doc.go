// Package model defines the run record shared by the pipeline, the report
// writers and the history database.
//
// An Analysis is created per invocation and carries the current table, the
// profiles taken before and after cleaning, the cleaned file path and the
// chart artifacts. It is serializable to JSON; the table itself is not.
package model
