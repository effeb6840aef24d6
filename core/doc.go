// Package core defines the shared data model of the research agent: queries,
// completed turns, tool invocation records and their error taxonomy. Values in
// this package are plain data; once a Turn has been handed to conversation
// memory it must be treated as immutable.
package core
