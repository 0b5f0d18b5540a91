// Package cli implements the command-line interface for showsync.
//
// The cli package provides the Cobra-based CLI: the root sync command that
// scrapes and reconciles venue calendars, plus subcommands for listing the
// persisted merged feed and exporting it as an iCalendar document. It
// coordinates the fetch, venue, pipeline, and storage packages.
package cli
