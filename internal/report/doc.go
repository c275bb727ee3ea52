// Package report renders a profile.Profile for the terminal or for files.
//
// This package contains writers for different output formats:
//   - SimpleWriter: the plain text summary printed after loading and cleaning
//   - MarkdownWriter: GitHub-flavoured Markdown with a mermaid kind chart
//   - JSONWriter: the Profile as JSON for other tools
//
// Writers implement the Writer interface and can be combined with
// MultiWriter.
package report
