// Package htmlmd converts the reference section of an HTML documentation
// page into markdown. Conversion is a pure function over the parsed
// document tree: headings, paragraphs, tables and code blocks are kept,
// everything else is dropped.
package htmlmd
