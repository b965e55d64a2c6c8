// Package output assembles the combined source document that is sent to the
// translator and renders the translated reference written to output.md.
package output
