// Package processor contains the update pipeline of cmdref. It fetches both
// command references, compares them with the cached snapshot, records the
// differences in the changelog, translates the combined document and writes
// output.md. Nothing is written unless every step up to the translation
// succeeded, and the cache is always written last.
package processor
