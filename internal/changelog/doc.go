// Package changelog records upstream differences between runs. Each entry
// holds a unified diff per source and is prepended to changelog.md; existing
// entries are kept byte for byte unless a retention limit drops the oldest.
package changelog
