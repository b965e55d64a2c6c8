// Package models lists the models that the configured translation provider
// offers for the current API key, so a value for --model can be picked.
package models
