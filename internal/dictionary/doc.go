// Package dictionary defines the dictionary entry aggregate and its value
// types: definitions, references, quality scores, and usage metadata.
//
// Entries are plain values. The generation and enhancement packages produce
// them; the store package persists them.
package dictionary
