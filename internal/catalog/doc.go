// Package catalog ties the pipeline to persistence.
//
// Service looks terms up in a store.Repository and generates the missing ones,
// saves enhancements, persists batch output and sweeps low-scoring entries
// through the enhancer. Generation, reference resolution and validation stay
// in their own packages; catalog only decides what to load and what to save.
package catalog
