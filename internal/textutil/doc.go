// Package textutil provides the text normalization and similarity helpers shared by
// the language detector, the reference resolver, and the entry store.
//
// The primary use cases are:
//   - Folding case and diacritics so "Étude" and "etude" compare equal
//   - Producing the normalized term used as the store's uniqueness key
//   - Building token fingerprints and comparing them with cosine similarity
//
// Fingerprints use term frequency vectors. Tokenization folds the text, splits on
// non-alphanumeric characters, and drops tokens shorter than 3 characters.
package textutil
