// Package features is the boundary between the decoder and its two external
// collaborators: the sparse feature generator and the learned weight vector.
//
//   - Generator turns a (head, dependent, label) triple of a sentence into a
//     Sparse vector. It is previewed once per sentence before any scoring
//     call so sentence-level caches are warm.
//   - Weights supports a dot product against a Sparse vector. WeightVector is
//     the map-backed implementation with gob persistence.
//   - Templates is a small reference Generator (lexical, POS, cluster, chunk
//     and distance templates). Production feature sets plug in their own
//     Generator; the decoder depends only on the interface.
//
// Weights and the dictionary are read-only while decoding, so any number of
// goroutines may score against them concurrently.
package features
