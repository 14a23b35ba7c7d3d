// SPDX-License-Identifier: MIT

// Package matrix provides the dense score and label tables used by the
// decoder.
//
// A sentence of n tokens produces an (n+1)×(n+1) table whose row is the
// head index (0 = virtual root) and whose column is the dependent index.
// Column 0 is never populated: the virtual root is nobody's dependent.
//
//   - Dense: row-major float64 storage with safe At/Set accessors.
//     ±Inf is a legal value (−Inf marks an absent arc); NaN is rejected.
//   - Labels: a parallel string table holding the relation label chosen
//     for every (head, dependent) arc, initialised to Undefined.
//
// Both types return sentinel errors instead of panicking at the public
// surface; internal hot paths may index the flat buffer directly.
//
// Complexity quicksheet:
//   - NewDense/NewLabels: O(r*c); At/Set: O(1); Fill: O(r*c); Clone: O(r*c).
package matrix
