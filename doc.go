// Package deptree decodes labeled dependency trees from per-arc scores.
//
// A sentence of n tokens becomes an (n+1)×(n+1) score matrix (row = head,
// column = dependent, index 0 = virtual root). Every candidate arc gets a
// relation label, chosen from the labels seen for its POS pair in training,
// and a score from an external feature generator and weight vector. A
// maximum spanning arborescence (Chu–Liu/Edmonds) over that matrix gives
// the tree. During training, decoding can be loss-augmented: arcs that
// disagree with gold get +1 (Hamming margin rescaling).
//
// What lives where:
//
//	sentence/       immutable 1-indexed token records; CoNLL-X reader
//	structure/      heads + relations, dependents view, tree validation
//	relations/      relation dictionary, label catalogue, file and Redis stores
//	features/       generator / weights boundary, reference templates
//	scorer/         label selection and arc scoring
//	matrix/         dense score and label matrices
//	arborescence/   Chu–Liu/Edmonds maximum spanning arborescence
//	decoder/        score matrix, root strategies, tree extraction
//	loss/           Hamming loss and attachment scores
//	corpus/         parallel dictionary building, batch decoding, evaluation
//	config/         YAML configuration
//	server/         HTTP decoding service
//	cmd/deptree/    command line
//
// Quick example, "John ate apples":
//
//	<root> ──ROOT──▶ ate
//	ate    ──SBJ───▶ John
//	ate    ──OBJ───▶ apples
//
//	deptree --dict rel.gob build-dict train.conll
//	deptree --dict rel.gob --weights w.gob parse input.conll
package deptree
