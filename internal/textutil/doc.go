// Package textutil holds the string canonicalization used to compare media titles:
// width/case/punctuation folding, Chinese script detection and conversion, and the
// sequence-similarity ratio used by the lower-confidence keyword path.
package textutil
