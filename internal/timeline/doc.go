// Package timeline derives a clip partition of a video from scene-change
// boundaries and supports editing it through merge and split.
//
// Detection produces contiguous, non-overlapping clips covering the whole
// video. Edits run against a Set, an arena addressing clips by their stable
// store-assigned identifiers; merge and split are replace-set transactions
// producing fresh clips with unassigned identity.
package timeline
