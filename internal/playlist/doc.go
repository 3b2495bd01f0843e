// Package playlist defines the course tree served to the player UI.
//
// A Course holds top-level Chapters, loose Videos and Documents. Chapters
// nest. Aggregate values (chapter duration, video counts, course totals)
// are computed on demand and emitted by the MarshalJSON methods, so the
// JSON always agrees with the tree it was produced from.
//
// Trees are built once by the scanner and then treated as immutable.
package playlist
