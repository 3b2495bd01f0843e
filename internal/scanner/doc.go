// Package scanner walks a course folder and builds the playlist tree.
//
// Folders become chapters, videos become lessons, subtitles are linked to
// their video by file stem, and images and documents are listed as chapter
// resources. A folder that only wraps a single video is flattened into its
// parent. Ordering at every level comes from the ordering package.
//
// Fingerprint hashes names, sizes and modification times of every
// visible file. Cache uses it to skip rebuilding the tree when nothing on
// disk has changed.
package scanner
