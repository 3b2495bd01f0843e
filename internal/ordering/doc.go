// Package ordering derives the natural sort order of course folders and
// files from their names.
//
// Each name maps to a Key of (bucket, group, order, tiebreak). Keys
// compare in that order, so "2 Intro" sorts before "10 Outro" and
// "Lesson 9" before "Lesson 10". The bucket puts names with no number
// after every numbered name, whatever the script, and dash-prefixed
// names just before them.
//
// The engine is pure: every input string yields a key and a title.
package ordering
