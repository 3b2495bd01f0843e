package playlist

import (
	"encoding/json"

	"github.com/Lacarte/video-player/internal/mediatypes"
)

// Subtitle is a subtitle track linked to a video.
type Subtitle struct {
	Lang  string `json:"lang"`
	Label string `json:"label"`
	Path  string `json:"path"`
	File  string `json:"file"`
}

// Document is a non-video resource shown alongside a chapter.
type Document struct {
	Type  mediatypes.DocumentType `json:"type"`
	Title string                  `json:"title"`
	File  string                  `json:"file"`
	Path  string                  `json:"path"`
}

// Video is a single lesson. Duration is in whole seconds and is zero
// until a client measures it.
type Video struct {
	Title     string
	File      string
	Path      string
	Order     int
	Duration  int
	Subtitles []Subtitle
}

// MarshalJSON implements json.Marshaler.
func (v Video) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string     `json:"type"`
		Title     string     `json:"title"`
		File      string     `json:"file"`
		Path      string     `json:"path"`
		Order     int        `json:"order"`
		Duration  int        `json:"duration"`
		Subtitles []Subtitle `json:"subtitles"`
	}{
		Type:      "video",
		Title:     v.Title,
		File:      v.File,
		Path:      v.Path,
		Order:     v.Order,
		Duration:  v.Duration,
		Subtitles: nonNil(v.Subtitles),
	})
}

// Chapter is a folder holding videos, resources and nested chapters.
// Path is relative to the course root with forward slashes.
type Chapter struct {
	Title     string
	Order     int
	Path      string
	Videos    []Video
	Documents []Document
	Children  []Chapter
}

// Duration is the sum of every video duration in the subtree.
func (c Chapter) Duration() int {
	total := 0
	for _, v := range c.Videos {
		total += v.Duration
	}
	for _, child := range c.Children {
		total += child.Duration()
	}
	return total
}

// VideoCount is the number of videos in the subtree.
func (c Chapter) VideoCount() int {
	count := len(c.Videos)
	for _, child := range c.Children {
		count += child.VideoCount()
	}
	return count
}

// MarshalJSON implements json.Marshaler.
func (c Chapter) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string     `json:"type"`
		Title      string     `json:"title"`
		Order      int        `json:"order"`
		Path       string     `json:"path"`
		Duration   int        `json:"duration"`
		VideoCount int        `json:"video_count"`
		Videos     []Video    `json:"videos"`
		Documents  []Document `json:"documents"`
		Children   []Chapter  `json:"children"`
	}{
		Type:       "chapter",
		Title:      c.Title,
		Order:      c.Order,
		Path:       c.Path,
		Duration:   c.Duration(),
		VideoCount: c.VideoCount(),
		Videos:     nonNil(c.Videos),
		Documents:  nonNil(c.Documents),
		Children:   nonNil(c.Children),
	})
}

// Course is the root of the playlist tree.
type Course struct {
	Title         string
	RootPath      string
	Port          int
	Chapters      []Chapter
	Documents     []Document
	Videos        []Video
	StructureHash string
}

// TotalDuration is the sum of every video duration in the course.
func (c Course) TotalDuration() int {
	total := 0
	for _, ch := range c.Chapters {
		total += ch.Duration()
	}
	for _, v := range c.Videos {
		total += v.Duration
	}
	return total
}

// TotalVideos is the number of videos in the course.
func (c Course) TotalVideos() int {
	count := len(c.Videos)
	for _, ch := range c.Chapters {
		count += ch.VideoCount()
	}
	return count
}

// WithPort returns a shallow copy of c that reports port. The tree itself
// is shared, which is safe because nothing mutates a built course.
func (c Course) WithPort(port int) Course {
	c.Port = port
	return c
}

// MarshalJSON implements json.Marshaler.
func (c Course) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type          string     `json:"type"`
		Title         string     `json:"title"`
		RootPath      string     `json:"root_path"`
		Port          int        `json:"port"`
		TotalDuration int        `json:"total_duration"`
		TotalVideos   int        `json:"total_videos"`
		Chapters      []Chapter  `json:"chapters"`
		Documents     []Document `json:"documents"`
		Videos        []Video    `json:"videos"`
		StructureHash string     `json:"structure_hash"`
	}{
		Type:          "course",
		Title:         c.Title,
		RootPath:      c.RootPath,
		Port:          c.Port,
		TotalDuration: c.TotalDuration(),
		TotalVideos:   c.TotalVideos(),
		Chapters:      nonNil(c.Chapters),
		Documents:     nonNil(c.Documents),
		Videos:        nonNil(c.Videos),
		StructureHash: c.StructureHash,
	})
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
