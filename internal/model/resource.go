package model

import "encoding/json"

// ChapterType is the kind of a resource chapter.
type ChapterType int

const (
	ChapterPage      ChapterType = 0
	ChapterFolder    ChapterType = 1
	ChapterQuestions ChapterType = 2
)

func (t ChapterType) String() string {
	switch t {
	case ChapterPage:
		return "page"
	case ChapterFolder:
		return "folder"
	case ChapterQuestions:
		return "questions"
	}
	return "unknown"
}

// Chapter is a node of a resource outline. The API sends chapters as a flat
// list with parent pointers; Chapters is filled in by tree reconstruction.
type Chapter struct {
	ID            int             `json:"id"`
	ParentChapter *int            `json:"parent_chapter"`
	Name          string          `json:"name"`
	Type          ChapterType     `json:"type"`
	Order         int             `json:"order"`
	Content       json.RawMessage `json:"content,omitempty"`
	Chapters      []*Chapter      `json:"chapters,omitempty"`
}

// Resource is a piece of onboarding material, optionally a course.
type Resource struct {
	ID       int        `json:"id,omitempty"`
	Name     string     `json:"name"`
	Category *Item      `json:"category,omitempty"`
	Course   bool       `json:"course"`
	OnDay    int        `json:"on_day"`
	Tags     []string   `json:"tags,omitempty"`
	Chapters []*Chapter `json:"chapters"`
}

// Course is a resource assigned to a new hire together with their progress.
type Course struct {
	ID        int      `json:"id"`
	Step      int      `json:"step"`
	Completed bool     `json:"completed_course"`
	Resource  Resource `json:"resource"`
}

// ResourceView pairs the reconstructed outline with the flat list as received.
type ResourceView struct {
	Organized Resource `json:"organized"`
	Original  Resource `json:"original"`
}

// CourseView is the course counterpart of ResourceView.
type CourseView struct {
	Organized Course `json:"organized"`
	Original  Course `json:"original"`
}
