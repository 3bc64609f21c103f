package domain

import "time"

type CommentType string

const (
	CommentTypeContent CommentType = "content"
	CommentTypeStyling CommentType = "styling"
)

func (t CommentType) Valid() bool {
	return t == CommentTypeContent || t == CommentTypeStyling
}

// Comment is a positioned annotation on a resume. Only Likes and Dislikes
// change after creation.
type Comment struct {
	ID          string      `gorm:"primaryKey" json:"id"`
	ResumeID    string      `gorm:"column:document_id;not null;index" json:"resumeId"`
	Content     string      `gorm:"not null" json:"content"`
	Position    Position    `gorm:"column:position_json;type:text;serializer:json" json:"position"`
	Author      *string     `json:"author,omitempty"`
	CreatedAt   time.Time   `gorm:"index" json:"createdAt"`
	CommentType CommentType `gorm:"not null" json:"commentType"`
	Likes       Count       `gorm:"not null;default:0" json:"likes"`
	Dislikes    Count       `gorm:"not null;default:0" json:"dislikes"`
}

// Score is the ranking used when sorting by votes.
func (c *Comment) Score() int {
	return int(c.Likes) - int(c.Dislikes)
}
