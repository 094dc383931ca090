package model

import "time"

// Forum is a discussion board, usually one per course or topic area.
type Forum struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TopicCount  int       `json:"topicCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Topic is a discussion thread within a forum.
type Topic struct {
	ID         string    `json:"_id"`
	ForumID    string    `json:"forumId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	ReplyCount int       `json:"replyCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Reply is one post within a topic.
type Reply struct {
	ID        string    `json:"_id"`
	TopicID   string    `json:"topicId"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}
