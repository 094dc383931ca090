package api

import (
	"context"
	"fmt"

	"github.com/edupi-school/edupi-client/pkg/model"
)

// ListForums returns the discussion boards.
func (c *Client) ListForums(ctx context.Context, token string) ([]model.Forum, error) {
	var forums []model.Forum
	if err := c.get(ctx, "/api/forums", token, &forums); err != nil {
		return nil, fmt.Errorf("list forums: %w", err)
	}
	return forums, nil
}

// ListTopics returns the threads within a forum.
func (c *Client) ListTopics(ctx context.Context, forumID, token string) ([]model.Topic, error) {
	var topics []model.Topic
	if err := c.get(ctx, "/api/forums/"+forumID+"/topics", token, &topics); err != nil {
		return nil, fmt.Errorf("list topics for %s: %w", forumID, err)
	}
	return topics, nil
}

// CreateTopic starts a new thread in a forum.
func (c *Client) CreateTopic(ctx context.Context, forumID, token, title, content string) (*model.Topic, error) {
	body := map[string]string{"title": title, "content": content}
	var topic model.Topic
	if err := c.post(ctx, "/api/forums/"+forumID+"/topics", token, body, &topic); err != nil {
		return nil, fmt.Errorf("create topic in %s: %w", forumID, err)
	}
	return &topic, nil
}

// GetTopic returns one thread with its metadata.
func (c *Client) GetTopic(ctx context.Context, topicID, token string) (*model.Topic, error) {
	var topic model.Topic
	if err := c.get(ctx, "/api/forums/topics/"+topicID, token, &topic); err != nil {
		return nil, fmt.Errorf("get topic %s: %w", topicID, err)
	}
	return &topic, nil
}

// ListReplies returns the posts within a thread.
func (c *Client) ListReplies(ctx context.Context, topicID, token string) ([]model.Reply, error) {
	var replies []model.Reply
	if err := c.get(ctx, "/api/forums/topics/"+topicID+"/replies", token, &replies); err != nil {
		return nil, fmt.Errorf("list replies for %s: %w", topicID, err)
	}
	return replies, nil
}

// Reply posts a reply to a thread.
func (c *Client) Reply(ctx context.Context, topicID, token, content string) (*model.Reply, error) {
	body := map[string]string{"content": content}
	var reply model.Reply
	if err := c.post(ctx, "/api/forums/topics/"+topicID+"/replies", token, body, &reply); err != nil {
		return nil, fmt.Errorf("reply to %s: %w", topicID, err)
	}
	return &reply, nil
}

// LikeReply toggles a like on a reply.
func (c *Client) LikeReply(ctx context.Context, replyID, token string) error {
	if err := c.post(ctx, "/api/forums/replies/"+replyID+"/like", token, nil, nil); err != nil {
		return fmt.Errorf("like reply %s: %w", replyID, err)
	}
	return nil
}

// RequestDemo submits a demo request from the marketing site.
func (c *Client) RequestDemo(ctx context.Context, name, email, phone, message string) error {
	body := map[string]string{"name": name, "email": email, "phone": phone, "message": message}
	if err := c.post(ctx, "/api/demo-requests", "", body, nil); err != nil {
		return fmt.Errorf("request demo: %w", err)
	}
	return nil
}
