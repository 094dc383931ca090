package api

import (
	"context"
	"fmt"

	"github.com/edupi-school/edupi-client/pkg/model"
)

// ListAnnouncements returns announcements visible to the caller.
func (c *Client) ListAnnouncements(ctx context.Context, token string) ([]model.Announcement, error) {
	var announcements []model.Announcement
	if err := c.get(ctx, "/api/announcements", token, &announcements); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, nil
}

// CreateAnnouncement publishes a new announcement (admin only). The backend
// fans it out to connected students over the push channel.
func (c *Client) CreateAnnouncement(ctx context.Context, token string, title, content string, typ model.NotificationType, priority model.Priority) (*model.Announcement, error) {
	body := map[string]string{
		"title":    title,
		"content":  content,
		"type":     string(typ),
		"priority": string(priority),
	}
	var ann model.Announcement
	if err := c.post(ctx, "/api/announcements", token, body, &ann); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	return &ann, nil
}

// MarkAnnouncementRead records that the student has seen an announcement.
func (c *Client) MarkAnnouncementRead(ctx context.Context, id, token string) error {
	if err := c.put(ctx, "/api/announcements/"+id+"/read", token, nil, nil); err != nil {
		return fmt.Errorf("mark announcement %s read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead clears the caller's unread notification count.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, token string) error {
	if err := c.put(ctx, "/api/notifications/mark-all-read", token, nil, nil); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
