package api

import (
	"context"
	"fmt"

	"github.com/edupi-school/edupi-client/pkg/model"
)

// AdminVerify validates an admin bearer token.
// Called once at startup when admin credentials are cached.
func (c *Client) AdminVerify(ctx context.Context, token string) (*model.Actor, error) {
	var resp struct {
		Admin *model.Actor `json:"admin"`
	}
	if err := c.post(ctx, "/api/auth/verify", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("verify admin: %w", err)
	}
	if resp.Admin == nil {
		return nil, fmt.Errorf("verify admin: empty response")
	}
	return resp.Admin, nil
}

// AdminLogin authenticates an administrator with username and password.
func (c *Client) AdminLogin(ctx context.Context, username, password string) (string, *model.Actor, error) {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string       `json:"token"`
		Admin *model.Actor `json:"admin"`
	}
	if err := c.post(ctx, "/api/auth/login", "", body, &resp); err != nil {
		return "", nil, fmt.Errorf("admin login: %w", err)
	}
	if resp.Token == "" || resp.Admin == nil {
		return "", nil, fmt.Errorf("admin login: incomplete response")
	}
	return resp.Token, resp.Admin, nil
}

// StudentLogin authenticates a student with email and password.
func (c *Client) StudentLogin(ctx context.Context, email, password string) (string, *model.Actor, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token   string       `json:"token"`
		Student *model.Actor `json:"student"`
	}
	if err := c.post(ctx, "/api/student-auth/login", "", body, &resp); err != nil {
		return "", nil, fmt.Errorf("student login: %w", err)
	}
	if resp.Token == "" || resp.Student == nil {
		return "", nil, fmt.Errorf("student login: incomplete response")
	}
	return resp.Token, resp.Student, nil
}

// RegisterRequest carries the student registration form.
type RegisterRequest struct {
	StudentName string `json:"studentName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Education   string `json:"education"`
}

// StudentRegister creates a new student account and returns its first session.
func (c *Client) StudentRegister(ctx context.Context, req RegisterRequest) (string, *model.Actor, error) {
	var resp struct {
		Token   string       `json:"token"`
		Student *model.Actor `json:"student"`
	}
	if err := c.post(ctx, "/api/student-auth/register", "", req, &resp); err != nil {
		return "", nil, fmt.Errorf("student register: %w", err)
	}
	if resp.Token == "" || resp.Student == nil {
		return "", nil, fmt.Errorf("student register: incomplete response")
	}
	return resp.Token, resp.Student, nil
}
