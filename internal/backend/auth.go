package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/raynott/storefront/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var session models.Session
	err := c.do(ctx, http.MethodPost, "/auth/login", "", nil, loginRequest{
		Email:    email,
		Password: password,
	}, &session)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &session, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*models.Session, error) {
	var session models.Session
	err := c.do(ctx, http.MethodPost, "/auth/register", "", nil, registerRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}, &session)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &session, nil
}
