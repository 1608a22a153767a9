package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/google/uuid"

	identityOAuth "github.com/felixgeelhaar/rendezvous/internal/identity/application/oauth"
)

type authURLInput struct {
	Purpose string `json:"purpose" jsonschema:"required"`
}

type authExchangeInput struct {
	Purpose string `json:"purpose" jsonschema:"required"`
	Code    string `json:"code" jsonschema:"required"`
}

func (t *toolset) registerAuthTools(srv *mcp.Server) {
	srv.Tool("auth.url").
		Description("Generate the OAuth consent URL for purpose calendar or gmail").
		Handler(t.authURL)

	srv.Tool("auth.exchange").
		Description("Exchange an OAuth authorization code and store the token").
		Handler(t.authExchange)
}

func (t *toolset) oauthService(purpose string) (*identityOAuth.Service, error) {
	p := identityOAuth.Purpose(purpose)
	if p != identityOAuth.PurposeCalendar && p != identityOAuth.PurposeGmail {
		return nil, fmt.Errorf("unknown purpose %q: use calendar or gmail", purpose)
	}
	service := t.app.OAuth.Get(p)
	if service == nil {
		return nil, errors.New("OAuth client secrets not configured")
	}
	return service, nil
}

func (t *toolset) authURL(_ context.Context, input authURLInput) (map[string]any, error) {
	service, err := t.oauthService(input.Purpose)
	if err != nil {
		return nil, err
	}
	state := uuid.NewString()
	return map[string]any{
		"url":   service.AuthURL(state),
		"state": state,
	}, nil
}

func (t *toolset) authExchange(ctx context.Context, input authExchangeInput) (map[string]any, error) {
	service, err := t.oauthService(input.Purpose)
	if err != nil {
		return nil, err
	}
	if input.Code == "" {
		return nil, errors.New("code is required")
	}
	if _, err := service.ExchangeAndStore(ctx, input.Code); err != nil {
		return nil, err
	}
	return map[string]any{"stored": true}, nil
}
