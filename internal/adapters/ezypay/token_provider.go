package ezypay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/gym-admin/pkg/errors"
	"golang.org/x/oauth2"
)

// tokenProvider implements the TokenProvider port with an OAuth2 password grant.
// Every call performs a fresh round trip; tokens are never cached.
type tokenProvider struct {
	config     *Config
	httpClient *http.Client
	resolver   ports.CredentialResolver
	logger     ports.Logger
}

// NewTokenProvider creates a new token provider
func NewTokenProvider(
	config *Config,
	httpClient *http.Client,
	resolver ports.CredentialResolver,
	logger ports.Logger,
) ports.TokenProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &tokenProvider{
		config:     config,
		httpClient: httpClient,
		resolver:   resolver,
		logger:     logger,
	}
}

// capturedResponse keeps the identity endpoint's raw answer so failures can
// carry the upstream status and body.
type capturedResponse struct {
	base   http.RoundTripper
	status int
	body   []byte
}

func (c *capturedResponse) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}

	c.status = resp.StatusCode
	c.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

// GetToken exchanges the branch credentials for a bearer token
func (p *tokenProvider) GetToken(ctx context.Context, branchID string) (*ports.Token, error) {
	bc, err := p.resolver.Resolve(branchID)
	if err != nil {
		return nil, err
	}

	oauthConfig := &oauth2.Config{
		ClientID:     bc.Credentials.ClientID,
		ClientSecret: bc.Credentials.ClientSecret,
		Scopes:       p.config.scopes(),
		Endpoint: oauth2.Endpoint{
			TokenURL:  p.config.IdentityURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	base := p.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	capture := &capturedResponse{base: base}
	client := &http.Client{Transport: capture, Timeout: p.httpClient.Timeout}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, client)

	p.logger.Debug("Requesting provider token",
		ports.BranchID(bc.Branch.ID),
	)

	tok, err := oauthConfig.PasswordCredentialsToken(ctx, bc.Credentials.Username, bc.Credentials.Password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			p.logger.Error("Token request rejected",
				ports.BranchID(bc.Branch.ID),
				ports.Int("status", retrieveErr.Response.StatusCode),
			)
			return nil, pkgerrors.NewAuthError(retrieveErr.Response.StatusCode, string(retrieveErr.Body), err)
		}

		// Covers a 2xx answer without access_token as well as transport failures
		p.logger.Error("Token request failed",
			ports.BranchID(bc.Branch.ID),
			ports.Int("status", capture.status),
			ports.Err(err),
		)
		return nil, pkgerrors.NewAuthError(capture.status, string(capture.body), err)
	}

	token := &ports.Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		StatusCode:  capture.status,
	}
	if !tok.Expiry.IsZero() {
		token.ExpiresIn = int64(time.Until(tok.Expiry).Round(time.Second) / time.Second)
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		token.Scope = scope
	}
	if json.Valid(capture.body) {
		token.Raw = json.RawMessage(capture.body)
	}

	return token, nil
}
