package domain

import "context"

// AuthResult holds the credential produced by a setup flow
type AuthResult struct {
	AccessKey string
}

// AuthFlow runs an interactive credential setup against an API base URL
type AuthFlow interface {
	Run(ctx context.Context, baseURL string) (*AuthResult, error)
}
