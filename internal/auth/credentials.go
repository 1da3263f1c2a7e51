package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"boostshop/internal/domain"
)

// CredentialsFile loads the full user list from a JSON file on every call.
// There is deliberately no caching: edits to the file take effect on the next
// login attempt.
type CredentialsFile struct {
	Path string
}

func (c *CredentialsFile) Load(ctx context.Context) ([]domain.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("read user file: %w", err)
	}

	var users []domain.Credential
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse user file: %w", err)
	}
	return users, nil
}
