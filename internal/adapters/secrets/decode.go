package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kevin07696/gym-admin/internal/domain"
)

var errEmptyDocument = errors.New("credential document is empty")

// decodeCredentials accepts either the flat credential document or the same
// document wrapped as {"value": "<json>"}.
func decodeCredentials(raw []byte) (domain.Credentials, error) {
	var creds domain.Credentials
	if len(strings.TrimSpace(string(raw))) == 0 {
		return creds, errEmptyDocument
	}

	var wrapped struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Value != "" {
		raw = []byte(wrapped.Value)
	}

	if err := json.Unmarshal(raw, &creds); err != nil {
		return creds, fmt.Errorf("credential document is not JSON: %w", err)
	}
	if creds == (domain.Credentials{}) {
		return creds, errors.New("credential document has no recognised fields")
	}
	return creds, nil
}
