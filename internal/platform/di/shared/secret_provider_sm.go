// internal/platform/di/shared/secret_provider_sm.go
package shared

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var errSecretProviderNotConfigured = errors.New("shared: secret provider not configured")

// secretProviderSM reads plain-text secrets from Secret Manager.
type secretProviderSM struct {
	sm        *secretmanager.Client
	projectID string
	version   string
}

func (p *secretProviderSM) Get(ctx context.Context, secretID string) (string, error) {
	if p == nil || p.sm == nil {
		return "", errSecretProviderNotConfigured
	}
	id, prj := strings.TrimSpace(secretID), strings.TrimSpace(p.projectID)
	if id == "" || prj == "" {
		return "", fmt.Errorf("secret manager: secret=%q project=%q: both are required", id, prj)
	}
	ver := strings.TrimSpace(p.version)
	if ver == "" {
		ver = "latest"
	}

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/%s", prj, id, ver)
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("secret manager: access %s: %w", name, err)
	}
	if resp.GetPayload() == nil {
		return "", fmt.Errorf("secret manager: %s has no payload", name)
	}
	return strings.TrimSpace(string(resp.GetPayload().GetData())), nil
}
