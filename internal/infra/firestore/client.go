// internal/infra/firestore/client.go
package firestoreinfra

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// ClientWrapper keeps the project id next to the client for log lines.
type ClientWrapper struct {
	Client    *firestore.Client
	ProjectID string
}

// NewClient falls back to ADC when credentialsFile is blank.
// An empty projectID lets the SDK detect it from the environment.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*ClientWrapper, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}

	var opts []option.ClientOption
	if f := strings.TrimSpace(credentialsFile); f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: new client (project=%s): %w", projectID, err)
	}

	log.Printf("[firestore] client ready project=%s adc=%t", projectID, len(opts) == 0)
	return &ClientWrapper{Client: client, ProjectID: projectID}, nil
}

func (cw *ClientWrapper) Close() error {
	if cw == nil || cw.Client == nil {
		return nil
	}
	return cw.Client.Close()
}
