package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/sangkips/salon-api/internal/config"
)

// Firestore bundles the clients created from one Firebase app.
type Firestore struct {
	Client *firestore.Client
	Auth   *fbauth.Client
}

// NewFirestore connects to the configured project. Credentials come from
// the configured file, or from the environment when none is set.
func NewFirestore(ctx context.Context, cfg *config.FirestoreConfig, log *zap.Logger) (*Firestore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to firestore: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		// ID token verification is unavailable but the store still works.
		log.Warn("firebase auth init failed", zap.Error(err))
	}

	log.Info("connected to firestore", zap.String("project", cfg.ProjectID))
	return &Firestore{Client: client, Auth: authClient}, nil
}

func (f *Firestore) Close() error {
	if f == nil || f.Client == nil {
		return nil
	}
	return f.Client.Close()
}
