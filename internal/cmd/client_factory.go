package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/swparks/sw-cli/internal/api"
	"github.com/swparks/sw-cli/internal/cache"
	"github.com/swparks/sw-cli/internal/config"
)

type clientFactory struct {
	timeout   time.Duration
	userAgent string
	noCache   bool
}

func newClientFactory() *clientFactory {
	return &clientFactory{
		timeout:   flags.Timeout,
		userAgent: fmt.Sprintf("sw-cli/%s", version),
		noCache:   flags.NoCache,
	}
}

// client builds a client for the resolved profile. The session is left nil
// when no credentials are configured, so only anonymous endpoints succeed.
func (f *clientFactory) client(ctx context.Context) (*api.Client, config.ClientConfig, error) {
	cfg, err := config.ResolveClientConfig(flags.Profile, flags.BaseURL)
	if err != nil {
		return nil, config.ClientConfig{}, err
	}
	return f.newClient(ctx, cfg), cfg, nil
}

// signedIn is client but fails with config.ErrNotConfigured when there are
// no credentials.
func (f *clientFactory) signedIn(ctx context.Context) (*api.Client, config.ClientConfig, error) {
	client, cfg, err := f.client(ctx)
	if err != nil {
		return nil, cfg, err
	}
	if !cfg.SignedIn() {
		return nil, cfg, config.ErrNotConfigured
	}
	return client, cfg, nil
}

func (f *clientFactory) newClient(ctx context.Context, cfg config.ClientConfig) *api.Client {
	var session api.Session
	if cfg.SignedIn() {
		session = cfg.Session
	}
	client := api.New(cfg.BaseURL, session)
	if f.timeout > 0 {
		client.HTTP.Timeout = f.timeout
	}
	if f.userAgent != "" {
		client.UserAgent = f.userAgent
	}
	if cfg.Boundary != "" {
		client.Boundary = cfg.Boundary
	}
	if !f.noCache {
		client.Cache = f.responseCache(ctx, cfg)
	}
	return client
}

// responseCache prefers a shared Redis store and falls back to files in the
// user cache directory.
func (f *clientFactory) responseCache(ctx context.Context, cfg config.ClientConfig) api.ResponseCache {
	if cfg.RedisURL != "" {
		store, err := cache.NewRedisStore(cfg.RedisURL, cache.DefaultTTL)
		if err == nil {
			if err = store.Ping(ctx); err == nil {
				return store
			}
			_ = store.Close()
		}
		slog.Warn("redis cache unavailable, using file cache", "error", err)
	}
	dir := resolveCacheDir()
	if dir == "" {
		return nil
	}
	return cache.NewFileStore(dir)
}

// getClient creates a client that may be anonymous.
func getClient(ctx context.Context) (*api.Client, error) {
	client, _, err := newClientFactory().client(ctx)
	return client, err
}

// getSignedInClient creates a client and the acting user's id. Credentials
// saved without a user id are checked against the login endpoint to learn it.
func getSignedInClient(ctx context.Context) (*api.Client, int, error) {
	client, cfg, err := newClientFactory().signedIn(ctx)
	if err != nil {
		return nil, 0, err
	}
	userID := cfg.Session.UserID()
	if userID == 0 {
		resp, err := client.Auth().Login(ctx, cfg.Account.Credentials())
		if err != nil {
			return nil, 0, err
		}
		userID = int(resp.UserID)
	}
	return client, userID, nil
}
