package sheets

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"golang.org/x/sync/singleflight"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"bikerental/tracker/internal/apperr"
	"bikerental/tracker/internal/credentials"
	"bikerental/tracker/internal/logging"
)

// CredentialSource yields service-account credentials. *credentials.Loader satisfies it.
type CredentialSource interface {
	Load() (*credentials.Credentials, error)
}

// Builder turns credentials into an authenticated Client.
type Builder func(creds *credentials.Credentials) (Client, error)

// FactoryConfig identifies the spreadsheet and tunes the underlying client.
type FactoryConfig struct {
	SpreadsheetID string
	CallTimeout   time.Duration
	// Endpoint overrides the Sheets API base URL.
	Endpoint string
}

// Factory lazily builds one authenticated Client and reuses it for the life of
// the process. Concurrent first callers share a single initialization; a
// failed initialization is not cached.
type Factory struct {
	cfg    FactoryConfig
	creds  CredentialSource
	build  Builder
	logger *zap.SugaredLogger

	group  singleflight.Group
	mu     sync.RWMutex
	client Client
}

// FactoryOption customizes a Factory.
type FactoryOption func(*Factory)

// WithBuilder replaces the Google client builder.
func WithBuilder(b Builder) FactoryOption {
	return func(f *Factory) { f.build = b }
}

// WithFactoryLogger sets the logger used to report initialization.
func WithFactoryLogger(l *zap.SugaredLogger) FactoryOption {
	return func(f *Factory) { f.logger = l }
}

func NewFactory(cfg FactoryConfig, creds CredentialSource, opts ...FactoryOption) *Factory {
	if creds == nil {
		panic("sheets: NewFactory requires a credential source")
	}
	f := &Factory{cfg: cfg, creds: creds}
	for _, opt := range opts {
		opt(f)
	}
	if f.build == nil {
		f.build = GoogleBuilder(cfg)
	}
	if f.logger == nil {
		f.logger = logging.Named("sheets")
	}
	return f
}

// Client returns the cached client, building it on first use.
func (f *Factory) Client(ctx context.Context) (Client, error) {
	if c := f.cached(); c != nil {
		return c, nil
	}
	if f.cfg.SpreadsheetID == "" {
		return nil, apperr.New(apperr.KindConfiguration, "")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err, _ := f.group.Do("client", func() (interface{}, error) {
		if c := f.cached(); c != nil {
			return c, nil
		}

		creds, err := f.creds.Load()
		if err != nil {
			return nil, apperr.As(err, apperr.KindCredentials, "failed to load Google credentials")
		}

		c, err := f.build(creds)
		if err != nil {
			return nil, apperr.As(err, apperr.KindCredentials, "failed to authenticate with Google Sheets")
		}

		f.mu.Lock()
		f.client = c
		f.mu.Unlock()

		f.logger.Infow("Google Sheets client initialized",
			"spreadsheet_id", f.cfg.SpreadsheetID,
			"service_account", creds.ClientEmail,
		)
		return c, nil
	})
	if err != nil {
		f.logger.Errorw("Google Sheets client initialization failed", "error", err.Error())
		return nil, err
	}
	return v.(Client), nil
}

// Ready reports whether the client has been built.
func (f *Factory) Ready() bool {
	return f.cached() != nil
}

// SpreadsheetID returns the configured spreadsheet id.
func (f *Factory) SpreadsheetID() string {
	return f.cfg.SpreadsheetID
}

func (f *Factory) cached() Client {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.client
}

// GoogleBuilder authenticates with a service-account JWT scoped to spreadsheets.
// Token refresh is handled by the oauth2 transport.
func GoogleBuilder(cfg FactoryConfig) Builder {
	return func(creds *credentials.Credentials) (Client, error) {
		tokenURL := creds.TokenURI
		if tokenURL == "" {
			tokenURL = google.JWTTokenURL
		}
		jwtCfg := &jwt.Config{
			Email:        creds.ClientEmail,
			PrivateKey:   []byte(creds.PrivateKey),
			PrivateKeyID: creds.PrivateKeyID,
			Scopes:       []string{gsheets.SpreadsheetsScope},
			TokenURL:     tokenURL,
		}

		// The oauth2 transport keeps this context for every token refresh, so
		// it must outlive any single request.
		ctx := context.Background()
		opts := []option.ClientOption{option.WithHTTPClient(jwtCfg.Client(ctx))}
		if cfg.Endpoint != "" {
			opts = append(opts, option.WithEndpoint(cfg.Endpoint))
		}

		svc, err := gsheets.NewService(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return NewGoogleClient(svc, cfg.SpreadsheetID, cfg.CallTimeout), nil
	}
}
