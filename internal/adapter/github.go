package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/h2hsecure/ghprofile/internal/domain"
)

// ProfileEndpoint is the v2 JSON API resource describing the token owner.
const ProfileEndpoint = domain.DefaultEndpoint

// GitHubClient reads the profile of the user the access token was issued to.
//
// Every call performs its own request, nothing is cached between calls.
// Sequential reuse is fine; callers sharing one client between goroutines
// are responsible for synchronising access.
type GitHubClient struct {
	endpoint string
	client   *resty.Client
	logger   zerolog.Logger
}

type clientOptions struct {
	endpoint   string
	authScheme string
	timeout    time.Duration
	debug      bool
	logger     zerolog.Logger
}

type ClientOption func(*clientOptions)

func WithEndpoint(endpoint string) ClientOption {
	return func(o *clientOptions) {
		o.endpoint = endpoint
	}
}

func WithAuthScheme(scheme string) ClientOption {
	return func(o *clientOptions) {
		o.authScheme = scheme
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

func WithDebug(debug bool) ClientOption {
	return func(o *clientOptions) {
		o.debug = debug
	}
}

// NewGitHubClient prepares a client signing its requests with accessToken.
// The token is not validated and no request is made.
func NewGitHubClient(accessToken string, opts ...ClientOption) *GitHubClient {
	o := clientOptions{
		endpoint:   ProfileEndpoint,
		authScheme: domain.DefaultAuthScheme,
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if strings.TrimSpace(o.authScheme) == "" {
		o.authScheme = domain.DefaultAuthScheme
	}

	logger := o.logger.With().Str("component", "github").Logger()

	client := resty.New().
		SetLogger(restyLogger{l: logger}).
		SetTimeout(o.timeout).
		SetHeader("Accept", "application/json")
	client.OnBeforeRequest(OAuthSigner(o.authScheme, accessToken))
	if o.debug {
		// resty's own debug dump prints the Authorization header
		client.OnBeforeRequest(logRequest(logger))
	}

	return &GitHubClient{
		endpoint: o.endpoint,
		client:   client,
		logger:   logger,
	}
}

// NewGitHubAdapter builds the client from the github section of the config.
func NewGitHubAdapter(config *domain.Config) domain.ProfileFetcher {
	return NewGitHubClient(config.GitHub.AccessToken,
		WithEndpoint(config.GitHub.Endpoint),
		WithAuthScheme(config.GitHub.AuthScheme),
		WithTimeout(config.GitHub.Timeout),
		WithDebug(config.GitHub.Debug),
	)
}

// FetchUserProfile implements domain.ProfileFetcher.
func (c *GitHubClient) FetchUserProfile(ctx context.Context) (domain.UserProfile, error) {
	res, err := c.client.R().
		EnableTrace().
		SetContext(ctx).
		Get(c.endpoint)
	if err != nil {
		return domain.UserProfile{}, &domain.TransportError{
			Method: http.MethodGet,
			URL:    c.endpoint,
			Err:    err,
		}
	}

	c.logger.Debug().
		Int("status", res.StatusCode()).
		Dur("took", res.Time()).
		Dur("conn", res.Request.TraceInfo().ConnTime).
		Msg("profile request")

	if !res.IsSuccess() {
		return domain.UserProfile{}, &domain.TransportError{
			Method:     http.MethodGet,
			URL:        c.endpoint,
			StatusCode: res.StatusCode(),
			Status:     res.Status(),
			Err:        fmt.Errorf("unexpected status code %d", res.StatusCode()),
		}
	}

	tree, err := decodeTree(res.Body())
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("profile response: %w", err)
	}

	profile, err := projectProfile(tree)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("profile response: %w", err)
	}

	return profile, nil
}

// ProfileID implements domain.ProfileFetcher. It returns the login name, not
// the numeric id, and fetches the profile again on every call.
func (c *GitHubClient) ProfileID(ctx context.Context) (string, error) {
	profile, err := c.FetchUserProfile(ctx)
	if err != nil {
		return "", err
	}

	return profile.Username, nil
}

// ProfileURL implements domain.ProfileFetcher.
func (c *GitHubClient) ProfileURL(ctx context.Context) (string, error) {
	id, err := c.ProfileID(ctx)
	if err != nil {
		return "", err
	}

	return domain.ProfileBaseURL + id, nil
}
