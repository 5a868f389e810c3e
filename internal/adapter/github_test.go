package adapter_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/guregu/null/v5"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/h2hsecure/ghprofile/internal/adapter"
	"github.com/h2hsecure/ghprofile/internal/domain"
)

const fullProfile = `{"user":{
	"id": 42,
	"login": "octocat",
	"name": "The Octocat",
	"location": "San Francisco",
	"company": "GitHub",
	"blog": "https://github.blog",
	"email": "octocat@github.com",
	"created_at": "2008/01/14 04:33:35 -0800"
}}`

type profileServer struct {
	*httptest.Server
	hits       atomic.Int32
	authHeader atomic.Value
}

func newProfileServer(t *testing.T, status int, body string) *profileServer {
	t.Helper()

	ps := &profileServer{}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.hits.Add(1)
		ps.authHeader.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ps.Close)

	return ps
}

func newClient(ps *profileServer, opts ...adapter.ClientOption) *adapter.GitHubClient {
	opts = append([]adapter.ClientOption{
		adapter.WithEndpoint(ps.URL + "/api/v2/json/user/show"),
		adapter.WithTimeout(5 * time.Second),
	}, opts...)

	return adapter.NewGitHubClient("s3cr3t", opts...)
}

func TestFetchUserProfile(t *testing.T) {
	RegisterTestingT(t)
	ps := newProfileServer(t, http.StatusOK, fullProfile)

	profile, err := newClient(ps).FetchUserProfile(context.Background())
	Expect(err).To(BeNil())

	Expect(profile.ID).To(Equal(int64(42)))
	Expect(profile.Username).To(Equal("octocat"))
	Expect(profile.DisplayName).To(Equal("The Octocat"))
	Expect(profile.Location).To(Equal(null.StringFrom("San Francisco")))
	Expect(profile.Company).To(Equal(null.StringFrom("GitHub")))
	Expect(profile.BlogURL).To(Equal(null.StringFrom("https://github.blog")))
	Expect(profile.Email).To(Equal(null.StringFrom("octocat@github.com")))

	expected := time.Date(2008, 1, 14, 12, 33, 35, 0, time.UTC)
	Expect(profile.CreatedAt.Valid).To(BeTrue())
	Expect(profile.CreatedAt.Time.Equal(expected)).To(BeTrue())
}

func TestFetchUserProfileSignsRequest(t *testing.T) {
	RegisterTestingT(t)
	ps := newProfileServer(t, http.StatusOK, fullProfile)

	_, err := newClient(ps).FetchUserProfile(context.Background())
	Expect(err).To(BeNil())
	Expect(ps.authHeader.Load()).To(Equal("OAuth s3cr3t"))

	_, err = newClient(ps, adapter.WithAuthScheme("Bearer")).FetchUserProfile(context.Background())
	Expect(err).To(BeNil())
	Expect(ps.authHeader.Load()).To(Equal("Bearer s3cr3t"))
}

func TestBlankAuthSchemeFallsBackToOAuth(t *testing.T) {
	RegisterTestingT(t)
	ps := newProfileServer(t, http.StatusOK, fullProfile)

	for _, scheme := range []string{"", "  "} {
		_, err := newClient(ps, adapter.WithAuthScheme(scheme)).FetchUserProfile(context.Background())
		Expect(err).To(BeNil())
		Expect(ps.authHeader.Load()).To(Equal("OAuth s3cr3t"))
	}
}

func TestDebugLogRedactsToken(t *testing.T) {
	RegisterTestingT(t)
	ps := newProfileServer(t, http.StatusOK, fullProfile)

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	_, err := newClient(ps, adapter.WithDebug(true), adapter.WithLogger(logger)).
		FetchUserProfile(context.Background())
	Expect(err).To(BeNil())
	Expect(ps.authHeader.Load()).To(Equal("OAuth s3cr3t"))

	Expect(buf.String()).To(ContainSubstring(`"method":"GET"`))
	Expect(buf.String()).To(ContainSubstring("[redacted]"))
	Expect(buf.String()).NotTo(ContainSubstring("s3cr3t"))
}

func TestFetchUserProfileNullOptionals(t *testing.T) {
	RegisterTestingT(t)
	ps := newProfileServer(t, http.StatusOK, `{"user":{
		"id": "7", "login": "ghost", "name": "Ghost",
		"location": null, "company": null, "created_at": null
	}}`)

	profile, err := newClient(ps).FetchUserProfile(context.Background())
	Expect(err).To(BeNil())

	Expect(profile.ID).To(Equal(int64(7)))
	for _, field := range []null.String{profile.Location, profile.Company, profile.BlogURL, profile.Email} {
		Expect(field.Valid).To(BeFalse())
		Expect(field.ValueOrZero()).NotTo(Equal("null"))
	}
	Expect(profile.CreatedAt.Valid).To(BeFalse())
}

func TestFetchUserProfileBadDate(t *testing.T) {
	for _, createdAt := range []string{`""`, `"not-a-date"`, `"2008-01-14T04:33:35Z"`, `12345`} {
		t.Run(createdAt, func(t *testing.T) {
			RegisterTestingT(t)
			ps := newProfileServer(t, http.StatusOK,
				`{"user":{"id":1,"login":"a","name":"b","created_at":`+createdAt+`}}`)

			profile, err := newClient(ps).FetchUserProfile(context.Background())
			Expect(err).To(BeNil())
			Expect(profile.CreatedAt.Valid).To(BeFalse())
		})
	}
}

func TestFetchUserProfileLenientDate(t *testing.T) {
	expected := time.Date(2008, 1, 14, 12, 33, 35, 0, time.UTC)

	for _, createdAt := range []string{
		`"2008/01/14 04:33:35 -0800"`,
		`"2008/1/14 4:33:35 -0800"`,
		`"2008/01/14 04:33:35 -0800 extra"`,
		`"2008/01/14 04:33:35 -08:00"`,
		`"2007/13/14 04:33:35 -0800"`,
	} {
		t.Run(createdAt, func(t *testing.T) {
			RegisterTestingT(t)
			ps := newProfileServer(t, http.StatusOK,
				`{"user":{"id":1,"login":"a","name":"b","created_at":`+createdAt+`}}`)

			profile, err := newClient(ps).FetchUserProfile(context.Background())
			Expect(err).To(BeNil())
			Expect(profile.CreatedAt.Valid).To(BeTrue())
			Expect(profile.CreatedAt.Time.Equal(expected)).To(BeTrue())
		})
	}
}

func TestFetchUserProfileParseErrors(t *testing.T) {
	cases := map[string]string{
		"non numeric id": `{"user":{"id":"abc","login":"octocat"}}`,
		"missing id":     `{"user":{"login":"octocat"}}`,
		"fractional id":  `{"user":{"id":1.5,"login":"octocat"}}`,
		"missing user":   `{"users":[]}`,
		"user not a map": `{"user":"octocat"}`,
		"not an object":  `[1,2,3]`,
		"not json":       `<html></html>`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			RegisterTestingT(t)
			ps := newProfileServer(t, http.StatusOK, body)

			_, err := newClient(ps).FetchUserProfile(context.Background())
			Expect(err).To(MatchError(domain.ErrParse))
			Expect(errors.Is(err, domain.ErrTransport)).To(BeFalse())
		})
	}
}

func TestFetchUserProfileTransportError(t *testing.T) {
	RegisterTestingT(t)
	ps := newProfileServer(t, http.StatusUnauthorized, `{"error":"Bad credentials"}`)

	_, err := newClient(ps).FetchUserProfile(context.Background())
	Expect(err).To(MatchError(domain.ErrTransport))

	var terr *domain.TransportError
	Expect(errors.As(err, &terr)).To(BeTrue())
	Expect(terr.StatusCode).To(Equal(http.StatusUnauthorized))
	Expect(terr.Method).To(Equal(http.MethodGet))
}

func TestFetchUserProfileConnectionRefused(t *testing.T) {
	RegisterTestingT(t)
	ps := newProfileServer(t, http.StatusOK, fullProfile)
	client := newClient(ps)
	ps.Close()

	_, err := client.FetchUserProfile(context.Background())

	var terr *domain.TransportError
	Expect(errors.As(err, &terr)).To(BeTrue())
	Expect(terr.StatusCode).To(Equal(0))
	Expect(terr.Err).NotTo(BeNil())
}

func TestFetchUserProfileCancelled(t *testing.T) {
	RegisterTestingT(t)
	ps := newProfileServer(t, http.StatusOK, fullProfile)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(ps).FetchUserProfile(ctx)
	Expect(err).To(MatchError(domain.ErrTransport))
	Expect(errors.Is(err, context.Canceled)).To(BeTrue())
}

func TestProfileIDAndURL(t *testing.T) {
	RegisterTestingT(t)
	ps := newProfileServer(t, http.StatusOK,
		`{"user":{"id":"42","login":"octocat","name":"The Octocat"}}`)
	client := newClient(ps)

	id, err := client.ProfileID(context.Background())
	Expect(err).To(BeNil())
	Expect(id).To(Equal("octocat"))

	url, err := client.ProfileURL(context.Background())
	Expect(err).To(BeNil())
	Expect(url).To(Equal("https://github.com/octocat"))

	// no caching, each accessor fetched on its own
	Expect(ps.hits.Load()).To(Equal(int32(2)))
}

func TestProfileURLPropagatesError(t *testing.T) {
	RegisterTestingT(t)
	ps := newProfileServer(t, http.StatusForbidden, `{}`)

	url, err := newClient(ps).ProfileURL(context.Background())
	Expect(url).To(BeEmpty())
	Expect(err).To(MatchError(domain.ErrTransport))
}

func TestNewGitHubClientDoesNotCallServer(t *testing.T) {
	RegisterTestingT(t)
	ps := newProfileServer(t, http.StatusOK, fullProfile)

	_ = newClient(ps)
	_ = adapter.NewGitHubClient("")

	Expect(ps.hits.Load()).To(BeZero())
}
