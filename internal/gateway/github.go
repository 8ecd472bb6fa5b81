// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/repo-lens/internal/domain"
)

// ErrProfileUnavailable is returned by FetchProfile when no token was configured.
// The GraphQL API does not accept anonymous requests.
var ErrProfileUnavailable = errors.New("profile lookup requires a GitHub token")

// validLogin matches GitHub login names: an alphanumeric followed by alphanumerics or hyphens, up to 39 characters.
var validLogin = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchRepos(ctx context.Context, username string) ([]domain.Repository, error)
	FetchProfile(ctx context.Context, username string) (*domain.Profile, error)
}

// Options configures a GitHubGateway.
type Options struct {
	Token    string
	BaseURL  string
	PerPage  int
	MaxPages int
	Timeout  time.Duration
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	perPage       int
	maxPages      int
	logger        *logrus.Logger
}

// profileQuery fetches the account totals for a user.
type profileQuery struct {
	User struct {
		Login        string
		Name         string
		Repositories struct {
			TotalCount int
		} `graphql:"repositories(privacy: PUBLIC)"`
		Followers struct {
			TotalCount int
		}
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// Requests are unauthenticated unless opts.Token is set.
func NewGitHubGateway(opts Options, logger *logrus.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(time.Minute, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = rateLimitWaiter
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
		}
	}
	httpClient := &http.Client{Transport: transport, Timeout: opts.Timeout}

	restClient := github.NewClient(httpClient)
	if opts.BaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL: %w", err)
		}
		restClient.BaseURL = baseURL
	}

	g := &GitHubGateway{
		restClient: restClient,
		perPage:    opts.PerPage,
		maxPages:   max(opts.MaxPages, 1),
		logger:     logger,
	}
	if opts.Token != "" {
		g.graphqlClient = githubv4.NewEnterpriseClient(restClient.BaseURL.String()+"graphql", httpClient)
	}
	return g, nil
}

// FetchRepos lists the public repositories of username.
// Only the first page is requested unless the gateway was built with MaxPages > 1.
func (g *GitHubGateway) FetchRepos(ctx context.Context, username string) ([]domain.Repository, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &domain.FetchError{Reason: "username cannot be empty"}
	}
	// The name becomes a URL path segment, so anything else could address another endpoint.
	if !validLogin.MatchString(username) {
		return nil, &domain.FetchError{Username: username, Reason: "invalid GitHub username"}
	}

	g.logger.Debugf("Fetching repositories for %s...", username)
	opts := &github.RepositoryListByUserOptions{ListOptions: github.ListOptions{PerPage: g.perPage}}
	repos := make([]domain.Repository, 0)
	for page := 1; ; page++ {
		result, resp, err := g.restClient.Repositories.ListByUser(ctx, username, opts)
		if err != nil {
			return nil, newFetchError(username, resp, err)
		}
		for _, r := range result {
			repos = append(repos, toDomainRepository(r))
		}
		if resp.NextPage == 0 || page >= g.maxPages {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug("  Fetching next page of repositories...")
	}
	g.logger.Debugf("Completed fetching %d repositories for %s.", len(repos), username)
	return repos, nil
}

// FetchProfile fetches account totals through the GraphQL API.
func (g *GitHubGateway) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	if g.graphqlClient == nil {
		return nil, ErrProfileUnavailable
	}
	var q profileQuery
	variables := map[string]interface{}{"login": githubv4.String(username)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for profile: %w", err)
	}
	return &domain.Profile{
		Login:       q.User.Login,
		Name:        q.User.Name,
		PublicRepos: q.User.Repositories.TotalCount,
		Followers:   q.User.Followers.TotalCount,
	}, nil
}

func newFetchError(username string, resp *github.Response, err error) *domain.FetchError {
	fe := &domain.FetchError{Username: username, Err: err}
	if resp != nil && resp.Response != nil {
		fe.StatusCode = resp.StatusCode
	}

	var (
		rateErr   *github.RateLimitError
		errResp   *github.ErrorResponse
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &rateErr):
		fe.Reason = "rate limited: " + rateErr.Message
	case errors.As(err, &errResp):
		fe.Reason = errResp.Message
		if fe.Reason == "" {
			fe.Reason = http.StatusText(fe.StatusCode)
		}
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF):
		fe.Reason = "malformed response body"
	default:
		fe.Reason = err.Error()
	}
	return fe
}

func toDomainRepository(r *github.Repository) domain.Repository {
	return domain.Repository{
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		HTMLURL:     r.GetHTMLURL(),
		Description: r.GetDescription(),
		Language:    r.GetLanguage(),
		License:     r.GetLicense().GetName(),
		Stars:       max(r.GetStargazersCount(), 0),
		Forks:       max(r.GetForksCount(), 0),
		OpenIssues:  max(r.GetOpenIssuesCount(), 0),
		Archived:    r.GetArchived(),
		PushedAt:    r.GetPushedAt().Time,
	}
}
