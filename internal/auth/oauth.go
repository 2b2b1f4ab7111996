package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GitHubUser is the portion of the GitHub /user API response we care about.
// GitHub returns a much larger object — we only unmarshal the fields needed
// to provision a local account.
type GitHubUser struct {
	ID    int64  `json:"id"`    // GitHub's numeric user ID — stable, never changes
	Login string `json:"login"` // GitHub username
	Email string `json:"email"` // Primary email (empty if hidden in GitHub settings)
	Name  string `json:"name"`  // Display name (may be empty)
}

// GitHubProvider wraps golang.org/x/oauth2 for the GitHub Authorization Code
// flow, as an alternative sign-in path to username/password.
//
// The flow ends the same way password login does: the callback handler
// resolves a local user and mints an opaque session token from the token
// store. GitHub's own access token is used once, server-side, to read the
// profile, and never returned to the client.
type GitHubProvider struct {
	config *oauth2.Config
}

// NewGitHubProvider creates a GitHubProvider with the given credentials.
//
// callbackURL must exactly match the "Authorization callback URL" configured
// on the GitHub OAuth App. Scopes: "read:user" for the public profile,
// "user:email" for the primary email.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

// AuthURL returns the URL to redirect the user to for authorization.
// The state is a random single-use string the caller stores in a cookie and
// verifies on callback — the standard CSRF guard for the code flow.
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the OAuth flow: trades the authorization code for a
// GitHub user profile.
//
//  1. Exchange the code for an OAuth access token (server-to-server, uses
//     the ClientSecret; the token never touches the browser)
//  2. Call GitHub's /user endpoint with it
//  3. Unmarshal the response
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*GitHubUser, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// oauth2.Config.Client returns an *http.Client that adds the
	// "Authorization: Bearer <token>" header to every request.
	client := p.config.Client(ctx, oauthToken)

	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		return nil, fmt.Errorf("auth: calling GitHub /user API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: GitHub /user API returned status %d", resp.StatusCode)
	}

	var ghUser GitHubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		return nil, fmt.Errorf("auth: decoding GitHub /user response: %w", err)
	}

	if ghUser.ID == 0 {
		return nil, fmt.Errorf("auth: GitHub returned an invalid user (ID = 0)")
	}

	return &ghUser, nil
}
