package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/sbilibin2017/books4all/internal/logger"
	"github.com/sbilibin2017/books4all/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// OAuthClientConfig holds the registered client of one provider.
type OAuthClientConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

type oauthProvider struct {
	config      *oauth2.Config
	userInfoURL string
	emailsURL   string // github only: the profile email may be private
}

// OAuthService runs the authorization code flow and turns the provider profile
// into an OAuthAssertion for AuthService.SignInOAuth.
type OAuthService struct {
	providers map[models.OAuthProvider]*oauthProvider
}

// OAuthOption configures an OAuthService.
type OAuthOption func(*OAuthService)

// WithOAuthEndpoint points a configured provider at other token and userinfo endpoints.
func WithOAuthEndpoint(provider models.OAuthProvider, endpoint oauth2.Endpoint, userInfoURL string) OAuthOption {
	return func(s *OAuthService) {
		p, ok := s.providers[provider]
		if !ok {
			return
		}
		p.config.Endpoint = endpoint
		p.userInfoURL = userInfoURL
		if p.emailsURL != "" {
			p.emailsURL = strings.TrimSuffix(userInfoURL, "/") + "/emails"
		}
	}
}

// NewOAuthService registers every provider that has a client id.
func NewOAuthService(clients map[models.OAuthProvider]OAuthClientConfig, opts ...OAuthOption) *OAuthService {
	svc := &OAuthService{providers: make(map[models.OAuthProvider]*oauthProvider)}

	for provider, c := range clients {
		if c.ClientID == "" {
			continue
		}
		cfg := &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Scopes:       c.Scopes,
		}

		switch provider {
		case models.OAuthGoogle:
			cfg.Endpoint = google.Endpoint
			if len(cfg.Scopes) == 0 {
				cfg.Scopes = []string{"openid", "email", "profile"}
			}
			svc.providers[provider] = &oauthProvider{config: cfg, userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo"}
		case models.OAuthGitHub:
			cfg.Endpoint = github.Endpoint
			if len(cfg.Scopes) == 0 {
				cfg.Scopes = []string{"read:user", "user:email"}
			}
			svc.providers[provider] = &oauthProvider{
				config:      cfg,
				userInfoURL: "https://api.github.com/user",
				emailsURL:   "https://api.github.com/user/emails",
			}
		case models.OAuthFacebook:
			cfg.Endpoint = facebook.Endpoint
			if len(cfg.Scopes) == 0 {
				cfg.Scopes = []string{"email", "public_profile"}
			}
			svc.providers[provider] = &oauthProvider{config: cfg, userInfoURL: "https://graph.facebook.com/me?fields=id,name,email,picture"}
		default:
			logger.Log.Warnw("ignoring unknown oauth provider", "provider", provider)
		}
	}

	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Providers lists the configured providers.
func (s *OAuthService) Providers() []models.OAuthProvider {
	out := make([]models.OAuthProvider, 0, len(s.providers))
	for p := range s.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AuthURL returns the provider consent page URL carrying state.
func (s *OAuthService) AuthURL(provider, state string) (string, error) {
	p, err := s.provider(provider)
	if err != nil {
		return "", err
	}
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// Exchange trades an authorization code for a token and reads the provider profile.
func (s *OAuthService) Exchange(ctx context.Context, provider, code string) (*models.OAuthAssertion, error) {
	p, err := s.provider(provider)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, models.ErrMissingCredential
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		logger.Log.Infow("oauth code exchange failed", "provider", provider, "err", err)
		return nil, fmt.Errorf("%w: code exchange failed", models.ErrInvalidCredentials)
	}

	client := p.config.Client(ctx, token)
	name, _ := models.ParseOAuthProvider(provider)

	var a *models.OAuthAssertion
	switch name {
	case models.OAuthGoogle:
		a, err = googleAssertion(ctx, client, p.userInfoURL)
	case models.OAuthGitHub:
		a, err = githubAssertion(ctx, client, p.userInfoURL, p.emailsURL)
	case models.OAuthFacebook:
		a, err = facebookAssertion(ctx, client, p.userInfoURL)
	}
	if err != nil {
		logger.Log.Errorw("failed to fetch oauth profile", "provider", provider, "err", err)
		return nil, err
	}
	if a.Subject == "" || a.Email == "" {
		return nil, fmt.Errorf("%w: provider returned no verified email", models.ErrInvalidCredentials)
	}
	a.Provider = name
	return a, nil
}

func (s *OAuthService) provider(name string) (*oauthProvider, error) {
	provider, ok := models.ParseOAuthProvider(name)
	if !ok {
		return nil, models.NewValidationError("unsupported provider %q", name)
	}
	p, ok := s.providers[provider]
	if !ok {
		return nil, models.NewValidationError("provider %q is not configured", provider)
	}
	return p, nil
}

func googleAssertion(ctx context.Context, client *http.Client, url string) (*models.OAuthAssertion, error) {
	var data struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := getJSON(ctx, client, url, &data); err != nil {
		return nil, err
	}
	a := &models.OAuthAssertion{Subject: data.ID, Name: data.Name, AvatarURL: data.Picture}
	if data.VerifiedEmail {
		a.Email = data.Email
	}
	return a, nil
}

func githubAssertion(ctx context.Context, client *http.Client, url, emailsURL string) (*models.OAuthAssertion, error) {
	var data struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(ctx, client, url, &data); err != nil {
		return nil, err
	}

	name := data.Name
	if name == "" {
		name = data.Login
	}
	a := &models.OAuthAssertion{
		Subject:   fmt.Sprintf("%d", data.ID),
		Email:     data.Email,
		Name:      name,
		AvatarURL: data.AvatarURL,
	}
	if data.ID == 0 {
		a.Subject = ""
	}

	if a.Email == "" && emailsURL != "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(ctx, client, emailsURL, &emails); err != nil {
			return nil, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				a.Email = e.Email
				break
			}
		}
	}
	return a, nil
}

func facebookAssertion(ctx context.Context, client *http.Client, url string) (*models.OAuthAssertion, error) {
	var data struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := getJSON(ctx, client, url, &data); err != nil {
		return nil, err
	}
	return &models.OAuthAssertion{
		Subject:   data.ID,
		Email:     data.Email,
		Name:      data.Name,
		AvatarURL: data.Picture.Data.URL,
	}, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: userinfo returned %d: %s", models.ErrInvalidCredentials, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
