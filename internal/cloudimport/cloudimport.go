// Package cloudimport connects cloud storage accounts so resumes can be
// imported without a local file. It owns the OAuth dance; file listing
// and download happen against the provider APIs with the stored token.
package cloudimport

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"resume-pipeline/internal/shared/server/respond"
	"resume-pipeline/internal/shared/telemetry"
)

var dropboxEndpoint = oauth2.Endpoint{
	AuthURL:  "https://www.dropbox.com/oauth2/authorize",
	TokenURL: "https://api.dropboxapi.com/oauth2/token",
}

// ProviderConfig carries the OAuth credentials for one provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Service handles OAuth flows for the registered providers and keeps
// exchanged tokens in memory keyed by connection id.
type Service struct {
	providers map[string]*oauth2.Config
	stateTTL  time.Duration
	states    *stateStore

	mu     sync.RWMutex
	tokens map[string]*oauth2.Token
}

// NewService builds a Service. Providers with empty credentials are
// registered anyway; their start leg reports not-configured.
func NewService(gdrive, dropbox ProviderConfig) *Service {
	return &Service{
		providers: map[string]*oauth2.Config{
			"gdrive": {
				ClientID:     gdrive.ClientID,
				ClientSecret: gdrive.ClientSecret,
				RedirectURL:  gdrive.RedirectURL,
				Scopes:       []string{"https://www.googleapis.com/auth/drive.readonly"},
				Endpoint:     google.Endpoint,
			},
			"dropbox": {
				ClientID:     dropbox.ClientID,
				ClientSecret: dropbox.ClientSecret,
				RedirectURL:  dropbox.RedirectURL,
				Scopes:       []string{"files.content.read"},
				Endpoint:     dropboxEndpoint,
			},
		},
		stateTTL: 5 * time.Minute,
		states:   newStateStore(),
		tokens:   make(map[string]*oauth2.Token),
	}
}

// RegisterRoutes attaches cloud import routes.
func (s *Service) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/import/:provider/start", s.start)
	rg.GET("/import/:provider/callback", s.callback)
}

func (s *Service) start(c *gin.Context) {
	cfg, ok := s.providers[strings.ToLower(c.Param("provider"))]
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "unknown provider", nil)
		return
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		respond.Error(c, http.StatusServiceUnavailable, "import_not_configured", "provider is not configured", nil)
		return
	}

	state := uuid.NewString()
	s.states.put(state, time.Now().Add(s.stateTTL))

	c.Redirect(http.StatusFound, cfg.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

func (s *Service) callback(c *gin.Context) {
	provider := strings.ToLower(c.Param("provider"))
	cfg, ok := s.providers[provider]
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "unknown provider", nil)
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}
	if !s.states.consume(state) {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	token, err := cfg.Exchange(c.Request.Context(), code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}

	connectionID := uuid.NewString()
	s.mu.Lock()
	s.tokens[connectionID] = token
	s.mu.Unlock()

	telemetry.Info("cloudimport.connected", map[string]any{
		"provider":      provider,
		"connection_id": connectionID,
	})
	respond.OK(c, gin.H{
		"provider":     provider,
		"connectionId": connectionID,
		"connected":    true,
	})
}

// Token returns the stored token for a connection.
func (s *Service) Token(connectionID string) (*oauth2.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[connectionID]
	return t, ok
}

type stateStore struct {
	items map[string]time.Time
	mu    sync.Mutex
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]time.Time)}
}

func (s *stateStore) put(state string, exp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[state] = exp
}

func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.items[state]
	if !ok {
		return false
	}
	delete(s.items, state)
	return time.Now().Before(exp)
}
