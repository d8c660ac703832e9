package mail

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"go-leavemgmt/internal/config"
	mailerrors "go-leavemgmt/internal/mail/errors"
	"go-leavemgmt/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

const oauthStateTTL = 10 * time.Minute

func NewOAuthConfig(cfg config.GmailConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailSendScope, gmail.GmailReadonlyScope},
	}
}

// StateStore keeps single-use OAuth state values.
type StateStore interface {
	Put(ctx context.Context, state string, ttl time.Duration) error
	Take(ctx context.Context, state string) (bool, error)
}

type redisStateStore struct {
	rdb redis.Cmdable
}

func NewRedisStateStore(rdb redis.Cmdable) StateStore {
	return &redisStateStore{rdb: rdb}
}

func stateKey(state string) string {
	return "gmail:oauth:state:" + state
}

func (s *redisStateStore) Put(ctx context.Context, state string, ttl time.Duration) error {
	return s.rdb.Set(ctx, stateKey(state), "1", ttl).Err()
}

func (s *redisStateStore) Take(ctx context.Context, state string) (bool, error) {
	n, err := s.rdb.Del(ctx, stateKey(state)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

type memoryStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
}

func NewMemoryStateStore() StateStore {
	return &memoryStateStore{states: make(map[string]time.Time)}
}

func (s *memoryStateStore) Put(_ context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, exp := range s.states {
		if now.After(exp) {
			delete(s.states, k)
		}
	}
	s.states[state] = now.Add(ttl)
	return nil
}

func (s *memoryStateStore) Take(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.states[state]
	if !ok {
		return false, nil
	}
	delete(s.states, state)
	return time.Now().Before(exp), nil
}

//go:generate mockgen -source=oauth.go -destination=mock/oauth_mock.go -package=mock
type OAuthService interface {
	AuthURL(ctx context.Context) (string, error)
	Connect(ctx context.Context, state, code string) (string, error)
}

type oauthService struct {
	oauth   *oauth2.Config
	states  StateStore
	tokens  TokenStore
	mailbox string
	logger  *zap.Logger
}

func NewOAuthService(oauth *oauth2.Config, states StateStore, tokens TokenStore, mailbox string, logger ...*zap.Logger) OAuthService {
	l := zap.L().Named("mail.oauth")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("mail.oauth")
	}
	return &oauthService{oauth: oauth, states: states, tokens: tokens, mailbox: mailbox, logger: l}
}

func (s *oauthService) AuthURL(ctx context.Context) (string, error) {
	if s.oauth == nil || s.oauth.ClientID == "" || s.mailbox == "" {
		return "", mailerrors.ErrNotConfigured
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	state := hex.EncodeToString(buf)
	if err := s.states.Put(ctx, state, oauthStateTTL); err != nil {
		return "", err
	}

	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// Connect exchanges the authorization code and stores the token for the service mailbox.
func (s *oauthService) Connect(ctx context.Context, state, code string) (string, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if s.oauth == nil || s.oauth.ClientID == "" || s.mailbox == "" {
		return "", mailerrors.ErrNotConfigured
	}
	if state == "" || code == "" {
		return "", mailerrors.ErrInvalidOAuthState
	}

	ok, err := s.states.Take(ctx, state)
	if err != nil {
		return "", err
	}
	if !ok {
		log.Warn("gmail oauth callback with unknown state")
		return "", mailerrors.ErrInvalidOAuthState
	}

	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		log.Warn("gmail oauth exchange failed", zap.Error(err))
		return "", mailerrors.ErrOAuthExchangeFailed
	}

	if err := s.tokens.Save(ctx, s.mailbox, tok); err != nil {
		log.Error("gmail token persist failed", zap.Error(err))
		return "", err
	}

	log.Info("gmail mailbox connected", zap.String("mailbox", s.mailbox))
	return s.mailbox, nil
}
