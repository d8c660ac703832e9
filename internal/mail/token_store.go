package mail

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GmailToken stores the OAuth token of one connected mailbox.
type GmailToken struct {
	Mailbox      string     `gorm:"column:mailbox;type:varchar(255);primaryKey"`
	AccessToken  string     `gorm:"column:access_token;type:text;not null"`
	RefreshToken string     `gorm:"column:refresh_token;type:text;not null"`
	TokenType    string     `gorm:"column:token_type;type:varchar(50);not null"`
	Expiry       *time.Time `gorm:"column:expiry"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (GmailToken) TableName() string {
	return "gmail_tokens"
}

type TokenStore interface {
	Get(ctx context.Context, mailbox string) (*oauth2.Token, error)
	Save(ctx context.Context, mailbox string, tok *oauth2.Token) error
}

type tokenStore struct {
	db *gorm.DB
}

func NewTokenStore(db *gorm.DB) TokenStore {
	return &tokenStore{db: db}
}

func (s *tokenStore) Get(ctx context.Context, mailbox string) (*oauth2.Token, error) {
	var row GmailToken
	if err := s.db.WithContext(ctx).First(&row, "mailbox = ?", mailbox).Error; err != nil {
		return nil, err
	}
	tok := &oauth2.Token{
		AccessToken:  row.AccessToken,
		RefreshToken: row.RefreshToken,
		TokenType:    row.TokenType,
	}
	if row.Expiry != nil {
		tok.Expiry = *row.Expiry
	}
	return tok, nil
}

// Save upserts the token. A refresh response without a refresh token keeps the stored one.
func (s *tokenStore) Save(ctx context.Context, mailbox string, tok *oauth2.Token) error {
	row := GmailToken{
		Mailbox:      mailbox,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.Type(),
	}
	if !tok.Expiry.IsZero() {
		exp := tok.Expiry.UTC()
		row.Expiry = &exp
	}

	updates := []string{"access_token", "token_type", "expiry", "updated_at"}
	if tok.RefreshToken != "" {
		updates = append(updates, "refresh_token")
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "mailbox"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(&row).Error
}

func isTokenMissing(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// persistingTokenSource writes refreshed tokens back to the store.
type persistingTokenSource struct {
	ctx     context.Context
	base    oauth2.TokenSource
	store   TokenStore
	mailbox string
	last    string
	logger  *zap.Logger
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := p.base.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		if err := p.store.Save(p.ctx, p.mailbox, tok); err != nil {
			p.logger.Warn("persist refreshed gmail token failed", zap.String("mailbox", p.mailbox), zap.Error(err))
		}
	}
	return tok, nil
}
