// Package services contains server-side business logic: account registration
// and login, session token handling, and the study history.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/nihongo/internal/common"
	"github.com/dmitrijs2005/nihongo/internal/cryptox"
	"github.com/dmitrijs2005/nihongo/internal/logging"
	"github.com/dmitrijs2005/nihongo/internal/server/auth"
	"github.com/dmitrijs2005/nihongo/internal/server/config"
	"github.com/dmitrijs2005/nihongo/internal/server/models"
	"github.com/dmitrijs2005/nihongo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nihongo/internal/server/sessions"
)

// Session is what a successful register, login or resume hands back: the
// public identity, the plaintext API key and a session token.
type Session struct {
	Identity models.Identity
	Secret   string
	Token    string
}

// AuthService registers and authenticates accounts. It holds no per-request
// state; everything lives in the store.
type AuthService struct {
	repomanager   repomanager.RepositoryManager
	cipher        *cryptox.Cipher
	revoker       sessions.Revoker
	jwtSecret     []byte
	tokenValidity time.Duration
	log           logging.Logger
}

func NewAuthService(m repomanager.RepositoryManager, cipher *cryptox.Cipher, revoker sessions.Revoker,
	cfg *config.Config, log logging.Logger) *AuthService {
	return &AuthService{
		repomanager:   m,
		cipher:        cipher,
		revoker:       revoker,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.SessionTokenValidityDuration,
		log:           log.With("service", "auth"),
	}
}

// Register creates an account whose API key is stored encrypted. A taken
// username is reported before anything is encrypted or written; a lost race
// on insert is reported the same way.
func (s *AuthService) Register(ctx context.Context, username, password, secret string) (*Session, error) {
	if username == "" || password == "" || secret == "" {
		return nil, fmt.Errorf("%w: username, password and apiKey are required", common.ErrorValidation)
	}

	repo := s.repomanager.Accounts()

	_, err := repo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, common.ErrorConflict
	case !errors.Is(err, common.ErrorNotFound):
		s.log.Error(ctx, "lookup before register failed", "error", err)
		return nil, common.ErrorInternal
	}

	ciphertext, iv, err := s.cipher.Encrypt(secret)
	if err != nil {
		s.log.Error(ctx, "encrypt api key failed", "error", err)
		return nil, common.ErrorInternal
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	account, err := repo.Create(ctx, &models.Account{
		Username:        username,
		PasswordSalt:    salt,
		PasswordHash:    cryptox.HashPassword(password, salt),
		EncryptedAPIKey: ciphertext,
		IV:              iv,
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		s.log.Error(ctx, "create account failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "account registered", "user_id", account.ID)
	return s.newSession(ctx, account.Identity(), secret)
}

// Login answers an unknown username and a wrong password identically. A
// stored key that no longer decrypts is a server fault and reported as
// common.ErrorCredentialUnrecoverable.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	account, err := s.repomanager.Accounts().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn the same hashing work as a real check
			cryptox.VerifyPassword(password, s.dummySalt(), nil)
			return nil, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "lookup for login failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !cryptox.VerifyPassword(password, account.PasswordSalt, account.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	secret, err := s.decryptSecret(ctx, account)
	if err != nil {
		return nil, err
	}

	return s.newSession(ctx, account.Identity(), secret)
}

// Resume turns a live session token back into a Session, re-decrypting the
// API key so the client never has to persist it.
func (s *AuthService) Resume(ctx context.Context, token string) (*Session, error) {
	claims, err := s.verifyToken(ctx, token)
	if err != nil {
		return nil, err
	}

	account, err := s.repomanager.Accounts().GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		s.log.Error(ctx, "lookup for resume failed", "error", err)
		return nil, common.ErrorInternal
	}

	secret, err := s.decryptSecret(ctx, account)
	if err != nil {
		return nil, err
	}

	return &Session{Identity: account.Identity(), Secret: secret, Token: token}, nil
}

// Authenticate verifies a token and returns the identity it was issued to.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.Identity, error) {
	claims, err := s.verifyToken(ctx, token)
	if err != nil {
		return models.Identity{}, err
	}
	return models.Identity{ID: claims.UserID(), Username: claims.Username}, nil
}

// Logout revokes the token until it expires. Logging out with an already
// expired or revoked token succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil
		}
		return err
	}

	if err := s.revoker.Revoke(ctx, claims.TokenID(), claims.Expiry()); err != nil {
		s.log.Error(ctx, "revoke token failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// --- helpers below ---

func (s *AuthService) verifyToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.TokenID())
	if err != nil {
		s.log.Error(ctx, "revocation check failed", "error", err)
		return nil, common.ErrorInternal
	}
	if revoked {
		return nil, common.ErrTokenRevoked
	}
	return claims, nil
}

func (s *AuthService) decryptSecret(ctx context.Context, account *models.Account) (string, error) {
	secret, err := s.cipher.Decrypt(account.EncryptedAPIKey, account.IV)
	if err != nil {
		s.log.Error(ctx, "stored api key does not decrypt", "user_id", account.ID, "error", err)
		return "", common.ErrorCredentialUnrecoverable
	}
	return secret, nil
}

func (s *AuthService) newSession(ctx context.Context, id models.Identity, secret string) (*Session, error) {
	token, err := auth.GenerateToken(id.ID, id.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.log.Error(ctx, "sign session token failed", "error", err)
		return nil, common.ErrorInternal
	}
	return &Session{Identity: id, Secret: secret, Token: token}, nil
}

func (s *AuthService) dummySalt() []byte { return common.GenerateRandByteArray(cryptox.SaltSize) }

func isBlank(v string) bool { return strings.TrimSpace(v) == "" }
