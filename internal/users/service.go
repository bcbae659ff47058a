package users

import (
	"context"
	"errors"

	"github.com/dchest/uniuri"
	"github.com/rs/zerolog/log"

	"github.com/clay-auth/clay-auth/internal/bus"
	"github.com/clay-auth/clay-auth/internal/db/models"
)

// APIKeySecretLen is the length of generated api key secrets.
const APIKeySecretLen = 32

// SaveEvent is published after a record was written.
type SaveEvent struct {
	Key   string      `json:"key"`
	Value models.User `json:"value"`
}

// DeleteEvent is published after a record was deleted.
type DeleteEvent struct {
	URI string `json:"uri"`
}

// Service implements user administration.
type Service struct {
	repo      *Repository
	bus       bus.Bus
	validator XValidator
}

// NewService returns a service. A nil bus drops all events.
func NewService(repo *Repository, b bus.Bus) *Service {
	if b == nil {
		b = bus.Nop{}
	}

	return &Service{
		repo:      repo,
		bus:       b,
		validator: NewValidator(),
	}
}

// Repository returns the underlying repository.
func (s *Service) Repository() *Repository {
	return s.repo
}

// Save creates or replaces the record described by p.
// The returned copy carries no hashes; APIKey holds the plaintext key when one was generated.
func (s *Service) Save(ctx context.Context, p *Payload) (*models.User, error) {
	if err := s.validate(p); err != nil {
		return nil, err
	}

	generate, keyHash, err := p.apiKeyAction()
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Username: p.Username,
		Provider: p.Provider,
		Auth:     p.Auth,
		ImageURL: p.ImageURL,
		Name:     p.Name,
		APIKey:   keyHash,
	}

	if p.Password != "" {
		if u.Password, err = models.HashPassword(p.Password); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	var token string

	if generate {
		secret := uniuri.NewLen(APIKeySecretLen)
		token = DeriveKey(u.Username, u.Provider) + "." + secret

		if u.APIKey, err = models.HashPassword(secret); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	if _, err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}

	public := u.Public()
	s.bus.Publish(bus.EventSaveUser, SaveEvent{Key: u.Ref, Value: public})

	log.Info().Str("user", u.Username).Str("provider", u.Provider).Str("auth", u.Auth).
		Bool("apikey", generate).Msg("user saved")

	public.APIKey = token

	return &public, nil
}

// Replace saves p at key. The payload identity has to derive key.
func (s *Service) Replace(ctx context.Context, key string, p *Payload) (*models.User, error) {
	if err := s.validate(p); err != nil {
		return nil, err
	}

	if DeriveKey(p.Username, p.Provider) != key {
		return nil, invalid(msgKeyMismatch)
	}

	return s.Save(ctx, p)
}

// Get returns the record of key without hashes.
func (s *Service) Get(ctx context.Context, key string) (*models.User, error) {
	u, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	public := u.Public()

	return &public, nil
}

// Delete removes the record of key and returns it without hashes.
func (s *Service) Delete(ctx context.Context, key string) (*models.User, error) {
	u, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, key); err != nil {
		return nil, err
	}

	s.bus.Publish(bus.EventDeleteUser, DeleteEvent{URI: u.Ref})

	log.Info().Str("user", u.Username).Str("provider", u.Provider).Msg("user deleted")

	public := u.Public()

	return &public, nil
}

// List returns the uris of all records under sitePrefix.
func (s *Service) List(ctx context.Context, sitePrefix string) ([]string, error) {
	keys, err := s.repo.Keys(ctx)
	if err != nil {
		return nil, err
	}

	uris := make([]string, 0, len(keys))
	for _, k := range keys {
		uris = append(uris, SiteURI(sitePrefix, k))
	}

	return uris, nil
}

// Exists reports whether a record for (username, provider) exists.
func (s *Service) Exists(ctx context.Context, username, provider string) (bool, error) {
	_, err := s.repo.Get(ctx, DeriveKey(username, provider))

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *Service) validate(p *Payload) error {
	errs := s.validator.Validate(p)
	if len(errs) == 0 {
		return nil
	}

	for _, fe := range errs {
		if fe.Tag == "required" {
			return invalid(msgRequired)
		}
	}

	return invalid(msgAuthLevel)
}

func isHash(s string) bool {
	return models.IsHash(s)
}
