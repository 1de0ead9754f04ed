package session

import (
	"errors"
	"strings"

	"codecrafted.org/internal/auth"
)

// Cache is the client-side session cache: one logical token over persistent
// storage plus a cookie mirror. All side effects are local; nothing here
// talks to the network.
type Cache struct {
	storage TokenStore
	cookie  TokenStore
}

// NewCache combines persistent storage with its cookie mirror.
func NewCache(storage, cookie TokenStore) *Cache {
	return &Cache{storage: storage, cookie: cookie}
}

// Store persists the token in storage first, then the cookie. If the cookie
// write fails the storage entry is rolled back, so the two stores never
// diverge.
func (c *Cache) Store(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("session: token is empty")
	}
	if err := c.storage.Save(token); err != nil {
		return err
	}
	if err := c.cookie.Save(token); err != nil {
		_ = c.storage.Delete()
		return err
	}
	return nil
}

// Token returns the raw stored token for request authorization.
func (c *Cache) Token() (string, error) {
	return c.storage.Load()
}

// LoadDecoded returns the locally decoded claims of the stored token, or nil
// when no token is stored. A token past its expiry (or otherwise undecodable)
// is cleared from both stores and reported as absent. The signature is not
// checked here; only the server verifies it.
func (c *Cache) LoadDecoded() (*auth.Claims, error) {
	token, err := c.storage.Load()
	if errors.Is(err, ErrNoToken) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	claims, err := auth.DecodeUnverified(token)
	if err != nil {
		clearErr := c.Clear()
		if errors.Is(err, auth.ErrTokenExpired) || errors.Is(err, auth.ErrInvalidToken) {
			return nil, clearErr
		}
		return nil, err
	}
	return claims, nil
}

// Clear removes the token from both stores (logout).
func (c *Cache) Clear() error {
	return errors.Join(c.storage.Delete(), c.cookie.Delete())
}
