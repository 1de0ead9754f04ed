package session

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// CookieName is the cookie the route guard inspects on navigation.
const CookieName = "auth-token"

// storageKey is the file name the token is persisted under, mirroring the
// browser storage key.
const storageKey = "token"

// ErrNoToken reports that a backing store holds no session token.
var ErrNoToken = errors.New("session: no token stored")

// TokenStore persists the raw session token in one backing location.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	Delete() error
}

// FileStore keeps the token in a single file, the stand-in for browser
// persistent storage.
type FileStore struct {
	path string
}

var _ TokenStore = (*FileStore)(nil)

// NewFileStore stores the token under dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, storageKey)}
}

func (s *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", err
	}
	if len(data) == 0 {
		return "", ErrNoToken
	}
	return string(data), nil
}

func (s *FileStore) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CookieStore mirrors the token into the auth-token cookie of a jar, so
// navigation-level routing can see the session without reading persistent
// storage.
type CookieStore struct {
	jar    http.CookieJar
	origin *url.URL
}

var _ TokenStore = (*CookieStore)(nil)

// NewCookieStore mirrors the token for the given origin.
func NewCookieStore(jar http.CookieJar, origin *url.URL) *CookieStore {
	return &CookieStore{jar: jar, origin: origin}
}

func (s *CookieStore) Save(token string) error {
	s.jar.SetCookies(s.origin, []*http.Cookie{{
		Name:  CookieName,
		Value: token,
		Path:  "/",
	}})
	return nil
}

func (s *CookieStore) Load() (string, error) {
	for _, cookie := range s.jar.Cookies(s.origin) {
		if cookie.Name == CookieName && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", ErrNoToken
}

func (s *CookieStore) Delete() error {
	s.jar.SetCookies(s.origin, []*http.Cookie{{
		Name:    CookieName,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(0, 0),
	}})
	return nil
}
