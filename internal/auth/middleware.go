package auth

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"
)

const sessionName = "murmur_session"

type ctxKey struct{}

// Sessions keeps the logged-in user id in a signed cookie.
type Sessions struct {
	store sessions.Store
}

func NewSessions(secret string, secure bool) *Sessions {
	maxAge := 86400 * 30
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(maxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	return &Sessions{store: store}
}

func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, userID uint) error {
	// an unreadable cookie yields a fresh session, which Save overwrites
	session, _ := s.store.Get(r, sessionName)
	session.Values["user_id"] = userID
	return session.Save(r, w)
}

func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	// an unreadable cookie yields a fresh session, which Save expires
	session, _ := s.store.Get(r, sessionName)
	delete(session.Values, "user_id")
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// Middleware resolves the caller from the session cookie, then the X-User-ID header, then the
// user_id query parameter, and stores it in the request context. Requests without an identity
// pass through with caller zero; operations that need one reject them.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := s.sessionUser(r)
		if userID == 0 {
			userID = ParseID(r.Header.Get("X-User-ID"))
		}
		if userID == 0 {
			userID = ParseID(r.URL.Query().Get("user_id"))
		}
		if userID != 0 {
			r = r.WithContext(WithCaller(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Sessions) sessionUser(r *http.Request) uint {
	// an unreadable cookie yields a fresh session and an error; treat it as anonymous
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		return 0
	}
	id, _ := session.Values["user_id"].(uint)
	return id
}

func WithCaller(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// Caller returns the acting user id, or zero when the request carries none.
func Caller(ctx context.Context) uint {
	id, _ := ctx.Value(ctxKey{}).(uint)
	return id
}

// ParseID parses a positive decimal id, returning zero for anything else.
func ParseID(s string) uint {
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0
	}
	return uint(id)
}
