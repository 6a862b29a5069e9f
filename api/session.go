package api

import (
	"context"

	"github.com/fesgura/mathtrade-logistics-sub000/utils"
)

// contextSession is a snapshot of the identity a context carried at login.
// Sessions are immutable once minted; a logout builds a new client instead of
// mutating this one.
type contextSession struct {
	token  string
	userId int
	admin  bool
}

// SessionFromContext freezes the identity the context carries (written with
// the utils setters) into a SessionProvider. A context with no token yields
// an unauthenticated session.
func SessionFromContext(ctx context.Context) SessionProvider {
	token, _ := utils.GetTokenFromContext(ctx)
	userId, _ := utils.GetUserIdFromContext(ctx)
	return &contextSession{
		token:  token,
		userId: userId,
		admin:  utils.GetIsAdminFromContext(ctx),
	}
}

func (s *contextSession) IsAuthenticated() bool { return s.token != "" }
func (s *contextSession) Token() string         { return s.token }
func (s *contextSession) UserId() int           { return s.userId }
func (s *contextSession) IsAdmin() bool         { return s.admin }
