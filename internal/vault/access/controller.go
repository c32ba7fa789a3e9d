// Package access provides token-based access control for DocVault.
package access

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/docvault-go/internal/core/domain"
	"github.com/yndnr/docvault-go/pkg/cmap"
	"github.com/yndnr/docvault-go/pkg/token"
)

const (
	// DefaultIssuePerSecond limits token issuance to slow down
	// credential stuffing.
	DefaultIssuePerSecond = 10

	// DefaultIssueBurst is the issuance burst allowance.
	DefaultIssueBurst = 20
)

// timeNow is overridable in tests.
var timeNow = time.Now

// AuditSink receives security events emitted by the controller.
type AuditSink interface {
	Record(event *domain.AuditEvent)
}

// Controller issues and validates access tokens and enforces role
// permissions.
type Controller struct {
	tokens   *cmap.Map[string, *domain.SecurityContext]
	issuer   *rate.Limiter
	tokenTTL time.Duration
	sink     AuditSink
}

// Options configures New.
type Options struct {
	// TokenTTL overrides the default token lifetime.
	TokenTTL time.Duration

	// IssuePerSecond and IssueBurst tune the issuance throttle.
	IssuePerSecond float64
	IssueBurst     int

	// Sink receives audit events. May be nil.
	Sink AuditSink
}

// New creates a controller.
func New(opts Options) *Controller {
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = domain.TokenTTL
	}
	perSec := opts.IssuePerSecond
	if perSec <= 0 {
		perSec = DefaultIssuePerSecond
	}
	burst := opts.IssueBurst
	if burst <= 0 {
		burst = DefaultIssueBurst
	}

	return &Controller{
		tokens:   cmap.New[string, *domain.SecurityContext](),
		issuer:   rate.NewLimiter(rate.Limit(perSec), burst),
		tokenTTL: ttl,
		sink:     opts.Sink,
	}
}

// IssueToken creates a token for the user and role. The raw token is
// returned exactly once; only its hash is retained.
func (c *Controller) IssueToken(userID string, role domain.Role) (string, error) {
	if userID == "" {
		return "", domain.ErrInvalidArgument.WithDetails("user id is empty")
	}
	if !domain.IsValidRole(string(role)) {
		return "", domain.ErrInvalidArgument.WithDetails("unknown role: " + string(role))
	}

	if !c.issuer.Allow() {
		c.record(domain.NewAuditEvent(domain.ActionAuthFailure, domain.SeverityWarning,
			"token issuance throttled").WithUser(userID, role))
		return "", domain.ErrIssueThrottled
	}

	tok, err := token.Generate()
	if err != nil {
		return "", domain.ErrInternal.WithCause(err)
	}

	hash := token.Hash(tok)
	c.tokens.Set(hash, &domain.SecurityContext{
		UserID:    userID,
		Role:      role,
		TokenHash: hash,
		IssuedAt:  timeNow().UnixMilli(),
	})

	c.record(domain.NewAuditEvent(domain.ActionTokenIssued, domain.SeverityInfo,
		"access token issued").WithUser(userID, role))
	return tok, nil
}

// Validate checks a raw token and returns a clone of its security
// context. Expired tokens are removed as a side effect.
func (c *Controller) Validate(tok string) (*domain.SecurityContext, error) {
	if !token.WellFormed(tok) {
		c.recordFailure("", "malformed token presented")
		return nil, domain.ErrTokenMalformed
	}

	hash := token.Hash(tok)
	sc, ok := c.tokens.Get(hash)
	if !ok {
		c.recordFailure("", "unknown or revoked token presented")
		return nil, domain.ErrTokenInvalid
	}

	if c.expired(sc) {
		c.tokens.Delete(hash)
		c.recordFailure(sc.UserID, "expired token presented")
		return nil, domain.ErrTokenExpired
	}

	return sc.Clone(), nil
}

// Enforce validates the token and checks the permission in one step.
// On denial an authorization_failure event is recorded and
// ErrPermissionDenied returned.
func (c *Controller) Enforce(tok string, perm domain.Permission) (*domain.SecurityContext, error) {
	sc, err := c.Validate(tok)
	if err != nil {
		return nil, err
	}

	if !domain.HasPermission(sc.Role, perm) {
		c.record(domain.NewAuditEvent(domain.ActionAuthzFailure, domain.SeverityWarning,
			"permission denied: "+string(perm)).
			WithUser(sc.UserID, sc.Role).
			WithDetail("permission", string(perm)))
		return nil, domain.ErrPermissionDenied.WithDetails(string(perm))
	}

	return sc, nil
}

// Revoke invalidates a token. Revoking an unknown token is not an error.
func (c *Controller) Revoke(tok string) bool {
	if !token.WellFormed(tok) {
		return false
	}

	sc, ok := c.tokens.Pop(token.Hash(tok))
	if !ok {
		return false
	}

	c.record(domain.NewAuditEvent(domain.ActionTokenRevoked, domain.SeverityInfo,
		"access token revoked").WithUser(sc.UserID, sc.Role))
	return true
}

// RevokeUser invalidates every token belonging to a user and returns
// how many were removed.
func (c *Controller) RevokeUser(userID string) int {
	return c.tokens.DeleteIf(func(_ string, sc *domain.SecurityContext) bool {
		return sc.UserID == userID
	})
}

// PurgeExpired removes expired tokens and returns how many were removed.
func (c *Controller) PurgeExpired() int {
	return c.tokens.DeleteIf(func(_ string, sc *domain.SecurityContext) bool {
		return c.expired(sc)
	})
}

// expired checks the token lifetime against the controller TTL.
func (c *Controller) expired(sc *domain.SecurityContext) bool {
	return timeNow().UnixMilli()-sc.IssuedAt >= c.tokenTTL.Milliseconds()
}

// ActiveTokens returns the current token count.
func (c *Controller) ActiveTokens() int {
	return c.tokens.Count()
}

func (c *Controller) recordFailure(userID, msg string) {
	e := domain.NewAuditEvent(domain.ActionAuthFailure, domain.SeverityWarning, msg)
	if userID != "" {
		e.User = userID
	}
	c.record(e)
}

func (c *Controller) record(e *domain.AuditEvent) {
	if c.sink != nil {
		c.sink.Record(e)
	}
}
