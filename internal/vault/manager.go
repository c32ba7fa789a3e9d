// Package vault implements the DocVault storage manager.
package vault

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/yndnr/docvault-go/internal/config"
	"github.com/yndnr/docvault-go/internal/core/domain"
	"github.com/yndnr/docvault-go/internal/telemetry/logger"
	"github.com/yndnr/docvault-go/internal/telemetry/metric"
	"github.com/yndnr/docvault-go/internal/vault/access"
	"github.com/yndnr/docvault-go/internal/vault/audit"
	"github.com/yndnr/docvault-go/internal/vault/cache"
	"github.com/yndnr/docvault-go/internal/vault/keyring"
	"github.com/yndnr/docvault-go/internal/vault/pii"
	"github.com/yndnr/docvault-go/internal/vault/ratelimit"
	"github.com/yndnr/docvault-go/internal/vault/repository"
	"github.com/yndnr/docvault-go/pkg/crypto/aead"
)

// File names inside the data directory.
const (
	DatabaseFileName = "docvault.db"
	AuditFileName    = "audit.log"
)

// timeNow is overridable in tests.
var timeNow = time.Now

// Manager orchestrates the vault components around every document
// operation according to the mode's feature flags. The pipeline order
// is: RBAC enforce, rate-limit check, input sanitation, PII masking,
// cache, repository, cache population, audit.
type Manager struct {
	mode  Mode
	flags FeatureFlags
	cfg   *config.Config

	repo    *repository.Repository
	keys    *keyring.Keyring    // nil unless Encryption
	cache   *cache.Cache        // nil unless Caching
	limiter *ratelimit.Limiter  // nil unless RateLimiting
	access  *access.Controller  // nil unless RBAC
	pii     *pii.Detector       // nil unless PIIDetection
	trail   *audit.Logger       // nil unless AuditLogging

	log     logger.Logger
	metrics *metric.Registry

	startedAt time.Time
	closed    bool
}

// Open builds a manager from the configuration, wiring only the
// components the mode enables.
func Open(cfg *config.Config) (*Manager, error) {
	if err := config.Verify(cfg); err != nil {
		return nil, err
	}

	mode, err := ParseMode(cfg.Vault.Mode)
	if err != nil {
		return nil, err
	}
	flags := flagsForMode(mode)

	m := &Manager{
		mode:      mode,
		flags:     flags,
		cfg:       cfg,
		log:       logger.Default().With("component", "vault", "mode", string(mode)),
		metrics:   metric.Global(),
		startedAt: timeNow(),
	}

	if flags.Encryption {
		m.keys, err = keyring.Open(keyring.Options{
			Path:      filepath.Join(cfg.Vault.DataDir, keyring.KeyFileName),
			Secret:    []byte(cfg.Security.Secret),
			Algorithm: aead.Algorithm(cfg.Security.Algorithm),
		})
		if err != nil {
			return nil, fmt.Errorf("vault: open keyring: %w", err)
		}
	}

	m.repo, err = repository.Open(repository.Options{
		Path:           filepath.Join(cfg.Vault.DataDir, DatabaseFileName),
		Keyring:        m.keys,
		FullTextSearch: flags.FullTextSearch,
		PoolSize:       cfg.PoolSize(),
	})
	if err != nil {
		m.closeComponents()
		return nil, err
	}

	if flags.AuditLogging {
		m.trail, err = audit.Open(filepath.Join(cfg.Vault.DataDir, AuditFileName), audit.Options{
			BufferSize:    cfg.Audit.BufferSize,
			HistorySize:   cfg.Audit.HistorySize,
			FlushInterval: cfg.Audit.FlushInterval,
		})
		if err != nil {
			m.closeComponents()
			return nil, err
		}
	}

	if flags.Caching {
		m.cache = cache.New(cfg.CacheCapacity(), cfg.CacheTTL())
	}
	if flags.RateLimiting {
		m.limiter = ratelimit.New(cfg.RateLimit.Limit, cfg.RateLimit.Window)
	}
	if flags.RBAC {
		m.access = access.New(access.Options{
			TokenTTL: cfg.Security.TokenTTL,
			Sink:     m.sink(),
		})
	}
	if flags.PIIDetection {
		m.pii = pii.New()
	}

	m.log.Info("vault opened",
		"data_dir", cfg.Vault.DataDir,
		"encrypted", flags.Encryption,
		"full_text_search", m.repo.FullTextSearchEnabled())
	return m, nil
}

// Mode returns the configured mode.
func (m *Manager) Mode() Mode { return m.mode }

// Flags returns the active feature flags.
func (m *Manager) Flags() FeatureFlags { return m.flags }

// IssueToken creates an access token. Requires RBAC.
func (m *Manager) IssueToken(userID string, role domain.Role) (string, error) {
	if m.access == nil {
		return "", domain.ErrFeatureDisabled.WithDetails("rbac is off in mode " + string(m.mode))
	}
	tok, err := m.access.IssueToken(userID, role)
	if err != nil {
		m.metrics.RecordAuthFailure("issue_denied")
		return "", err
	}
	return tok, nil
}

// RevokeToken invalidates an access token. Requires RBAC.
func (m *Manager) RevokeToken(tok string) bool {
	if m.access == nil {
		return false
	}
	return m.access.Revoke(tok)
}

// CreateDocument stores a new document. The document id is generated
// when empty; on a soft-deleted id the row is revived.
func (m *Manager) CreateDocument(ctx context.Context, tok string, doc *domain.Document) error {
	sec, err := m.authorize(tok, domain.PermWrite)
	if err != nil {
		return err
	}
	if doc.ID == "" {
		doc.ID = domain.GenerateDocumentID()
	}
	if err := m.sanitizeWrite(sec, doc); err != nil {
		return err
	}
	m.maskPII(sec, doc)

	if err := doc.Validate(); err != nil {
		return err
	}
	if err := m.observe("create", m.repo.Create(ctx, doc)); err != nil {
		return err
	}

	if m.cache != nil {
		m.cache.Put(doc)
	}
	m.metrics.IncDocumentCreated()
	m.audit(domain.NewAuditEvent(domain.ActionDocumentCreated, domain.SeverityInfo,
		"document created").WithDetail("document_id", doc.ID), sec)
	return nil
}

// GetDocument fetches a document by id, consulting the cache first.
func (m *Manager) GetDocument(ctx context.Context, tok, id string) (*domain.Document, error) {
	sec, err := m.authorize(tok, domain.PermRead)
	if err != nil {
		return nil, err
	}
	if t := inspectID(id); t != nil {
		return nil, m.reject(sec, t)
	}

	if m.cache != nil {
		if doc := m.cache.Get(id); doc != nil {
			m.metrics.IncCacheHit()
			m.audit(domain.NewAuditEvent(domain.ActionDocumentRead, domain.SeverityInfo,
				"document read").WithDetail("document_id", id).WithDetail("cache", "hit"), sec)
			return doc, nil
		}
		m.metrics.IncCacheMiss()
	}

	doc, err := m.repo.Get(ctx, id)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrIntegrityViolation.Code) {
			m.auditAlert(domain.NewAuditEvent(domain.ActionIntegrityAlert, domain.SeverityCritical,
				"document failed checksum verification").WithDetail("document_id", id), sec)
		}
		return nil, m.observeErr("read", err)
	}
	m.metrics.RecordOperation("read", "ok")

	if m.cache != nil {
		m.cache.Put(doc)
	}
	m.audit(domain.NewAuditEvent(domain.ActionDocumentRead, domain.SeverityInfo,
		"document read").WithDetail("document_id", id), sec)
	return doc, nil
}

// UpdateDocument persists changes to an existing document and
// refreshes the cache entry.
func (m *Manager) UpdateDocument(ctx context.Context, tok string, doc *domain.Document) error {
	sec, err := m.authorize(tok, domain.PermWrite)
	if err != nil {
		return err
	}
	if err := m.sanitizeWrite(sec, doc); err != nil {
		return err
	}
	m.maskPII(sec, doc)

	if err := m.observe("update", m.repo.Update(ctx, doc)); err != nil {
		return err
	}

	if m.cache != nil {
		m.cache.Invalidate(doc.ID)
		m.cache.Put(doc)
	}
	m.audit(domain.NewAuditEvent(domain.ActionDocumentUpdated, domain.SeverityInfo,
		"document updated").WithDetail("document_id", doc.ID), sec)
	return nil
}

// DeleteDocument soft-deletes a document. With hard set, the row is
// physically removed; under the SecureDeletion flag the content is
// overwritten with random bytes first.
func (m *Manager) DeleteDocument(ctx context.Context, tok, id string, hard bool) error {
	sec, err := m.authorize(tok, domain.PermDelete)
	if err != nil {
		return err
	}
	if t := inspectID(id); t != nil {
		return m.reject(sec, t)
	}

	switch {
	case hard && m.flags.SecureDeletion:
		err = m.repo.SecureErase(ctx, id)
	case hard:
		err = m.repo.HardDelete(ctx, id)
	default:
		err = m.repo.Delete(ctx, id)
	}
	if err := m.observe("delete", err); err != nil {
		return err
	}

	if m.cache != nil {
		m.cache.Invalidate(id)
	}
	m.metrics.IncDocumentDeleted()
	m.audit(domain.NewAuditEvent(domain.ActionDocumentDeleted, domain.SeverityInfo,
		"document deleted").
		WithDetail("document_id", id).
		WithDetail("hard", strconv.FormatBool(hard)), sec)
	return nil
}

// ListDocuments returns documents matching the filter.
func (m *Manager) ListDocuments(ctx context.Context, tok string, opts repository.ListOptions) ([]*domain.Document, error) {
	sec, err := m.authorize(tok, domain.PermRead)
	if err != nil {
		return nil, err
	}

	docs, err := m.repo.List(ctx, opts)
	if err != nil {
		return nil, m.observeErr("list", err)
	}
	m.metrics.RecordOperation("list", "ok")

	m.audit(domain.NewAuditEvent(domain.ActionDocumentListed, domain.SeverityInfo,
		"documents listed").WithDetail("count", strconv.Itoa(len(docs))), sec)
	return docs, nil
}

// SearchDocuments runs a ranked full-text or scan search, skipping
// offset hits for pagination.
func (m *Manager) SearchDocuments(ctx context.Context, tok, query string, limit, offset int) ([]*repository.SearchResult, error) {
	sec, err := m.authorize(tok, domain.PermRead)
	if err != nil {
		return nil, err
	}
	if t := inspectQuery(query); t != nil {
		return nil, m.reject(sec, t)
	}

	results, err := m.repo.Search(ctx, query, limit, offset)
	if err != nil {
		return nil, m.observeErr("search", err)
	}
	m.metrics.RecordOperation("search", "ok")

	m.audit(domain.NewAuditEvent(domain.ActionDocumentSearched, domain.SeverityInfo,
		"documents searched").WithDetail("hits", strconv.Itoa(len(results))), sec)
	return results, nil
}

// BatchCreate stores documents atomically. Requires the Batching flag.
func (m *Manager) BatchCreate(ctx context.Context, tok string, docs []*domain.Document) error {
	if !m.flags.Batching {
		return domain.ErrFeatureDisabled.WithDetails("batching is off in mode " + string(m.mode))
	}
	sec, err := m.authorize(tok, domain.PermWrite)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := m.sanitizeWrite(sec, doc); err != nil {
			return err
		}
		m.maskPII(sec, doc)
	}

	if err := m.observe("batch_create", m.repo.BatchCreate(ctx, docs)); err != nil {
		return err
	}

	if m.cache != nil {
		for _, doc := range docs {
			m.cache.Put(doc)
		}
	}
	m.audit(domain.NewAuditEvent(domain.ActionBatchCreated, domain.SeverityInfo,
		"batch created").WithDetail("count", strconv.Itoa(len(docs))), sec)
	return nil
}

// BatchGet fetches documents by id, skipping missing ones. Requires
// the Batching flag.
func (m *Manager) BatchGet(ctx context.Context, tok string, ids []string) ([]*domain.Document, error) {
	if !m.flags.Batching {
		return nil, domain.ErrFeatureDisabled.WithDetails("batching is off in mode " + string(m.mode))
	}
	sec, err := m.authorize(tok, domain.PermRead)
	if err != nil {
		return nil, err
	}

	docs, err := m.repo.BatchGet(ctx, ids)
	if err != nil {
		return nil, m.observeErr("batch_get", err)
	}
	m.metrics.RecordOperation("batch_get", "ok")

	m.audit(domain.NewAuditEvent(domain.ActionBatchRead, domain.SeverityInfo,
		"batch read").WithDetail("count", strconv.Itoa(len(docs))), sec)
	return docs, nil
}

// OpenDocument returns a reader over the document content for large
// reads. Requires the Streaming flag.
func (m *Manager) OpenDocument(ctx context.Context, tok, id string) (io.ReadCloser, error) {
	if !m.flags.Streaming {
		return nil, domain.ErrFeatureDisabled.WithDetails("streaming is off in mode " + string(m.mode))
	}
	doc, err := m.GetDocument(ctx, tok, id)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(doc.Content)), nil
}

// AuditRecent returns the newest n audit events, newest first.
func (m *Manager) AuditRecent(n int) []*domain.AuditEvent {
	if m.trail == nil {
		return nil
	}
	return m.trail.Recent(n)
}

// AuditAnomalies runs the anomaly check over recent audit history.
func (m *Manager) AuditAnomalies() []audit.Anomaly {
	if m.trail == nil {
		return nil
	}
	return m.trail.Anomalies()
}

// Close flushes the audit trail and releases every component. It is
// safe to call more than once.
func (m *Manager) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	return m.closeComponents()
}

func (m *Manager) closeComponents() error {
	var firstErr error

	if m.trail != nil {
		if err := m.trail.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if m.repo != nil {
		if err := m.repo.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if m.keys != nil {
		if err := m.keys.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// authorize runs the head of the pipeline: RBAC enforcement, then the
// rate limit. The returned context is nil when RBAC is off.
func (m *Manager) authorize(tok string, perm domain.Permission) (*domain.SecurityContext, error) {
	var sec *domain.SecurityContext

	if m.access != nil {
		var err error
		sec, err = m.access.Enforce(tok, perm)
		if err != nil {
			m.metrics.RecordAuthFailure(domain.GetErrorCode(err))
			return nil, err
		}
	}

	if m.limiter != nil {
		client := "anonymous"
		if sec != nil {
			client = sec.UserID
		}
		allowed, retryAfter := m.limiter.Check(client)
		if !allowed {
			m.metrics.IncRateLimitDenial()
			m.audit(domain.NewAuditEvent(domain.ActionRateLimited, domain.SeverityWarning,
				"rate limit exceeded").
				WithDetail("retry_after", retryAfter.Truncate(time.Second).String()), sec)
			return nil, domain.ErrRateLimited.WithDetails(
				"retry after " + retryAfter.Truncate(time.Second).String())
		}
	}

	return sec, nil
}

// sanitizeWrite checks writable input for attack signatures and caps
// content size. Only active when RBAC is on.
func (m *Manager) sanitizeWrite(sec *domain.SecurityContext, doc *domain.Document) error {
	if !m.flags.RBAC {
		return nil
	}

	if len(doc.Content) > MaxContentBytes {
		return domain.ErrDocumentValidation.WithDetails(
			"content exceeds " + strconv.Itoa(MaxContentBytes) + " bytes")
	}
	if t := inspectDocument(doc); t != nil {
		return m.reject(sec, t)
	}
	return nil
}

// maskPII redacts sensitive data from the content before it is stored.
func (m *Manager) maskPII(sec *domain.SecurityContext, doc *domain.Document) {
	if m.pii == nil || len(doc.Content) == 0 {
		return
	}

	masked, counts := m.pii.Mask(string(doc.Content))
	if counts == nil {
		return
	}

	doc.Content = []byte(masked)
	doc.RefreshChecksum()

	e := domain.NewAuditEvent(domain.ActionPIIMasked, domain.SeverityWarning,
		"pii masked in document content").WithDetail("document_id", doc.ID)
	for cat, n := range counts {
		e.WithDetail(string(cat), strconv.Itoa(n))
		m.metrics.RecordPIIFinding(string(cat))
	}
	m.audit(e, sec)
}

// reject audits an injection or traversal attempt and returns the
// caller-facing error.
func (m *Manager) reject(sec *domain.SecurityContext, t *threat) error {
	m.auditAlert(domain.NewAuditEvent(t.action, domain.SeverityCritical,
		"suspicious input rejected").
		WithDetail("field", t.field).
		WithDetail("marker", t.marker), sec)
	return domain.ErrInvalidArgument.WithDetails("suspicious input in " + t.field)
}

// observe wraps a repository result with the operation metric.
func (m *Manager) observe(op string, err error) error {
	if err != nil {
		return m.observeErr(op, err)
	}
	m.metrics.RecordOperation(op, "ok")
	return nil
}

func (m *Manager) observeErr(op string, err error) error {
	m.metrics.RecordOperation(op, "error")
	return err
}

// audit records an event with the acting user attached.
func (m *Manager) audit(e *domain.AuditEvent, sec *domain.SecurityContext) {
	if m.trail == nil {
		return
	}
	if sec != nil {
		e.WithUser(sec.UserID, sec.Role)
	}
	m.trail.Record(e)
	m.metrics.RecordAuditEvent(string(e.Action))
}

// auditAlert additionally logs the event at warn level; alerts must be
// visible even when audit history is later truncated.
func (m *Manager) auditAlert(e *domain.AuditEvent, sec *domain.SecurityContext) {
	m.log.Warn(e.Message, "action", string(e.Action), "user", e.User)
	m.audit(e, sec)
}

// sink adapts the audit logger for the access controller. Returns nil
// when audit logging is off so the controller skips event emission.
func (m *Manager) sink() access.AuditSink {
	if m.trail == nil {
		return nil
	}
	return m.trail
}
