package authkit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	internalaudit "github.com/dvespero/authkit/internal/audit"
	"github.com/dvespero/authkit/internal/rate"
	"github.com/dvespero/authkit/session"
	"github.com/dvespero/authkit/storage"
	"github.com/dvespero/authkit/token"
	"github.com/dvespero/authkit/workspace"
)

// Durable keys owned by the orchestrator itself, relative to the tier
// namespace. Token and workspace keys belong to their stores.
const (
	snapshotKey = "session"
	clientIDKey = "client_id"
)

// Orchestrator coordinates the authentication lifecycle: it sequences
// backend calls, rate limiting, token and workspace persistence, and the
// session state machine. It is the only writer of session state.
//
// Every public operation returns a result struct whose Failure field is
// set on any non-success outcome. Orchestrator methods never panic on bad
// input and never return Go errors to UI code.
type Orchestrator struct {
	config     Config
	backend    AuthBackend
	durable    storage.Tier
	ephemeral  storage.Tier
	sessions   *session.Store
	tokens     *token.Manager
	workspaces *workspace.Store
	limiter    *rate.Limiter
	audit      *internalaudit.Dispatcher
	metrics    *Metrics
	log        logrus.FieldLogger
	validate   *validator.Validate
	now        func() time.Time

	// mu serializes state-mutating operations; gen tags each of them so a
	// completion that lost the race to a newer operation can be discarded.
	mu  sync.Mutex
	gen atomic.Uint64

	bootstrapOnce sync.Once

	clientMu sync.Mutex
	clientID string

	// Pending second-factor handshake, set by Login and consumed by
	// VerifySecondFactor. Guarded by mu.
	pendingEmail    string
	pendingRemember bool
}

type orchestratorDeps struct {
	config     Config
	backend    AuthBackend
	durable    storage.Tier
	ephemeral  storage.Tier
	sessions   *session.Store
	tokens     *token.Manager
	workspaces *workspace.Store
	limiter    *rate.Limiter
	audit      *internalaudit.Dispatcher
	metrics    *Metrics
	log        logrus.FieldLogger
	validate   *validator.Validate
}

func newOrchestrator(deps orchestratorDeps) *Orchestrator {
	return &Orchestrator{
		config:     deps.config,
		backend:    deps.backend,
		durable:    deps.durable,
		ephemeral:  deps.ephemeral,
		sessions:   deps.sessions,
		tokens:     deps.tokens,
		workspaces: deps.workspaces,
		limiter:    deps.limiter,
		audit:      deps.audit,
		metrics:    deps.metrics,
		log:        deps.log,
		validate:   deps.validate,
		now:        time.Now,
	}
}

// SetClock overrides the orchestrator's time source and propagates it to
// the limiter and token manager. Test hook.
func (o *Orchestrator) SetClock(now func() time.Time) {
	o.now = now
	o.limiter.SetClock(now)
	o.tokens.SetClock(now)
}

// Session returns a snapshot of the current session state.
func (o *Orchestrator) Session() Session {
	return o.sessions.Snapshot()
}

// Metrics returns the orchestrator's counter set.
func (o *Orchestrator) Metrics() *Metrics {
	return o.metrics
}

// AccessToken returns the current access token for request decoration, or
// empty when unauthenticated.
func (o *Orchestrator) AccessToken(ctx context.Context) string {
	return o.tokens.AccessToken(ctx)
}

// Workspace returns the persisted workspace context, if any.
func (o *Orchestrator) Workspace(ctx context.Context) (*workspace.Context, bool) {
	return o.workspaces.Get(ctx)
}

// LastWorkspaceIDs returns the most recently selected company and
// establishment ids, for pre-selecting pickers. Empty strings mean the
// user never selected a workspace on this client.
func (o *Orchestrator) LastWorkspaceIDs(ctx context.Context) (companyID, establishmentID string) {
	return o.workspaces.LastContextIDs(ctx)
}

// RemainingLoginAttempts reports how many login attempts identifier has
// left before the cooldown engages.
func (o *Orchestrator) RemainingLoginAttempts(identifier string) int {
	return o.limiter.RemainingAttempts(rate.ActionLogin, identifier)
}

// Close flushes and stops the audit dispatcher. The orchestrator must not
// be used afterwards.
func (o *Orchestrator) Close() {
	o.audit.Close()
}

// beginOp starts a new generation. Any in-flight operation tagged with an
// older generation must discard its completion.
func (o *Orchestrator) beginOp() uint64 {
	return o.gen.Add(1)
}

// current reports whether gen is still the newest operation.
func (o *Orchestrator) current(gen uint64) bool {
	return o.gen.Load() == gen
}

// superseded marks a completion that lost the race to a newer operation.
// The session state it would have written is discarded.
func (o *Orchestrator) superseded(op string) *Failure {
	o.metrics.Inc(MetricStaleCompletionDiscarded)
	o.log.WithField("operation", op).Debug("stale completion discarded")
	return &Failure{Code: CodeSuperseded, Message: "a newer operation superseded this one"}
}

// clientIdentifier returns the stable per-installation id, creating and
// persisting one on first use. Storage failures fall back to a fresh
// unpersisted id.
func (o *Orchestrator) clientIdentifier(ctx context.Context) string {
	o.clientMu.Lock()
	defer o.clientMu.Unlock()

	if o.clientID != "" {
		return o.clientID
	}
	if raw, err := o.durable.Get(ctx, clientIDKey); err == nil && raw != "" {
		o.clientID = raw
		return o.clientID
	} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
		o.log.WithError(err).Warn("client id read failed")
	}

	o.clientID = uuid.NewString()
	if err := o.durable.Set(ctx, clientIDKey, o.clientID); err != nil {
		o.log.WithError(err).Warn("client id persist failed")
	}
	return o.clientID
}

// emit sends an audit event, filling the envelope fields.
func (o *Orchestrator) emit(ctx context.Context, event AuditEvent) {
	if o.audit == nil {
		return
	}
	event.Timestamp = o.now().UTC()
	event.OpID = uuid.NewString()
	event.ClientID = o.clientIdentifier(ctx)
	o.audit.Emit(ctx, event)
}

// persistSnapshot writes the current session identity to the durable tier
// so the next bootstrap can render it optimistically. Failures are logged
// and swallowed.
func (o *Orchestrator) persistSnapshot(ctx context.Context) {
	if !o.config.Session.PersistSnapshot {
		return
	}
	sess := o.sessions.Snapshot()
	if sess.User == nil {
		o.clearSnapshot(ctx)
		return
	}
	raw, err := session.EncodeSnapshot(sess)
	if err != nil {
		o.log.WithError(err).Warn("session snapshot encode failed")
		return
	}
	if err := o.durable.Set(ctx, snapshotKey, raw); err != nil {
		o.log.WithError(err).Warn("session snapshot persist failed")
	}
}

func (o *Orchestrator) clearSnapshot(ctx context.Context) {
	if err := o.durable.Delete(ctx, snapshotKey); err != nil {
		o.log.WithError(err).Warn("session snapshot clear failed")
	}
}

// validationFailure converts the first validator error into a Failure.
func (o *Orchestrator) validationFailure(err error) *Failure {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &Failure{
			Code:    CodeValidation,
			Message: "invalid " + fe.Field(),
			Field:   fe.Field(),
		}
	}
	return &Failure{Code: CodeValidation, Message: err.Error()}
}

// failureFromError maps a backend call error into a Failure. Structured
// backend rejections pass their code through; everything else becomes a
// generic backend failure.
func failureFromError(err error) *Failure {
	var be *BackendError
	if errors.As(err, &be) {
		code := be.Code
		if code == "" {
			code = CodeBackend
		}
		return &Failure{Code: code, Message: be.Message, Field: be.Field}
	}
	return &Failure{Code: CodeBackend, Message: "service unavailable, try again"}
}

// rateLimitFailure builds the throttled-operation failure for action.
func (o *Orchestrator) rateLimitFailure(action, identifier string) *Failure {
	retry := o.limiter.RemainingCooldown(action, identifier)
	return &Failure{
		Code:       CodeRateLimited,
		Message:    "too many attempts, retry later",
		RetryAfter: retry,
	}
}

// applyTokens persists grant on the tier selected by persistent.
func (o *Orchestrator) applyTokens(ctx context.Context, grant TokenGrant, persistent bool) {
	refresh := grant.RefreshToken
	if refresh == "" {
		// Refresh responses may omit the refresh token when it is not
		// rotated; keep the one already stored.
		refresh = o.tokens.RefreshToken(ctx)
	}
	o.tokens.Save(ctx, grant.AccessToken, refresh, time.Duration(grant.ExpiresIn)*time.Second, persistent)
}
