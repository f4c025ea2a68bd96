package authkit

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	internalaudit "github.com/dvespero/authkit/internal/audit"
	"github.com/dvespero/authkit/internal/rate"
	"github.com/dvespero/authkit/session"
	"github.com/dvespero/authkit/storage"
	"github.com/dvespero/authkit/token"
	"github.com/dvespero/authkit/workspace"
)

// Builder assembles an [Orchestrator]. A builder is single-use: Build may
// only be called once.
//
//	orch, err := authkit.New().
//		WithBackend(apiClient).
//		WithRedis(redisClient).
//		Build()
type Builder struct {
	config    Config
	backend   AuthBackend
	redis     redis.UniversalClient
	durable   storage.Tier
	ephemeral storage.Tier
	logger    logrus.FieldLogger
	auditSink AuditSink
	built     bool
}

// New creates a builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the whole configuration. Zero-valued rate-limit
// policies are filled in from the defaults so partial configs stay valid.
func (b *Builder) WithConfig(cfg Config) *Builder {
	def := defaultConfig()
	if cfg.RateLimit.Login == (AttemptPolicy{}) {
		cfg.RateLimit.Login = def.RateLimit.Login
	}
	if cfg.RateLimit.SecondFactor == (AttemptPolicy{}) {
		cfg.RateLimit.SecondFactor = def.RateLimit.SecondFactor
	}
	if cfg.RateLimit.PasswordReset == (AttemptPolicy{}) {
		cfg.RateLimit.PasswordReset = def.RateLimit.PasswordReset
	}
	if cfg.Storage.KeyPrefix == "" {
		cfg.Storage.KeyPrefix = def.Storage.KeyPrefix
	}
	if cfg.Audit.BufferSize == 0 {
		cfg.Audit.BufferSize = def.Audit.BufferSize
	}
	b.config = cfg
	return b
}

// WithBackend sets the transport collaborator. Required.
func (b *Builder) WithBackend(backend AuthBackend) *Builder {
	b.backend = backend
	return b
}

// WithRedis sets the Redis client backing the durable tier. Ignored when
// WithDurableTier is also used.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithDurableTier sets an explicit durable tier, overriding WithRedis.
func (b *Builder) WithDurableTier(tier storage.Tier) *Builder {
	b.durable = tier
	return b
}

// WithEphemeralTier sets an explicit ephemeral tier. Defaults to an
// in-process memory tier.
func (b *Builder) WithEphemeralTier(tier storage.Tier) *Builder {
	b.ephemeral = tier
	return b
}

// WithLogger sets the structured logger. Defaults to a discard logger.
func (b *Builder) WithLogger(log logrus.FieldLogger) *Builder {
	b.logger = log
	return b
}

// WithAuditSink enables auditing and routes events to sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, wires the stores, and returns the
// orchestrator.
func (b *Builder) Build() (*Orchestrator, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}
	b.built = true

	if b.backend == nil {
		return nil, ErrBackendRequired
	}
	if b.durable == nil && b.redis == nil {
		return nil, ErrDurableTierRequired
	}
	if err := b.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg := cloneConfig(b.config)

	log := b.logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(nopWriter{})
		log = l
	}

	durable := b.durable
	if durable == nil {
		durable = storage.NewRedisTier(b.redis, cfg.Storage.KeyPrefix)
	}
	ephemeral := b.ephemeral
	if ephemeral == nil {
		ephemeral = storage.NewMemoryTier()
	}

	limiter := rate.NewLimiter(map[string]rate.Policy{
		rate.ActionLogin:         ratePolicy(cfg.RateLimit.Login),
		rate.ActionSecondFactor:  ratePolicy(cfg.RateLimit.SecondFactor),
		rate.ActionPasswordReset: ratePolicy(cfg.RateLimit.PasswordReset),
	})

	dispatcher := internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	return newOrchestrator(orchestratorDeps{
		config:     cfg,
		backend:    b.backend,
		durable:    durable,
		ephemeral:  ephemeral,
		sessions:   session.NewStore(),
		tokens:     token.NewManager(durable, ephemeral, log),
		workspaces: workspace.NewStore(durable, log),
		limiter:    limiter,
		audit:      dispatcher,
		metrics:    NewMetrics(cfg.Metrics),
		log:        log,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}), nil
}

func ratePolicy(p AttemptPolicy) rate.Policy {
	return rate.Policy{MaxAttempts: p.MaxAttempts, Window: p.Window, Cooldown: p.Cooldown}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
