package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dvespero/authkit/storage"
)

// Storage keys, relative to the tier's namespace.
const (
	contextKey = "workspace"
	lastIDsKey = "workspace_last"
)

// ErrPartialContext is returned by [Store.Save] for contexts missing an id.
var ErrPartialContext = errors.New("workspace context must be fully populated")

type lastIDs struct {
	CompanyID       string `json:"companyId"`
	EstablishmentID string `json:"establishmentId"`
}

// Store persists the selected workspace context on the durable tier.
// Read failures degrade to "no context"; write failures are logged and
// swallowed so a storage outage never blocks authentication.
type Store struct {
	durable storage.Tier
	log     logrus.FieldLogger
}

// NewStore creates a workspace store over the durable tier.
func NewStore(durable storage.Tier, log logrus.FieldLogger) *Store {
	if log == nil {
		log = discardLogger()
	}
	return &Store{durable: durable, log: log}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(nopWriter{})
	return l
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// Save persists ctx and updates the last-used id pair. Partial contexts
// are rejected before touching storage.
func (s *Store) Save(ctx context.Context, wc Context) error {
	if !wc.Valid() {
		return fmt.Errorf("%w: company=%q establishment=%q", ErrPartialContext, wc.CompanyID, wc.EstablishmentID)
	}

	data, err := json.Marshal(wc)
	if err != nil {
		return err
	}
	if err := s.durable.Set(ctx, contextKey, string(data)); err != nil {
		s.log.WithError(err).Warn("workspace: context persist failed")
	}

	ids, err := json.Marshal(lastIDs{CompanyID: wc.CompanyID, EstablishmentID: wc.EstablishmentID})
	if err != nil {
		return err
	}
	if err := s.durable.Set(ctx, lastIDsKey, string(ids)); err != nil {
		s.log.WithError(err).Warn("workspace: last-ids persist failed")
	}
	return nil
}

// Get returns the persisted context, or false when none is stored or the
// stored value is unusable.
func (s *Store) Get(ctx context.Context) (*Context, bool) {
	raw, err := s.durable.Get(ctx, contextKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.WithError(err).Warn("workspace: context read failed")
		}
		return nil, false
	}

	var wc Context
	if err := json.Unmarshal([]byte(raw), &wc); err != nil {
		s.log.WithError(err).Warn("workspace: stored context corrupt, discarding")
		_ = s.durable.Delete(ctx, contextKey)
		return nil, false
	}
	if !wc.Valid() {
		return nil, false
	}
	return &wc, true
}

// Has reports whether a usable context is persisted.
func (s *Store) Has(ctx context.Context) bool {
	_, ok := s.Get(ctx)
	return ok
}

// LastContextIDs returns the most recently used company/establishment id
// pair, for defaulting UI even without a full context object. Empty
// strings mean "never selected".
func (s *Store) LastContextIDs(ctx context.Context) (companyID, establishmentID string) {
	raw, err := s.durable.Get(ctx, lastIDsKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.WithError(err).Warn("workspace: last-ids read failed")
		}
		return "", ""
	}

	var ids lastIDs
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return "", ""
	}
	return ids.CompanyID, ids.EstablishmentID
}

// Clear removes the context and the last-used id pair. Called on logout.
func (s *Store) Clear(ctx context.Context) {
	if err := s.durable.Delete(ctx, contextKey, lastIDsKey); err != nil {
		s.log.WithError(err).Warn("workspace: clear failed")
	}
}
