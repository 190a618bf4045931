package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aranyat/reviews-api/pkg/config"
	apperrors "github.com/aranyat/reviews-api/pkg/errors"
	"github.com/aranyat/reviews-api/pkg/models"
)

// MetafieldStore is the remote key/value storage the collection lives in.
type MetafieldStore interface {
	FindMetafields(ctx context.Context, ownerID int64, namespace, key string) ([]models.Metafield, error)
	CreateMetafield(ctx context.Context, input models.MetafieldInput) (*models.Metafield, error)
	UpdateMetafield(ctx context.Context, id int64, input models.MetafieldInput) (*models.Metafield, error)
}

// Locker serializes writers for one key. Acquire returns apperrors.ErrLockBusy
// when another holder has it.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// Archiver keeps a copy of every accepted submission.
type Archiver interface {
	Record(ctx context.Context, entry *models.ArchiveEntry) error
}

// Result is what a successful submission produced.
type Result struct {
	Review         *models.Review
	Kind           models.WriteKind
	MetafieldID    int64
	CollectionSize int
}

// Service runs the read-modify-write of a product's review collection.
//
// In the default write mode nothing guards the sequence: two submissions for
// the same product that overlap both read the same collection and the later
// write drops the earlier review. WriteModeLock and WriteModeConditional
// exist to close or narrow that window.
type Service struct {
	store    MetafieldStore
	cfg      config.ReviewsConfig
	locker   Locker
	archiver Archiver
	now      func() time.Time

	pending sync.WaitGroup
}

type Option func(*Service)

func WithLocker(l Locker) Option {
	return func(s *Service) { s.locker = l }
}

func WithArchiver(a Archiver) Option {
	return func(s *Service) { s.archiver = a }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store MetafieldStore, cfg *config.ReviewsConfig, opts ...Option) *Service {
	s := &Service{
		store: store,
		cfg:   *cfg,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit builds the review for sub and prepends it to the product's stored
// collection with one read and one write.
func (s *Service) Submit(ctx context.Context, sub *models.Submission, requestID string) (*Result, error) {
	ownerID, err := s.ownerID(sub.ProductID)
	if err != nil {
		return nil, err
	}

	review := models.NewReview(sub, s.verified(sub), s.now())
	entry, err := json.Marshal(review)
	if err != nil {
		return nil, apperrors.NewInternalError("encode review", err)
	}

	if s.cfg.WriteMode == config.WriteModeLock {
		release, err := s.lock(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				log.Warn().Err(err).Int64("product_id", ownerID).Msg("Failed to release product lock")
			}
		}()
	}

	existing, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	collection := Prepend(s.decode(ownerID, existing), entry)
	value, err := EncodeCollection(collection)
	if err != nil {
		return nil, err
	}

	if s.cfg.WriteMode == config.WriteModeConditional {
		if err := s.checkUnchanged(ctx, ownerID, existing); err != nil {
			return nil, err
		}
	}

	result := &Result{Review: review, CollectionSize: len(collection)}
	input := models.MetafieldInput{Type: models.MetafieldTypeJSON, Value: value}

	if existing.HasID() {
		result.Kind = models.WriteUpdate
		result.MetafieldID = existing.ID
		if _, err := s.store.UpdateMetafield(ctx, existing.ID, input); err != nil {
			return nil, apperrors.NewRemoteAPIError("metafield update failed", err)
		}
	} else {
		result.Kind = models.WriteCreate
		input.Namespace = s.cfg.Namespace
		input.Key = s.cfg.Key
		input.OwnerResource = models.OwnerResourceProduct
		input.OwnerID = ownerID
		created, err := s.store.CreateMetafield(ctx, input)
		if err != nil {
			return nil, apperrors.NewRemoteAPIError("metafield create failed", err)
		}
		result.MetafieldID = created.ID
	}

	log.Info().
		Str("request_id", requestID).
		Int64("product_id", ownerID).
		Str("write", string(result.Kind)).
		Int("collection_size", result.CollectionSize).
		Msg("Review stored")

	s.archive(ctx, ownerID, requestID, result)
	return result, nil
}

// List returns the stored collection of a product, newest first.
func (s *Service) List(ctx context.Context, productID models.ProductID) ([]json.RawMessage, error) {
	ownerID, err := s.ownerID(productID)
	if err != nil {
		return nil, err
	}
	existing, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.decode(ownerID, existing), nil
}

func (s *Service) ownerID(productID models.ProductID) (int64, error) {
	if productID.IsBlank() {
		if s.cfg.RequireProductID {
			return 0, apperrors.NewClientInputError("productId required")
		}
		return 0, apperrors.NewInternalError("submission has no productId", nil)
	}
	id, err := productID.Int64()
	if err != nil {
		return 0, apperrors.NewClientInputError("productId must be numeric")
	}
	return id, nil
}

func (s *Service) verified(sub *models.Submission) bool {
	switch s.cfg.VerifiedPolicy {
	case config.VerifiedAlways:
		return true
	case config.VerifiedCaller:
		return sub.VerifiedLiteral()
	default:
		return sub.VerifiedTruthy()
	}
}

// load returns the canonical metafield for the product, or nil when none exists.
func (s *Service) load(ctx context.Context, ownerID int64) (*models.Metafield, error) {
	found, err := s.store.FindMetafields(ctx, ownerID, s.cfg.Namespace, s.cfg.Key)
	if err != nil {
		return nil, apperrors.NewRemoteAPIError("metafield lookup failed", err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	if len(found) > 1 {
		ids := make([]int64, 0, len(found))
		for _, mf := range found {
			ids = append(ids, mf.ID)
		}
		log.Warn().
			Int64("product_id", ownerID).
			Ints64("metafield_ids", ids).
			Str("policy", string(s.cfg.MultiMatch)).
			Msg("Multiple review metafields matched")
		if s.cfg.MultiMatch == config.MultiMatchError {
			return nil, apperrors.NewIntegrityError(fmt.Sprintf("%d review metafields for product %d", len(found), ownerID))
		}
	}
	return &found[0], nil
}

// decode never fails: a value that cannot be read as a collection is logged
// and treated as empty, and is overwritten by the next write.
func (s *Service) decode(ownerID int64, mf *models.Metafield) []json.RawMessage {
	if mf == nil {
		return nil
	}
	collection, err := DecodeCollection(mf.Value)
	if err != nil {
		log.Error().Err(err).
			Int64("product_id", ownerID).
			Int64("metafield_id", mf.ID).
			Msg("JSON parse error (old metafield value)")
		return nil
	}
	return collection
}

func (s *Service) lock(ctx context.Context, ownerID int64) (func(context.Context) error, error) {
	if s.locker == nil {
		return nil, apperrors.NewInternalError("lock write mode without a locker", nil)
	}
	release, err := s.locker.Acquire(ctx, lockKey(ownerID))
	if errors.Is(err, apperrors.ErrLockBusy) {
		return nil, apperrors.NewConflictError("review collection changed, retry", err)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("acquire product lock", err)
	}
	return release, nil
}

// checkUnchanged re-reads the metafield and compares it with the copy the
// merge was based on. The platform has no conditional write, so this narrows
// the race window without closing it.
func (s *Service) checkUnchanged(ctx context.Context, ownerID int64, before *models.Metafield) error {
	current, err := s.load(ctx, ownerID)
	if err != nil {
		return err
	}
	if current.Version() != before.Version() {
		return apperrors.NewConflictError("review collection changed, retry",
			fmt.Errorf("metafield moved from %q to %q", before.Version(), current.Version()))
	}
	return nil
}

// Wait blocks until archive writes started by Submit have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// archive records the submission in the background. The response does not
// wait for it and a failure is only logged.
func (s *Service) archive(ctx context.Context, ownerID int64, requestID string, result *Result) {
	if s.archiver == nil {
		return
	}
	entry := &models.ArchiveEntry{
		ProductID:      ownerID,
		MetafieldID:    result.MetafieldID,
		Review:         result.Review,
		RequestID:      requestID,
		Kind:           result.Kind,
		CollectionSize: result.CollectionSize,
		AcceptedAt:     s.now().UTC(),
	}
	ctx = context.WithoutCancel(ctx)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.archiver.Record(ctx, entry); err != nil {
			log.Warn().Err(err).Str("request_id", requestID).Int64("product_id", ownerID).Msg("Failed to archive review")
		}
	}()
}

func lockKey(ownerID int64) string {
	return fmt.Sprintf("reviews:lock:product:%d", ownerID)
}
