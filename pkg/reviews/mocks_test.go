package reviews

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	apperrors "github.com/aranyat/reviews-api/pkg/errors"
	"github.com/aranyat/reviews-api/pkg/models"
)

// fakeStore keeps metafields in memory and records every call.
type fakeStore struct {
	mu         sync.Mutex
	metafields map[int64][]models.Metafield
	nextID     int64
	version    int

	finds   int
	creates []models.MetafieldInput
	updates []int64

	findErr  error
	writeErr error
	// onFind runs after every lookup; used to simulate a concurrent writer.
	onFind func(call int)
}

func newFakeStore() *fakeStore {
	return &fakeStore{metafields: map[int64][]models.Metafield{}, nextID: 1000}
}

func (f *fakeStore) seed(ownerID int64, value string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	raw, _ := json.Marshal(value)
	f.metafields[ownerID] = append(f.metafields[ownerID], models.Metafield{
		ID:            f.nextID,
		Namespace:     "aranyat",
		Key:           "reviews",
		Type:          models.MetafieldTypeJSON,
		Value:         raw,
		OwnerID:       ownerID,
		OwnerResource: models.OwnerResourceProduct,
		UpdatedAt:     "v0",
	})
	return f.nextID
}

func (f *fakeStore) FindMetafields(ctx context.Context, ownerID int64, namespace, key string) ([]models.Metafield, error) {
	f.mu.Lock()
	f.finds++
	call := f.finds
	var out []models.Metafield
	for _, mf := range f.metafields[ownerID] {
		if mf.Namespace == namespace && mf.Key == key {
			out = append(out, mf)
		}
	}
	hook := f.onFind
	f.mu.Unlock()

	if f.findErr != nil {
		return nil, f.findErr
	}
	if hook != nil {
		hook(call)
	}
	return out, nil
}

func (f *fakeStore) CreateMetafield(ctx context.Context, input models.MetafieldInput) (*models.Metafield, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, input)
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.nextID++
	raw, _ := json.Marshal(input.Value)
	mf := models.Metafield{
		ID:            f.nextID,
		Namespace:     input.Namespace,
		Key:           input.Key,
		Type:          input.Type,
		Value:         raw,
		OwnerID:       input.OwnerID,
		OwnerResource: input.OwnerResource,
		UpdatedAt:     f.bump(),
	}
	f.metafields[input.OwnerID] = append(f.metafields[input.OwnerID], mf)
	return &mf, nil
}

func (f *fakeStore) UpdateMetafield(ctx context.Context, id int64, input models.MetafieldInput) (*models.Metafield, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, id)
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	for owner, list := range f.metafields {
		for i := range list {
			if list[i].ID == id {
				raw, _ := json.Marshal(input.Value)
				list[i].Value = raw
				list[i].UpdatedAt = f.bump()
				f.metafields[owner] = list
				out := list[i]
				return &out, nil
			}
		}
	}
	return nil, &apperrors.AppError{Type: apperrors.ErrorTypeRemoteAPI, Message: "not found"}
}

func (f *fakeStore) bump() string {
	f.version++
	return "v" + strconv.Itoa(f.version)
}

// stored decodes the current collection of the first metafield for ownerID.
func (f *fakeStore) stored(ownerID int64) []map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.metafields[ownerID]
	if len(list) == 0 {
		return nil
	}
	var value string
	if err := json.Unmarshal(list[0].Value, &value); err != nil {
		return nil
	}
	var out []map[string]interface{}
	_ = json.Unmarshal([]byte(value), &out)
	return out
}

type fakeLocker struct {
	busy     bool
	acquired []string
	released []string
}

func (l *fakeLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	if l.busy {
		return nil, apperrors.ErrLockBusy
	}
	l.acquired = append(l.acquired, key)
	return func(context.Context) error {
		l.released = append(l.released, key)
		return nil
	}, nil
}

type fakeArchiver struct {
	mu      sync.Mutex
	entries []*models.ArchiveEntry
	err     error
	block   chan struct{}
}

func (a *fakeArchiver) Record(ctx context.Context, entry *models.ArchiveEntry) error {
	if a.block != nil {
		<-a.block
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return a.err
}

func (a *fakeArchiver) recorded() []*models.ArchiveEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*models.ArchiveEntry(nil), a.entries...)
}
