package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spec-kit/academic-support/internal/domain"
	"github.com/spec-kit/academic-support/internal/store"
)

type statusUpdate struct {
	id     string
	status domain.TicketStatus
}

type fakeTicketRepo struct {
	tickets   []domain.Ticket
	created   []*domain.Ticket
	updates   []statusUpdate
	createErr error
	listErr   error
	updateErr error
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if f.createErr != nil {
		return f.createErr
	}
	ticket.ID = "generated-id"
	f.created = append(f.created, ticket)
	return nil
}

func (f *fakeTicketRepo) ListAll(_ context.Context) ([]domain.Ticket, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Ticket, len(f.tickets))
	copy(out, f.tickets)
	return out, nil
}

func (f *fakeTicketRepo) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, statusUpdate{id: id, status: status})
	return nil
}

type fakeBlobStore struct {
	uploads   map[string][]byte
	failOnKey string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: make(map[string][]byte)}
}

func (f *fakeBlobStore) Upload(_ context.Context, key string, content io.Reader) (store.BlobHandle, error) {
	if f.failOnKey != "" && strings.Contains(key, f.failOnKey) {
		return store.BlobHandle{}, errors.New("simulated upload failure")
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return store.BlobHandle{}, err
	}
	f.uploads[key] = data
	return store.BlobHandle{Key: key}, nil
}

func (f *fakeBlobStore) DownloadURL(handle store.BlobHandle) string {
	return "http://files.test/" + handle.Key
}

func (f *fakeBlobStore) Open(key string) (io.ReadCloser, error) {
	data, ok := f.uploads[key]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
