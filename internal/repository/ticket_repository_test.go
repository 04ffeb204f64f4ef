package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/academic-support/internal/domain"
	"github.com/spec-kit/academic-support/internal/store"
)

type fakeDocumentStore struct {
	collection string
	docs       []store.Document
	partials   map[string]map[string]any
	createErr  error
	updateErr  error
}

func (f *fakeDocumentStore) Create(_ context.Context, collection string, record any) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.collection = collection
	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	id := "doc-1"
	f.docs = append(f.docs, store.Document{ID: id, Data: data})
	return id, nil
}

func (f *fakeDocumentStore) QueryAll(_ context.Context, collection, _ string, _ bool) ([]store.Document, error) {
	f.collection = collection
	return f.docs, nil
}

func (f *fakeDocumentStore) UpdateFields(_ context.Context, collection, id string, partial map[string]any) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.collection = collection
	if f.partials == nil {
		f.partials = make(map[string]map[string]any)
	}
	f.partials[id] = partial
	return nil
}

func TestCreateAssignsStoreIdentity(t *testing.T) {
	docs := &fakeDocumentStore{}
	repo := NewTicketRepository(docs)

	profile := "http://files.test/support/1_perfil.pdf"
	ticket := &domain.Ticket{
		FirstName:   "Ana",
		LastName:    "Garcia",
		Email:       "ana@uni.edu",
		Phone:       "+51 999 999 999",
		StudentCode: "2021001234",
		Subject:     "Thesis review",
		Category:    domain.CategoryThesisDraft,
		Status:      domain.TicketStatusPending,
		CreatedAt:   time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
		Attachments: domain.AttachmentRefs{ProfileFile: &profile},
	}
	require.NoError(t, repo.Create(context.Background(), ticket))
	assert.Equal(t, "doc-1", ticket.ID)
	assert.Equal(t, TicketCollection, docs.collection)
}

func TestCreateThenListRoundTrip(t *testing.T) {
	docs := &fakeDocumentStore{}
	repo := NewTicketRepository(docs)

	profile := "http://files.test/support/1_perfil.pdf"
	original := &domain.Ticket{
		FirstName:   "Ana",
		LastName:    "Garcia",
		Email:       "ana@uni.edu",
		Phone:       "+51 999 999 999",
		StudentCode: "2021001234",
		Subject:     "Thesis review",
		Category:    domain.CategoryThesisDraft,
		Status:      domain.TicketStatusPending,
		CreatedAt:   time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
		Attachments: domain.AttachmentRefs{ProfileFile: &profile},
	}
	require.NoError(t, repo.Create(context.Background(), original))

	tickets, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, tickets, 1)

	got := tickets[0]
	assert.Equal(t, "doc-1", got.ID)
	assert.Equal(t, original.StudentCode, got.StudentCode)
	assert.Equal(t, original.Category, got.Category)
	assert.True(t, got.CreatedAt.Equal(original.CreatedAt))
	require.NotNil(t, got.Attachments.ProfileFile)
	assert.Equal(t, profile, *got.Attachments.ProfileFile)
	assert.Nil(t, got.Attachments.ApprovalRecord)
}

func TestListDefaultsUnknownEnumValues(t *testing.T) {
	docs := &fakeDocumentStore{docs: []store.Document{{
		ID:   "doc-9",
		Data: []byte(`{"first_name":"X","category":"legacy","status":"weird","created_at":"2025-01-01T00:00:00Z"}`),
	}}}
	repo := NewTicketRepository(docs)

	tickets, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, domain.CategoryGeneralInquiry, tickets[0].Category)
	assert.Equal(t, domain.TicketStatusPending, tickets[0].Status)
}

func TestUpdateStatusTouchesOnlyStatusField(t *testing.T) {
	docs := &fakeDocumentStore{}
	repo := NewTicketRepository(docs)

	require.NoError(t, repo.UpdateStatus(context.Background(), "doc-1", domain.TicketStatusResolved))
	require.Contains(t, docs.partials, "doc-1")
	assert.Equal(t, map[string]any{"status": "resolved"}, docs.partials["doc-1"])
}

func TestUpdateStatusPropagatesStoreFailure(t *testing.T) {
	docs := &fakeDocumentStore{updateErr: errors.New("store down")}
	repo := NewTicketRepository(docs)

	err := repo.UpdateStatus(context.Background(), "doc-1", domain.TicketStatusResolved)
	assert.Error(t, err)
}
