package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/academic-support/internal/domain"
	apperrors "github.com/spec-kit/academic-support/pkg/util/errorutil"
)

func newIntakeService(repo *fakeTicketRepo, blobs *fakeBlobStore) *IntakeService {
	svc := NewIntakeService(IntakeDependencies{
		TicketRepo: repo,
		BlobStore:  blobs,
		Logger:     zap.NewNop(),
	})
	svc.now = func() time.Time {
		return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	}
	return svc
}

func intakeDraft(category domain.TicketCategory) domain.TicketDraft {
	return domain.TicketDraft{
		FirstName:   "Ana",
		LastName:    "Garcia",
		Email:       "ana@uni.edu",
		Phone:       "+51 999 999 999",
		StudentCode: "2021001234",
		Subject:     "Please review my submission",
		Category:    category,
	}
}

func TestSubmitGeneralInquiryCreatesPendingTicketWithoutAttachments(t *testing.T) {
	repo := &fakeTicketRepo{}
	svc := newIntakeService(repo, newFakeBlobStore())

	ticket, fieldErrs, err := svc.Submit(context.Background(), intakeDraft(domain.CategoryGeneralInquiry), nil)
	require.NoError(t, err)
	require.Empty(t, fieldErrs)
	require.NotNil(t, ticket)

	assert.Equal(t, "generated-id", ticket.ID)
	assert.Equal(t, domain.TicketStatusPending, ticket.Status)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), ticket.CreatedAt)
	assert.Nil(t, ticket.Attachments.ApprovalRecord)
	assert.Nil(t, ticket.Attachments.ProfileFile)
	require.Len(t, repo.created, 1)
}

func TestSubmitThesisDraftWithOnlyProfileFile(t *testing.T) {
	repo := &fakeTicketRepo{}
	blobs := newFakeBlobStore()
	svc := newIntakeService(repo, blobs)

	files := []SubmissionFile{{
		Slot:    domain.SlotProfileFile,
		Name:    "perfil.pdf",
		Content: strings.NewReader("pdf-bytes"),
	}}
	ticket, fieldErrs, err := svc.Submit(context.Background(), intakeDraft(domain.CategoryThesisDraft), files)
	require.NoError(t, err)
	require.Empty(t, fieldErrs)

	require.NotNil(t, ticket.Attachments.ProfileFile)
	assert.Contains(t, *ticket.Attachments.ProfileFile, "perfil.pdf")
	assert.Nil(t, ticket.Attachments.ApprovalRecord)
	assert.Nil(t, ticket.Attachments.UncorrectedDraft)
	assert.Len(t, blobs.uploads, 1)
}

func TestSubmitUploadKeyIsTimestampPrefixed(t *testing.T) {
	blobs := newFakeBlobStore()
	svc := newIntakeService(&fakeTicketRepo{}, blobs)

	files := []SubmissionFile{{
		Slot:    domain.SlotApprovalRecord,
		Name:    "acta.pdf",
		Content: strings.NewReader("x"),
	}}
	_, _, err := svc.Submit(context.Background(), intakeDraft(domain.CategoryThesisDraft), files)
	require.NoError(t, err)

	require.Len(t, blobs.uploads, 1)
	for key := range blobs.uploads {
		assert.True(t, strings.HasPrefix(key, "support/"), "key %q", key)
		assert.True(t, strings.HasSuffix(key, "_acta.pdf"), "key %q", key)
	}
}

func TestSubmitValidationFailureDoesNotTouchStores(t *testing.T) {
	repo := &fakeTicketRepo{}
	blobs := newFakeBlobStore()
	svc := newIntakeService(repo, blobs)

	draft := intakeDraft(domain.CategoryThesisDraft) // no attachment selected
	ticket, fieldErrs, err := svc.Submit(context.Background(), draft, nil)
	require.NoError(t, err)
	assert.Nil(t, ticket)
	assert.Contains(t, fieldErrs, domain.FieldDocuments)
	assert.Empty(t, repo.created)
	assert.Empty(t, blobs.uploads)
}

func TestSubmitIgnoresFilesIrrelevantToCategory(t *testing.T) {
	repo := &fakeTicketRepo{}
	blobs := newFakeBlobStore()
	svc := newIntakeService(repo, blobs)

	// A stray file on a general inquiry is neither uploaded nor referenced.
	files := []SubmissionFile{{
		Slot:    domain.SlotCorrectedDraft,
		Name:    "stray.pdf",
		Content: strings.NewReader("x"),
	}}
	ticket, fieldErrs, err := svc.Submit(context.Background(), intakeDraft(domain.CategoryGeneralInquiry), files)
	require.NoError(t, err)
	require.Empty(t, fieldErrs)
	assert.Empty(t, blobs.uploads)
	assert.Nil(t, ticket.Attachments.CorrectedDraft)
}

func TestSubmitUploadFailureAbortsWithoutCreating(t *testing.T) {
	repo := &fakeTicketRepo{}
	blobs := newFakeBlobStore()
	blobs.failOnKey = "acta.pdf"
	svc := newIntakeService(repo, blobs)

	files := []SubmissionFile{{
		Slot:    domain.SlotApprovalRecord,
		Name:    "acta.pdf",
		Content: strings.NewReader("x"),
	}}
	ticket, fieldErrs, err := svc.Submit(context.Background(), intakeDraft(domain.CategoryThesisDraft), files)
	require.Error(t, err)
	assert.Nil(t, ticket)
	assert.Empty(t, fieldErrs)
	assert.Empty(t, repo.created)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "STORE_ERROR", domainErr.Code)
}

func TestSubmitPartialUploadsAreNotRolledBack(t *testing.T) {
	repo := &fakeTicketRepo{}
	blobs := newFakeBlobStore()
	blobs.failOnKey = "corregido.pdf"
	svc := newIntakeService(repo, blobs)

	files := []SubmissionFile{
		{Slot: domain.SlotUncorrectedDraft, Name: "original.pdf", Content: strings.NewReader("a")},
		{Slot: domain.SlotCorrectedDraft, Name: "corregido.pdf", Content: strings.NewReader("b")},
	}
	_, _, err := svc.Submit(context.Background(), intakeDraft(domain.CategoryDefenseProcess), files)
	require.Error(t, err)

	// The first upload stays in the blob store; only the document is absent.
	assert.Len(t, blobs.uploads, 1)
	assert.Empty(t, repo.created)
}

func TestSubmitCreateFailureReturnsGenericStoreError(t *testing.T) {
	repo := &fakeTicketRepo{createErr: errors.New("document store down")}
	svc := newIntakeService(repo, newFakeBlobStore())

	ticket, _, err := svc.Submit(context.Background(), intakeDraft(domain.CategoryGeneralInquiry), nil)
	require.Error(t, err)
	assert.Nil(t, ticket)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "STORE_ERROR", domainErr.Code)
}

func TestSubmitRejectsConcurrentSubmissionForSameStudent(t *testing.T) {
	svc := newIntakeService(&fakeTicketRepo{}, newFakeBlobStore())

	require.True(t, svc.acquire("2021001234"))
	defer svc.release("2021001234")

	_, fieldErrs, err := svc.Submit(context.Background(), intakeDraft(domain.CategoryGeneralInquiry), nil)
	require.Error(t, err)
	assert.Empty(t, fieldErrs)

	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONFLICT", domainErr.Code)
}
