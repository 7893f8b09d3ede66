package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/certiblock/verifier-node/internal/core/domain"
	"github.com/certiblock/verifier-node/internal/repositories"
)

// fakeContentStore is safe for the concurrent fetches of the ledger fan-out
type fakeContentStore struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	err      error
	failures int
	calls    int
}

func (f *fakeContentStore) Fetch(_ context.Context, contentID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil && (f.failures == 0 || f.calls <= f.failures) {
		return nil, f.err
	}
	blob, ok := f.blobs[contentID]
	if !ok {
		return nil, repositories.CredentialNotFoundError
	}
	return blob, nil
}

type fakeLedger struct {
	entries   map[int64]*domain.LedgerEntry
	existsErr error
	getErr    error
}

func (f *fakeLedger) EntryExists(_ context.Context, ledgerID int64) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.entries[ledgerID]
	return ok, nil
}

func (f *fakeLedger) GetEntry(_ context.Context, ledgerID int64) (*domain.LedgerEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[ledgerID], nil
}

type fakeDirectory struct {
	identities  map[string][]string
	identityErr error
	subjects    []domain.DirectorySubject
	searchErr   error
}

func (f *fakeDirectory) IdentitySet(_ context.Context, institution string) ([]string, error) {
	if f.identityErr != nil {
		return nil, f.identityErr
	}
	return f.identities[institution], nil
}

func (f *fakeDirectory) SearchSubjects(_ context.Context, _ domain.ExtractedFields, _ int) ([]domain.DirectorySubject, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.subjects, nil
}

type fakeOCR struct {
	texts map[string]string
	errs  map[string]error
}

func (f *fakeOCR) ExtractText(_ context.Context, document []byte, _ string) (string, error) {
	if err, ok := f.errs[string(document)]; ok {
		return "", err
	}
	return f.texts[string(document)], nil
}

type fakeVision struct {
	types       map[string]string
	classifyErr error
	fields      domain.ExtractedFields
	fieldsErr   error
	visual      *domain.VisualAnalysis
	visualErrs  []error
	visualCalls int
}

func (f *fakeVision) ClassifyType(_ context.Context, document []byte) (string, error) {
	if f.classifyErr != nil {
		return "", f.classifyErr
	}
	return f.types[string(document)], nil
}

func (f *fakeVision) ExtractFields(_ context.Context, _ []byte) (domain.ExtractedFields, error) {
	return f.fields, f.fieldsErr
}

func (f *fakeVision) CompareVisual(_ context.Context, _, _ []byte, _ string) (*domain.VisualAnalysis, error) {
	call := f.visualCalls
	f.visualCalls++
	if call < len(f.visualErrs) && f.visualErrs[call] != nil {
		return nil, f.visualErrs[call]
	}
	return f.visual, nil
}

type fakeCredentials struct {
	records map[uuid.UUID]domain.CredentialRecord
	err     error
}

func (f *fakeCredentials) Save(_ context.Context, record *domain.CredentialRecord) (uuid.UUID, error) {
	f.records[record.ID] = *record
	return record.ID, nil
}

func (f *fakeCredentials) GetByID(_ context.Context, id uuid.UUID) (*domain.CredentialRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, repositories.CredentialNotFoundError
	}
	return &record, nil
}

func (f *fakeCredentials) GetByIDs(_ context.Context, ids []uuid.UUID) ([]domain.CredentialRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var records []domain.CredentialRecord
	for _, id := range ids {
		if record, ok := f.records[id]; ok {
			records = append(records, record)
		}
	}
	return records, nil
}

func (f *fakeCredentials) GetBySubjectID(_ context.Context, subjectID string) ([]domain.CredentialRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var records []domain.CredentialRecord
	for _, record := range f.records {
		if record.SubjectID == subjectID {
			records = append(records, record)
		}
	}
	return records, nil
}

type fakeAccessCodes struct {
	codes map[string]domain.AccessCode
}

func (f *fakeAccessCodes) Save(_ context.Context, code *domain.AccessCode) error {
	f.codes[code.Code] = *code
	return nil
}

func (f *fakeAccessCodes) GetByCode(_ context.Context, code string) (*domain.AccessCode, error) {
	accessCode, ok := f.codes[code]
	if !ok {
		return nil, repositories.AccessCodeNotFoundError
	}
	return &accessCode, nil
}

func (f *fakeAccessCodes) Deactivate(_ context.Context, _, code string) error {
	accessCode, ok := f.codes[code]
	if !ok {
		return repositories.AccessCodeNotFoundError
	}
	accessCode.Active = false
	f.codes[code] = accessCode
	return nil
}

func (f *fakeAccessCodes) Delete(_ context.Context, _, code string) error {
	if _, ok := f.codes[code]; !ok {
		return repositories.AccessCodeNotFoundError
	}
	delete(f.codes, code)
	return nil
}
