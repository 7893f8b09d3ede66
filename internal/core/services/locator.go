package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/certiblock/verifier-node/internal/core/domain"
	"github.com/certiblock/verifier-node/internal/core/ports"
	"github.com/certiblock/verifier-node/internal/log"
	"github.com/certiblock/verifier-node/internal/repositories"
	"github.com/certiblock/verifier-node/internal/textmatch"
)

const (
	nameWeight        = 0.55
	institutionWeight = 0.35
	programWeight     = 0.10

	// candidates scoring below this are noise, not evidence
	minConfidence = 0.35
)

// EvidenceLocator resolves an access code or an uploaded file into candidate
// credential records. All field shapes coming from OCR/AI extraction are
// normalized here, before anything downstream sees them.
type EvidenceLocator struct {
	codes       ports.AccessCodeRepository
	credentials ports.CredentialRepository
	ocr         ports.OCRGateway
	vision      ports.VisionGateway
	directory   ports.DirectoryGateway
	searchMax   int
}

// NewEvidenceLocator creates a new instance of EvidenceLocator
func NewEvidenceLocator(codes ports.AccessCodeRepository, credentials ports.CredentialRepository, ocr ports.OCRGateway, vision ports.VisionGateway, directory ports.DirectoryGateway, searchMax int) *EvidenceLocator {
	return &EvidenceLocator{
		codes:       codes,
		credentials: credentials,
		ocr:         ocr,
		vision:      vision,
		directory:   directory,
		searchMax:   searchMax,
	}
}

// ResolveByCode dereferences a shareable access code into its credential
// records. Unknown and inactive codes are indistinguishable to the caller.
func (s *EvidenceLocator) ResolveByCode(ctx context.Context, code string) ([]domain.CredentialRecord, error) {
	accessCode, err := s.codes.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, repositories.AccessCodeNotFoundError) {
			return nil, ErrCredentialNotFound
		}
		return nil, fmt.Errorf("resolving access code: %w", err)
	}
	if !accessCode.Active {
		return nil, ErrCredentialNotFound
	}

	records, err := s.credentials.GetByIDs(ctx, accessCode.CredentialIDs)
	if err != nil {
		return nil, fmt.Errorf("loading credentials for code: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrCredentialNotFound
	}
	return records, nil
}

// ResolveByFile extracts the credential fields from an uploaded document and
// fuzzy-matches them against the subject directory. The OCR and AI stages run
// for tens of seconds, so progress is reported between them.
func (s *EvidenceLocator) ResolveByFile(ctx context.Context, document []byte, mimeType string, report domain.ProgressFunc) ([]domain.RankedCandidate, error) {
	report(domain.ProgressUpdate{Stage: domain.StageLocating, Percent: 10, Message: "running text recognition"})
	text, err := s.ocr.ExtractText(ctx, document, mimeType)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// field extraction can still work on the image alone
		log.Warn(ctx, "ocr extraction failed, continuing without text", "err", err)
		text = ""
	}

	report(domain.ProgressUpdate{Stage: domain.StageLocating, Percent: 40, Message: "extracting credential fields"})
	fields, err := s.vision.ExtractFields(ctx, document)
	if err != nil {
		return nil, fmt.Errorf("extracting credential fields: %w", err)
	}
	fields = normalizeFields(fields)

	report(domain.ProgressUpdate{Stage: domain.StageLocating, Percent: 70, Message: "searching credential directory"})
	hits, err := s.directory.SearchSubjects(ctx, fields, s.searchMax)
	if err != nil {
		return nil, fmt.Errorf("directory search: %w", err)
	}

	var candidates []domain.RankedCandidate
	for _, hit := range hits {
		records, err := s.credentials.GetBySubjectID(ctx, hit.SubjectID)
		if err != nil {
			return nil, fmt.Errorf("loading credentials for subject %s: %w", hit.SubjectID, err)
		}
		for i := range records {
			confidence := matchConfidence(fields, hit, text)
			if confidence < minConfidence {
				continue
			}
			candidates = append(candidates, domain.RankedCandidate{
				Record:     records[i],
				Confidence: confidence,
				Extracted:  fields,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	report(domain.ProgressUpdate{Stage: domain.StageLocating, Percent: 90, Message: fmt.Sprintf("found %d candidate(s)", len(candidates))})
	return candidates, nil
}

// matchConfidence scores a directory hit against the extracted fields. The
// recognized text grants a small bonus when it mentions the subject id
// explicitly.
func matchConfidence(fields domain.ExtractedFields, hit domain.DirectorySubject, text string) float64 {
	score := nameWeight*textmatch.Similarity(fields.SubjectName, hit.FullName)/100 +
		institutionWeight*textmatch.Similarity(fields.Institution, hit.Institution)/100
	if fields.Program != "" && hit.Program != "" {
		score += programWeight * textmatch.Similarity(fields.Program, hit.Program) / 100
	}
	if text != "" && hit.SubjectID != "" && strings.Contains(text, hit.SubjectID) {
		score += 0.1
	}
	if score > 1 {
		score = 1
	}
	return score
}

func normalizeFields(f domain.ExtractedFields) domain.ExtractedFields {
	return domain.ExtractedFields{
		SubjectName:    strings.TrimSpace(f.SubjectName),
		Institution:    strings.TrimSpace(f.Institution),
		Program:        strings.TrimSpace(f.Program),
		CredentialType: strings.ToLower(strings.TrimSpace(f.CredentialType)),
	}
}
