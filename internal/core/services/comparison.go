package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/certiblock/verifier-node/internal/core/domain"
	"github.com/certiblock/verifier-node/internal/core/ports"
	"github.com/certiblock/verifier-node/internal/gateways"
	"github.com/certiblock/verifier-node/internal/log"
	"github.com/certiblock/verifier-node/internal/textmatch"
)

const (
	// text similarity above which two documents read as the same document
	identicalSimilarity = 99.5
	// text similarity below which the candidate is suspicious on its own
	suspiciousSimilarity = 70
)

// ComparisonEngine compares a verified original document against a candidate
// file through OCR text diff and AI visual analysis, producing a tamper
// report. Results are ephemeral, never persisted.
type ComparisonEngine struct {
	ocr    ports.OCRGateway
	vision ports.VisionGateway
}

// NewComparisonEngine creates a new instance of ComparisonEngine
func NewComparisonEngine(ocr ports.OCRGateway, vision ports.VisionGateway) *ComparisonEngine {
	return &ComparisonEngine{ocr: ocr, vision: vision}
}

// Compare runs the four comparison stages. Every stage is independently
// fallible: a type mismatch short-circuits, a one-sided OCR failure degrades
// to partial mode and an unavailable vision backend degrades to OCR-only mode
// with an explicit flag. The status ladder is monotonic: once flagged, a
// comparison is never upgraded by a later positive signal.
func (e *ComparisonEngine) Compare(ctx context.Context, original, candidate []byte, hintType string, report domain.ProgressFunc) (*domain.ComparisonResult, error) {
	result := &domain.ComparisonResult{}

	report(domain.ProgressUpdate{Stage: domain.StageComparing, Percent: 10, Message: "classifying documents"})
	visionUp := e.typeGate(ctx, original, candidate, result)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if result.TypeMismatch {
		// a definitive category mismatch makes similarity scoring meaningless
		result.Status = domain.StatusMismatch
		return result, nil
	}

	report(domain.ProgressUpdate{Stage: domain.StageComparing, Percent: 35, Message: "extracting document text"})
	originalText, candidateText, err := e.extractTexts(ctx, original, candidate, result)
	if err != nil {
		return nil, err
	}

	if !result.PartialText {
		result.TextSimilarity = textmatch.Similarity(originalText, candidateText)
		result.AddedTokens, result.RemovedTokens = textmatch.Diff(originalText, candidateText)
		result.ModifiedPct = textmatch.ModifiedPct(originalText, candidateText)
	}

	if visionUp {
		report(domain.ProgressUpdate{Stage: domain.StageComparing, Percent: 70, Message: "running visual tamper analysis"})
		if err := e.visualCompare(ctx, original, candidate, hintType, result); err != nil {
			return nil, err
		}
	} else {
		e.degradeToOCROnly(result, "credential type check unavailable")
	}

	result.Status = deriveStatus(bytes.Equal(original, candidate), result)
	report(domain.ProgressUpdate{Stage: domain.StageComparing, Percent: 100, Message: "comparison complete"})
	return result, nil
}

// typeGate classifies both documents and flags a mismatch. Returns false when
// the vision backend is unavailable, which downgrades the whole run to
// OCR-only mode.
func (e *ComparisonEngine) typeGate(ctx context.Context, original, candidate []byte, result *domain.ComparisonResult) bool {
	originalType, err := e.vision.ClassifyType(ctx, original)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn(ctx, "classification of original failed", "err", err)
		}
		return false
	}
	candidateType, err := e.vision.ClassifyType(ctx, candidate)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn(ctx, "classification of candidate failed", "err", err)
		}
		return false
	}

	result.OriginalType = strings.ToLower(strings.TrimSpace(originalType))
	result.CandidateType = strings.ToLower(strings.TrimSpace(candidateType))
	result.TypeMismatch = result.OriginalType != "" && result.CandidateType != "" && result.OriginalType != result.CandidateType
	return true
}

// extractTexts runs OCR on both sides. Failure on one side degrades to
// partial mode instead of aborting; failure on both sides leaves the text
// stages empty with a warning.
func (e *ComparisonEngine) extractTexts(ctx context.Context, original, candidate []byte, result *domain.ComparisonResult) (string, string, error) {
	originalText, errOriginal := e.ocr.ExtractText(ctx, original, "")
	if ctx.Err() != nil {
		return "", "", ctx.Err()
	}
	candidateText, errCandidate := e.ocr.ExtractText(ctx, candidate, "")
	if ctx.Err() != nil {
		return "", "", ctx.Err()
	}

	if errOriginal != nil || errCandidate != nil {
		result.PartialText = true
		result.Warnings = append(result.Warnings, "text extraction incomplete, similarity not computed")
		log.Warn(ctx, "ocr degraded to partial mode", "originalErr", errOriginal, "candidateErr", errCandidate)
	}
	return originalText, candidateText, nil
}

// visualCompare calls the AI comparison with one retry on transient errors.
// Quota and persistent failures degrade to OCR-only mode; the result never
// claims a visual verification that did not happen.
func (e *ComparisonEngine) visualCompare(ctx context.Context, original, candidate []byte, hintType string, result *domain.ComparisonResult) error {
	visual, err := e.vision.CompareVisual(ctx, original, candidate, hintType)
	if errors.Is(err, gateways.ErrTransient) && ctx.Err() == nil {
		log.Warn(ctx, "visual comparison transient failure, retrying", "err", err)
		visual, err = e.vision.CompareVisual(ctx, original, candidate, hintType)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		reason := "visual analysis failed"
		if errors.Is(err, gateways.ErrQuotaExceeded) {
			reason = "visual analysis quota exceeded"
		}
		log.Warn(ctx, "degrading to ocr-only comparison", "err", err)
		e.degradeToOCROnly(result, reason)
		return nil
	}

	result.Visual = visual
	return nil
}

func (e *ComparisonEngine) degradeToOCROnly(result *domain.ComparisonResult, reason string) {
	result.OCROnly = true
	result.Warnings = append(result.Warnings, fmt.Sprintf("degraded to ocr-only comparison: %s", reason))
}

// deriveStatus walks the ladder identical > authentic > suspicious >
// tampered, only ever worsening.
func deriveStatus(byteIdentical bool, result *domain.ComparisonResult) domain.ComparisonStatus {
	status := domain.StatusAuthentic
	if byteIdentical || (result.Visual != nil && result.Visual.ExactSameDocument && result.TextSimilarity >= identicalSimilarity) {
		status = domain.StatusIdentical
	}

	if !byteIdentical {
		if result.PartialText || result.TextSimilarity < suspiciousSimilarity {
			status = status.Worse(domain.StatusSuspicious)
		}
		if result.Visual != nil && (result.Visual.TamperingDetected || result.Visual.TamperSeverity.AtLeast(domain.SeverityModerate)) {
			status = status.Worse(domain.StatusTampered)
		}
	}
	return status
}
