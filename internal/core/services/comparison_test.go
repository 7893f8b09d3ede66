package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certiblock/verifier-node/internal/core/domain"
	"github.com/certiblock/verifier-node/internal/gateways"
)

func TestComparisonEngineIdenticalDocuments(t *testing.T) {
	ctx := context.Background()
	doc := []byte("diploma pdf bytes")

	vision := &fakeVision{
		types:  map[string]string{string(doc): "diploma"},
		visual: &domain.VisualAnalysis{ExactSameDocument: true, AuthenticityScore: 100, TamperSeverity: domain.SeverityNone},
	}
	ocr := &fakeOCR{texts: map[string]string{string(doc): "jane doe bachelor of science 2021"}}
	engine := NewComparisonEngine(ocr, vision)

	result, err := engine.Compare(ctx, doc, doc, "", domain.NoProgress)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusIdentical, result.Status)
	assert.InDelta(t, 100.0, result.TextSimilarity, 0.001)
	assert.Empty(t, result.AddedTokens)
	assert.Empty(t, result.RemovedTokens)
	assert.False(t, result.OCROnly)
}

func TestComparisonEngineTypeMismatchShortCircuits(t *testing.T) {
	ctx := context.Background()
	original := []byte("a diploma")
	candidate := []byte("a transcript")

	vision := &fakeVision{types: map[string]string{
		string(original):  "diploma",
		string(candidate): "transcript",
	}}
	engine := NewComparisonEngine(&fakeOCR{}, vision)

	result, err := engine.Compare(ctx, original, candidate, "", domain.NoProgress)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusMismatch, result.Status)
	assert.True(t, result.TypeMismatch)
	assert.Equal(t, "diploma", result.OriginalType)
	assert.Equal(t, "transcript", result.CandidateType)
	// no similarity scoring happens after the short circuit
	assert.Zero(t, result.TextSimilarity)
	assert.Nil(t, result.Visual)
}

func TestComparisonEngineSubstitutedField(t *testing.T) {
	ctx := context.Background()
	original := []byte("original bytes")
	candidate := []byte("candidate bytes")

	vision := &fakeVision{
		types: map[string]string{string(original): "diploma", string(candidate): "diploma"},
		visual: &domain.VisualAnalysis{
			AuthenticityScore: 35,
			TamperingDetected: true,
			TamperSeverity:    domain.SeveritySevere,
			Findings: []domain.TamperFinding{{
				Field:         "subjectName",
				OriginalValue: "Jane Doe",
				TamperedValue: "John Roe",
				Method:        "font inconsistency around the name region",
				Severity:      domain.SeveritySevere,
			}},
		},
	}
	ocr := &fakeOCR{texts: map[string]string{
		string(original):  "jane doe bachelor of science 2021",
		string(candidate): "john roe bachelor of science 2021",
	}}
	engine := NewComparisonEngine(ocr, vision)

	result, err := engine.Compare(ctx, original, candidate, "diploma", domain.NoProgress)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusTampered, result.Status)
	assert.Equal(t, []string{"john", "roe"}, result.AddedTokens)
	assert.Equal(t, []string{"doe", "jane"}, result.RemovedTokens)
	require.NotNil(t, result.Visual)
	require.Len(t, result.Visual.Findings, 1)
	assert.Equal(t, "subjectName", result.Visual.Findings[0].Field)
}

func TestComparisonEngineVisionDegradation(t *testing.T) {
	ctx := context.Background()
	original := []byte("original bytes")
	candidate := []byte("candidate bytes")
	sameText := map[string]string{
		string(original):  "jane doe bachelor of science",
		string(candidate): "jane doe bachelor of science",
	}

	type testConfig struct {
		name         string
		vision       *fakeVision
		expectOCd    bool
		expectVisual bool
		expectStatus domain.ComparisonStatus
	}
	for _, tc := range []testConfig{
		{
			name: "quota exceeded degrades to ocr only",
			vision: &fakeVision{
				types:      map[string]string{string(original): "diploma", string(candidate): "diploma"},
				visualErrs: []error{gateways.ErrQuotaExceeded, gateways.ErrQuotaExceeded},
			},
			expectOCd:    true,
			expectStatus: domain.StatusAuthentic,
		},
		{
			name: "transient failure is retried once",
			vision: &fakeVision{
				types:      map[string]string{string(original): "diploma", string(candidate): "diploma"},
				visualErrs: []error{gateways.ErrTransient},
				visual:     &domain.VisualAnalysis{AuthenticityScore: 95, TamperSeverity: domain.SeverityNone},
			},
			expectVisual: true,
			expectStatus: domain.StatusAuthentic,
		},
		{
			name: "unavailable classifier drops the whole visual stage",
			vision: &fakeVision{
				classifyErr: errors.New("model endpoint down"),
			},
			expectOCd:    true,
			expectStatus: domain.StatusAuthentic,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			engine := NewComparisonEngine(&fakeOCR{texts: sameText}, tc.vision)

			result, err := engine.Compare(ctx, original, candidate, "", domain.NoProgress)
			require.NoError(t, err)

			assert.Equal(t, tc.expectOCd, result.OCROnly)
			assert.Equal(t, tc.expectStatus, result.Status)
			if tc.expectVisual {
				assert.NotNil(t, result.Visual)
				assert.Equal(t, 2, tc.vision.visualCalls)
			} else {
				assert.Nil(t, result.Visual)
			}
		})
	}
}

func TestComparisonEnginePartialText(t *testing.T) {
	ctx := context.Background()
	original := []byte("original bytes")
	candidate := []byte("candidate bytes")

	ocr := &fakeOCR{
		texts: map[string]string{string(original): "jane doe bachelor of science"},
		errs:  map[string]error{string(candidate): errors.New("unreadable scan")},
	}
	vision := &fakeVision{
		types:  map[string]string{string(original): "diploma", string(candidate): "diploma"},
		visual: &domain.VisualAnalysis{AuthenticityScore: 90, TamperSeverity: domain.SeverityNone},
	}
	engine := NewComparisonEngine(ocr, vision)

	result, err := engine.Compare(ctx, original, candidate, "", domain.NoProgress)
	require.NoError(t, err)

	assert.True(t, result.PartialText)
	assert.Zero(t, result.TextSimilarity)
	assert.Equal(t, domain.StatusSuspicious, result.Status)
	assert.NotEmpty(t, result.Warnings)
}
