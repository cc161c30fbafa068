package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/codewithvis/Spend-Wise/internal/auth"
	"github.com/codewithvis/Spend-Wise/internal/extraction"
	"github.com/codewithvis/Spend-Wise/internal/importer"
	"github.com/codewithvis/Spend-Wise/internal/model"
)

const maxImportBytes = 10 << 20 // 10MB cap on uploaded statements

// importResponse reports the outcome of a bulk import. Rejected or unsaved
// records are counted and itemized, never fatal to the rest of the batch.
type importResponse struct {
	ImportedCount int                  `json:"importedCount"`
	ErrorCount    int                  `json:"errorCount"`
	Rejections    []importer.Rejection `json:"rejections,omitempty"`
	Message       string               `json:"message"`
}

func importMessage(imported, skipped int) string {
	return fmt.Sprintf("%d imported, %d skipped", imported, skipped)
}

// saveExpenses persists accepted expenses one at a time. A failed write
// counts as skipped; it never aborts the batch.
func (s *FinanceService) saveExpenses(ctx context.Context, ownerID string, expenses []model.Expense) (int, int) {
	saved := 0
	failed := 0
	for i := range expenses {
		if err := s.store.CreateExpense(ctx, ownerID, &expenses[i]); err != nil {
			log.Printf("[IMPORT] save expense for %s failed: %v", ownerID, err)
			failed++
			continue
		}
		saved++
	}
	return saved, failed
}

func (s *FinanceService) handleImportExpensesCSV(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return
	}
	defer r.Body.Close()

	candidates, err := importer.ParseExpenseCSV(bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// CSV files are user-curated, so unknown categories are reported as
	// errors instead of silently remapped.
	normalizer := importer.Normalizer{OnUnknownCategory: importer.RejectUnknownCategory}
	result := normalizer.NormalizeExpenses(candidates)

	saved, failed := s.saveExpenses(r.Context(), claims.UID, result.Accepted)
	skipped := result.ErrorCount + failed

	s.archiveStatement(r.Context(), claims.UID, importFilename(r, "expenses.csv"), body, saved, skipped)

	writeJSON(w, http.StatusOK, importResponse{
		ImportedCount: saved,
		ErrorCount:    skipped,
		Rejections:    result.Rejections,
		Message:       importMessage(saved, skipped),
	})
}

func (s *FinanceService) handleImportBudgetsCSV(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return
	}
	defer r.Body.Close()

	candidates, err := importer.ParseBudgetCSV(bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	normalizer := importer.Normalizer{}
	result := normalizer.NormalizeBudgets(candidates)

	accepted := make([]*model.Budget, 0, len(result.Accepted))
	for i := range result.Accepted {
		accepted = append(accepted, &result.Accepted[i])
	}
	saved, saveErr := s.reconciler.SaveAll(r.Context(), claims.UID, accepted)
	if saveErr != nil {
		log.Printf("[IMPORT] save budgets for %s: %v", claims.UID, saveErr)
	}
	skipped := result.ErrorCount + (len(accepted) - saved)

	writeJSON(w, http.StatusOK, importResponse{
		ImportedCount: saved,
		ErrorCount:    skipped,
		Rejections:    result.Rejections,
		Message:       importMessage(saved, skipped),
	})
}

type importTextRequest struct {
	Text string `json:"text"`
}

func (s *FinanceService) handleImportExpensesText(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	var req importTextRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	candidates, err := s.extractCandidates(r.Context(), req.Text, 0)
	if err != nil {
		writeExtractionError(w, err)
		return
	}

	saved, skipped, result := s.importExtracted(r.Context(), claims.UID, candidates)
	s.archiveStatement(r.Context(), claims.UID, importFilename(r, "statement.txt"), []byte(req.Text), saved, skipped)

	writeJSON(w, http.StatusOK, importResponse{
		ImportedCount: saved,
		ErrorCount:    skipped,
		Rejections:    result.Rejections,
		Message:       importMessage(saved, skipped),
	})
}

func (s *FinanceService) handleImportExpensesPDF(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse multipart form: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("file field is required: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read file: %w", err))
		return
	}

	analysis := extraction.AnalyzePDF(data)
	if analysis.Error != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("analyze PDF: %w", analysis.Error))
		return
	}
	if analysis.IsScanned {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Errorf("PDF appears to be scanned; no extractable text"))
		return
	}

	candidates, err := s.extractCandidates(r.Context(), analysis.ExtractedText, analysis.MaxOutputTokens)
	if err != nil {
		writeExtractionError(w, err)
		return
	}

	saved, skipped, result := s.importExtracted(r.Context(), claims.UID, candidates)
	s.archiveStatement(r.Context(), claims.UID, header.Filename, data, saved, skipped)

	writeJSON(w, http.StatusOK, importResponse{
		ImportedCount: saved,
		ErrorCount:    skipped,
		Rejections:    result.Rejections,
		Message:       importMessage(saved, skipped),
	})
}

func (s *FinanceService) extractCandidates(ctx context.Context, text string, maxTokens int) ([]importer.ExpenseCandidate, error) {
	if s.extractor == nil {
		return nil, &extraction.ExtractionError{
			Code:    extraction.ErrNotConfigured,
			Message: "text extraction is not configured",
		}
	}
	return s.extractor.ExtractExpenses(ctx, text, maxTokens)
}

// importExtracted normalizes AI-extracted candidates and persists the
// accepted ones. Extraction output is model-generated, so unknown categories
// are remapped to Other rather than rejected.
func (s *FinanceService) importExtracted(ctx context.Context, ownerID string, candidates []importer.ExpenseCandidate) (int, int, importer.ExpenseResult) {
	normalizer := importer.Normalizer{OnUnknownCategory: importer.RemapUnknownToOther}
	result := normalizer.NormalizeExpenses(candidates)

	saved, failed := s.saveExpenses(ctx, ownerID, result.Accepted)
	return saved, result.ErrorCount + failed, result
}

func writeExtractionError(w http.ResponseWriter, err error) {
	if extErr, ok := err.(*extraction.ExtractionError); ok {
		switch extErr.Code {
		case extraction.ErrNotConfigured:
			writeError(w, http.StatusServiceUnavailable, err)
		case extraction.ErrInvalidDocument, extraction.ErrNoRecordsFound:
			writeError(w, http.StatusUnprocessableEntity, err)
		case extraction.ErrGeminiRateLimited:
			writeError(w, http.StatusTooManyRequests, err)
		default:
			writeError(w, http.StatusBadGateway, err)
		}
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

func importFilename(r *http.Request, fallback string) string {
	if name := r.URL.Query().Get("filename"); name != "" {
		return name
	}
	return fallback
}

// archiveStatement uploads the raw import source to GCS (when a bucket is
// configured) and records a statement document either way. Archival is best
// effort; failures are logged, not surfaced, since the import itself has
// already succeeded.
func (s *FinanceService) archiveStatement(ctx context.Context, ownerID, filename string, data []byte, imported, skipped int) {
	statement := &model.Statement{
		Filename:      filename,
		SizeBytes:     int64(len(data)),
		ImportedCount: imported,
		SkippedCount:  skipped,
		UploadedAt:    s.now().UTC().Format(time.RFC3339),
	}

	if s.storageBucket != nil {
		objectPath := fmt.Sprintf("statements/%s/%d_%s", ownerID, s.now().UnixNano(), filename)
		writer := s.storageBucket.Object(objectPath).NewWriter(ctx)
		if _, err := writer.Write(data); err != nil {
			log.Printf("[IMPORT] archive statement %s: %v", objectPath, err)
		} else if err := writer.Close(); err != nil {
			log.Printf("[IMPORT] close statement writer %s: %v", objectPath, err)
		} else {
			statement.StoragePath = objectPath
		}
	}

	if err := s.store.CreateStatement(ctx, ownerID, statement); err != nil {
		log.Printf("[IMPORT] record statement for %s: %v", ownerID, err)
	}
}

type listStatementsResponse struct {
	Statements []*model.Statement `json:"statements"`
}

func (s *FinanceService) handleListStatements(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	statements, err := s.store.ListStatements(r.Context(), claims.UID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if statements == nil {
		statements = []*model.Statement{}
	}
	writeJSON(w, http.StatusOK, listStatementsResponse{Statements: statements})
}
