package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/wishlistapp/wishlist-server/internal/backup"
)

func (s *Server) registerBackupRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exportBackup",
		Method:      http.MethodGet,
		Path:        "/backup/export",
		Summary:     "Export backup",
		Description: "Returns the full wishlist as a versioned backup document",
		Tags:        []string{"Backup"},
	}, s.handleExportBackup)

	huma.Register(s.api, huma.Operation{
		OperationID: "importBackup",
		Method:      http.MethodPost,
		Path:        "/backup/import",
		Summary:     "Import backup",
		Description: "Merges a backup document into the wishlist; existing books are never overwritten",
		Tags:        []string{"Backup"},
	}, s.handleImportBackup)
}

// BackupExportOutput wraps the backup document for Huma.
type BackupExportOutput struct {
	Body *backup.Document
}

// BackupImportInput wraps an uploaded backup document for Huma.
type BackupImportInput struct {
	Body backup.Document
}

// BackupImportOutput wraps the import summary for Huma.
type BackupImportOutput struct {
	Body *backup.ImportResult
}

func (s *Server) handleExportBackup(ctx context.Context, _ *struct{}) (*BackupExportOutput, error) {
	doc, err := s.services.Backup.Export(ctx)
	if err != nil {
		return nil, err
	}
	return &BackupExportOutput{Body: doc}, nil
}

func (s *Server) handleImportBackup(ctx context.Context, input *BackupImportInput) (*BackupImportOutput, error) {
	result, err := s.services.Backup.Import(ctx, &input.Body)
	if err != nil {
		return nil, err
	}
	return &BackupImportOutput{Body: result}, nil
}
