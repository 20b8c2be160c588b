package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/arborcli/arbor/internal/db"
	"github.com/arborcli/arbor/internal/importer"
	"github.com/arborcli/arbor/internal/repository"
)

type importService struct {
	uow db.UnitOfWork
}

// NewImportService creates an ImportService that persists each import
// as a single transaction.
func NewImportService(uow db.UnitOfWork) ImportService {
	return &importService{uow: uow}
}

func (s *importService) ImportProject(ctx context.Context, filePath string) (*ImportResult, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}

	var schema importer.ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}

	return s.ImportProjectFromSchema(ctx, &schema)
}

func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, fmt.Errorf("invalid import: %w", errors.Join(errs...))
	}

	converted, err := importer.Convert(schema)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		nodes := repository.NewSQLiteNodeRepo(tx)

		if err := projects.Create(ctx, converted.Project); err != nil {
			return fmt.Errorf("creating project %q: %w", converted.Project.Name, err)
		}
		for _, n := range converted.Nodes {
			if err := nodes.Create(ctx, n); err != nil {
				return fmt.Errorf("creating node %q: %w", n.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Project:   converted.Project,
		NodeCount: len(converted.Nodes),
		Repaired:  converted.Repaired,
	}, nil
}
