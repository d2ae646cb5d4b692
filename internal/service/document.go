package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nurpe/kostenersatz/internal/model"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type DocumentFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

func (s *CalculationService) RenderPDF(ctx context.Context, incidentID, id uuid.UUID) (*DocumentFile, error) {
	doc, err := s.loadDocument(ctx, incidentID, id)
	if err != nil {
		return nil, err
	}
	content, err := s.renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return &DocumentFile{
		FileName:    documentFileName(doc, "pdf"),
		ContentType: contentTypePDF,
		Content:     content,
	}, nil
}

func (s *CalculationService) ExportExcel(ctx context.Context, incidentID, id uuid.UUID) (*DocumentFile, error) {
	doc, err := s.loadDocument(ctx, incidentID, id)
	if err != nil {
		return nil, err
	}
	content, err := s.exporter.Generate(doc)
	if err != nil {
		return nil, fmt.Errorf("generate workbook: %w", err)
	}
	return &DocumentFile{
		FileName:    documentFileName(doc, "xlsx"),
		ContentType: contentTypeXLSX,
		Content:     content,
	}, nil
}

func (s *CalculationService) loadDocument(ctx context.Context, incidentID, id uuid.UUID) (model.CalculationDocument, error) {
	calc, err := s.load(ctx, incidentID, id)
	if err != nil {
		return model.CalculationDocument{}, err
	}
	return s.documentFor(ctx, *calc)
}

// documentFor reads the incident and the rate catalog of calc concurrently.
func (s *CalculationService) documentFor(ctx context.Context, calc model.Calculation) (model.CalculationDocument, error) {
	var (
		incident *model.Incident
		rates    []model.Rate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		incident, err = s.incidents.Get(gctx, calc.IncidentID)
		return mapStoreErr(err)
	})
	g.Go(func() error {
		var err error
		rates, err = s.rates.Rates(gctx, calc.RateVersion)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.CalculationDocument{}, err
	}

	return model.CalculationDocument{
		Calculation: calc,
		Rates:       rates,
		Incident:    *incident,
	}, nil
}

func documentFileName(doc model.CalculationDocument, ext string) string {
	name := "Kostenersatz_" + sanitizeFileName(doc.IncidentName())
	if date := doc.IncidentDate(); !date.IsZero() {
		name += "_" + date.Format("2006-01-02")
	}
	return name + "." + ext
}
