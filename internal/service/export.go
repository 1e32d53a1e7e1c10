package service

import (
	"context"
	"io"

	"farmbeats_sheets/internal/sheet"
)

type ExportService struct {
	wb sheet.Workbook
}

func NewExportService(wb sheet.Workbook) *ExportService {
	return &ExportService{wb: wb}
}

func (s *ExportService) WriteXLSX(ctx context.Context, w io.Writer) error {
	return sheet.Export(ctx, s.wb, w)
}
