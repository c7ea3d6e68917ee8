// Package export renders an extraction result as an XLSX workbook with a
// Questions sheet and a Summary sheet.
package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/examforge/question-extractor/internal/entity"
)

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// BuildWorkbook returns an XLSX workbook (as bytes) for one extraction result.
func (s *Service) BuildWorkbook(result entity.ExtractionResult) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Questions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"#",
		"Type",
		"Question",
		"Options",
		"Correct Answer",
		"Points",
		"Difficulty",
		"Category",
		"Tags",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, q := range result.Questions {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		answer := ""
		if q.CorrectAnswer != nil {
			answer = q.CorrectAnswer.String()
		}

		write(1, i+1)
		write(2, string(q.Type))
		write(3, truncate(q.QuestionText, 200))
		write(4, strings.Join(q.Options, "; "))
		write(5, answer)
		write(6, q.Points)
		write(7, string(q.Difficulty))
		write(8, q.Category)
		write(9, strings.Join(q.Tags, ", "))
	}

	_ = f.SetColWidth(sheet, "A", "A", 5)
	_ = f.SetColWidth(sheet, "B", "B", 16)
	_ = f.SetColWidth(sheet, "C", "C", 60)
	_ = f.SetColWidth(sheet, "D", "D", 40)
	_ = f.SetColWidth(sheet, "E", "E", 24)
	_ = f.SetColWidth(sheet, "F", "G", 10)
	_ = f.SetColWidth(sheet, "H", "I", 18)

	if err := s.writeSummary(f, result.Metadata); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(result.Questions),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeSummary(f *excelize.File, md entity.ExtractionMetadata) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][2]any{
		{"Total Extracted", md.TotalExtracted},
		{"Local Confidence Score", md.LocalConfidenceScore},
		{"Confidence Level", string(entity.LevelForScore(md.LocalConfidenceScore))},
		{"Used AI", md.UsedAI},
		{"AI Provider", string(md.AIProvider)},
		{"Processing Time (ms)", md.ProcessingTimeMS},
		{"Issues", strings.Join(md.Issues, "; ")},
	}
	if md.LocalAnalysis != nil {
		rows = append(rows,
			[2]any{"Usable Directly", md.LocalAnalysis.CanUseDirect},
			[2]any{"Suggest AI Review", md.LocalAnalysis.ShouldUseAI},
			[2]any{"Needs Manual Review", md.LocalAnalysis.NeedsReview},
		)
	}

	for i, r := range rows {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valCell, _ := excelize.CoordinatesToCellName(2, i+1)
		_ = f.SetCellValue(sheet, keyCell, r[0])
		_ = f.SetCellValue(sheet, valCell, r[1])
	}

	_ = f.SetColWidth(sheet, "A", "A", 26)
	_ = f.SetColWidth(sheet, "B", "B", 60)
	return nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
