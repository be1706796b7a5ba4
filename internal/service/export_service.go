package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
)

const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type timetableReader interface {
	GetTimetable(ctx context.Context, query dto.TimetableQuery) (*dto.TimetableResponse, error)
}

type csvRenderer interface {
	ContentType() string
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	ContentType() string
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered file ready to be streamed.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the active timetable as a downloadable file.
type ExportService struct {
	timetables timetableReader
	csv        csvRenderer
	pdf        pdfRenderer
}

// NewExportService constructs the service. Nil renderers fall back to the
// default exporters.
func NewExportService(timetables timetableReader, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter(true)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{timetables: timetables, csv: csv, pdf: pdf}
}

var exportHeaders = []string{"Student Group", "Day", "Time Slot", "Subject", "Teacher", "Classroom"}

// Export renders the active timetable in the requested format.
func (s *ExportService) Export(ctx context.Context, query dto.TimetableExportQuery) (*ExportResult, error) {
	format := strings.ToLower(strings.TrimSpace(query.Format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", query.Format))
	}

	timetable, err := s.timetables.GetTimetable(ctx, dto.TimetableQuery{StudentGroupID: query.StudentGroupID})
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Headers: exportHeaders, GroupBy: exportHeaders[0]}
	for _, group := range timetable.Timetable {
		for _, entry := range group.Schedule {
			data.Rows = append(data.Rows, map[string]string{
				"Student Group": group.StudentGroup,
				"Day":           entry.Day,
				"Time Slot":     entry.TimeSlot,
				"Subject":       entry.Subject,
				"Teacher":       entry.Teacher,
				"Classroom":     entry.Classroom,
			})
		}
	}

	base := fmt.Sprintf("timetable_%d_s%d", timetable.AcademicYear, timetable.Semester)
	if query.StudentGroupID != "" && len(timetable.Timetable) == 1 {
		base += "_" + sanitizeFilename(timetable.Timetable[0].StudentGroup)
	}

	result := &ExportResult{Filename: base + "." + format}
	switch format {
	case ExportFormatPDF:
		title := fmt.Sprintf("Timetable %d Semester %d", timetable.AcademicYear, timetable.Semester)
		result.Body, err = s.pdf.Render(data, title)
		result.ContentType = s.pdf.ContentType()
	default:
		result.Body, err = s.csv.Render(data)
		result.ContentType = s.csv.ContentType()
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable export")
	}
	return result, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func sanitizeFilename(raw string) string {
	cleaned := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(raw), "-")
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		return "group"
	}
	return strings.ToLower(cleaned)
}
