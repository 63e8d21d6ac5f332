package report

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/divron/attendance/internal"
	"github.com/divron/attendance/internal/attendance"
	"github.com/divron/attendance/internal/core/common/validation"
	"github.com/divron/attendance/internal/employee"
)

type Source interface {
	ListEmployees(ctx context.Context) []*employee.Employee
	ListAttendance(ctx context.Context) []*attendance.Record
}

type Request struct {
	Period string
	Date   string
	Format string
}

// Validate checks the request before any record is read. An empty format
// means csv.
func (r Request) Validate() error {
	v := validation.NewValidator()
	v.Field("period", r.Period).Required().
		OneOf(apperrors.ErrCodeInvalidPeriod, string(PeriodDaily), string(PeriodMonthly), string(PeriodYearly))
	v.Field("date", r.Date).Required().DateLayout(attendance.DateLayout)
	v.Field("format", r.Format).OneOf(apperrors.ErrCodeInvalidFormat, "", string(FormatCSV), string(FormatXLSX))
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type File struct {
	Name        string
	ContentType string
	Rows        int
	Body        []byte
}

type Service struct {
	source Source
	logger *slog.Logger
}

func NewService(source Source, logger *slog.Logger) *Service {
	return &Service{source: source, logger: logger}
}

func (s *Service) Generate(ctx context.Context, req Request) (*File, error) {
	if err := req.Validate(); err != nil {
		s.logger.Warn("report request rejected", "period", req.Period, "date", req.Date, "format", req.Format)
		return nil, err
	}

	period, err := ParsePeriod(req.Period)
	if err != nil {
		return nil, err
	}
	format, err := ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}
	selected, err := time.Parse(attendance.DateLayout, req.Date)
	if err != nil {
		return nil, apperrors.NewValidationFieldError("date", "date must be YYYY-MM-DD", apperrors.ErrCodeInvalidDate)
	}

	rows := Build(s.source.ListEmployees(ctx), s.source.ListAttendance(ctx), period, selected)

	file := &File{
		Name: FileName(period, req.Date, format),
		Rows: len(rows),
	}
	switch format {
	case FormatXLSX:
		file.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		file.Body, err = RenderXLSX(rows)
	default:
		file.ContentType = "text/csv"
		file.Body, err = RenderCSV(rows)
	}
	if err != nil {
		s.logger.Error("failed to render report", "error", err, "period", period, "format", format)
		return nil, apperrors.NewInternalError("failed to render report", err)
	}

	s.logger.Info("report generated", "period", period, "date", req.Date, "format", format, "rows", file.Rows)
	return file, nil
}
