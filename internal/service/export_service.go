package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/army-personnel-api/internal/models"
	appErrors "github.com/noah-isme/army-personnel-api/pkg/errors"
	"github.com/noah-isme/army-personnel-api/pkg/export"
)

type rosterSource interface {
	ListAll(ctx context.Context, filter models.PersonnelFilter) ([]models.PersonnelDetail, error)
}

type ledgerSource interface {
	List(ctx context.Context, filter models.PointEntryFilter) ([]models.PointEntry, error)
}

// ExportFile is a rendered document ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the roster and the point ledger as downloadable documents.
type ExportService struct {
	personnel rosterSource
	ledger    ledgerSource
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(personnel rosterSource, ledger ledgerSource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{personnel: personnel, ledger: ledger, logger: logger, now: time.Now}
}

// Roster renders members matching filter.
func (s *ExportService) Roster(ctx context.Context, filter models.PersonnelFilter, format string) (*ExportFile, error) {
	members, err := s.personnel.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.render(RosterDataset(members), "personnel", format)
}

// Ledger renders point entries matching filter.
func (s *ExportService) Ledger(ctx context.Context, filter models.PointEntryFilter, format string) (*ExportFile, error) {
	entries, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	members, err := s.personnel.ListAll(ctx, models.PersonnelFilter{})
	if err != nil {
		return nil, err
	}
	return s.render(LedgerDataset(entries, members), "point-entries", format)
}

func (s *ExportService) render(data export.Dataset, name, rawFormat string) (*ExportFile, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		appErr := appErrors.Clone(appErrors.ErrValidation, err.Error())
		appErr.Details = []appErrors.FieldError{{Field: "format", Rule: "oneof", Message: "must be one of csv pdf xlsx"}}
		return nil, appErr
	}
	renderer, err := export.RendererFor(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to select renderer")
	}
	body, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("%s-%s.%s", name, s.now().UTC().Format("20060102-150405"), renderer.Extension())
	s.logger.Debug("export rendered", zap.String("file", filename), zap.Int("rows", len(data.Rows)), zap.Int("bytes", len(body)))
	return &ExportFile{Filename: filename, ContentType: renderer.ContentType(), Body: body}, nil
}

// RosterDataset tabulates members.
func RosterDataset(members []models.PersonnelDetail) export.Dataset {
	data := export.Dataset{
		Title:   "Personnel Roster",
		Headers: []string{"Army ID", "Last Name", "First Name", "Rank", "Level", "Total Points", "Special Position", "Active", "Join Date"},
		Rows:    make([][]string, 0, len(members)),
	}
	for _, m := range members {
		rank, level := "", ""
		if m.CurrentRank != nil {
			rank = m.CurrentRank.Name
			level = strconv.Itoa(m.CurrentRank.Level)
		}
		position := ""
		if m.SpecialPosition != nil {
			position = m.SpecialPosition.Name
		}
		data.Rows = append(data.Rows, []string{
			m.ArmyID,
			m.LastName,
			m.FirstName,
			rank,
			level,
			strconv.Itoa(m.TotalPoints),
			position,
			yesNo(m.IsActive),
			models.NewDate(m.JoinDate).String(),
		})
	}
	return data
}

// LedgerDataset tabulates point entries, resolving member names where known.
func LedgerDataset(entries []models.PointEntry, members []models.PersonnelDetail) export.Dataset {
	byID := make(map[int64]models.PersonnelDetail, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	data := export.Dataset{
		Title:   "Point Entries",
		Headers: []string{"Week", "Army ID", "Name", "Activity", "Special Position", "Week Total", "Notes"},
		Rows:    make([][]string, 0, len(entries)),
	}
	for _, e := range entries {
		armyID, name := strconv.FormatInt(e.PersonnelID, 10), ""
		if m, ok := byID[e.PersonnelID]; ok {
			armyID = m.ArmyID
			name = m.LastName + ", " + m.FirstName
		}
		notes := ""
		if e.Notes != nil {
			notes = *e.Notes
		}
		data.Rows = append(data.Rows, []string{
			e.WeekStart.String(),
			armyID,
			name,
			strconv.Itoa(e.ActivityPoints),
			strconv.Itoa(e.SpecialPositionPoints),
			strconv.Itoa(e.TotalWeekPoints),
			notes,
		})
	}
	return data
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
