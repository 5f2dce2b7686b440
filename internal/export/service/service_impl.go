package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
	auditdomain "github.com/smallbiznis/ideabox/internal/audit/domain"
	"github.com/smallbiznis/ideabox/internal/clock"
	"github.com/smallbiznis/ideabox/internal/config"
	"github.com/smallbiznis/ideabox/internal/export/domain"
	ideadomain "github.com/smallbiznis/ideabox/internal/idea/domain"
	"github.com/smallbiznis/ideabox/internal/observability/metrics"
	"github.com/smallbiznis/ideabox/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	contentTypeCSV = "text/csv; charset=utf-8"
	contentTypePDF = "application/pdf"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Policy  *config.ReviewPolicyHolder
	Ideas   ideadomain.Repository
	Audit   auditdomain.Service `optional:"true"`
	Metrics *metrics.Metrics    `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	policy  *config.ReviewPolicyHolder
	ideas   ideadomain.Repository
	audit   auditdomain.Service
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("export.service"),
		clock:   p.Clock,
		policy:  p.Policy,
		ideas:   p.Ideas,
		audit:   p.Audit,
		metrics: p.Metrics,
	}
}

// ByIDs renders the given ideas in request order. Duplicates keep their first
// position and unknown ids are skipped.
func (s *Service) ByIDs(ctx context.Context, ids []string, format domain.Format) (domain.File, error) {
	if len(ids) > domain.MaxRows {
		return domain.File{}, domain.ErrBatchTooLarge
	}
	format, err := domain.ParseFormat(string(format))
	if err != nil {
		return domain.File{}, err
	}

	ordered := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}

	found, err := s.ideas.FindByIDs(ctx, s.db, ordered)
	if err != nil {
		return domain.File{}, err
	}
	byID := make(map[string]*ideadomain.Idea, len(found))
	for _, item := range found {
		if item != nil {
			byID[item.ID] = item
		}
	}

	rows := make([]*ideadomain.Idea, 0, len(ordered))
	for _, id := range ordered {
		if item, ok := byID[id]; ok {
			rows = append(rows, item)
		}
	}

	return s.render(ctx, "ids", "", format, rows)
}

// ByFilter renders the newest ideas matching the filter.
func (s *Service) ByFilter(ctx context.Context, req domain.FilterRequest) (domain.File, error) {
	limit := domain.MaxRows
	if req.Limit != nil {
		limit = *req.Limit
	}
	if limit < 1 || limit > domain.MaxRows {
		return domain.File{}, domain.ErrInvalidLimit
	}
	format, err := domain.ParseFormat(string(req.Format))
	if err != nil {
		return domain.File{}, err
	}

	filter := ideadomain.ListFilter{Category: strings.TrimSpace(req.Category)}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status, ok := ideadomain.ParseStatus(raw)
		if !ok {
			return domain.File{}, domain.ErrInvalidStatus
		}
		filter.Statuses = []ideadomain.Status{status}
	}

	rows, _, err := s.ideas.List(ctx, s.db, filter, pagination.Page{Limit: limit})
	if err != nil {
		return domain.File{}, err
	}

	return s.render(ctx, "filter", filter.Category, format, rows)
}

func (s *Service) render(ctx context.Context, mode, label string, format domain.Format, rows []*ideadomain.Idea) (domain.File, error) {
	layout := s.policy.Get().Export.DateLayout
	now := s.clock.Now().UTC()
	exportID := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()

	var (
		data        []byte
		err         error
		contentType = contentTypeCSV
	)
	switch format {
	case domain.FormatPDF:
		data, err = renderPDF(rows, layout, now)
		contentType = contentTypePDF
	default:
		data, err = renderCSV(rows, layout)
	}
	if err != nil {
		return domain.File{}, fmt.Errorf("render %s: %w", format, err)
	}

	s.metrics.RecordExport(ctx, mode, len(rows))
	if s.audit != nil {
		ids := make([]string, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
		entry := auditdomain.Entry{
			Action:     auditdomain.ActionExport,
			TargetType: auditdomain.TargetIdea,
			TargetIDs:  ids,
			Metadata:   map[string]any{
				"export_id": exportID,
				"mode":      mode,
				"format":    string(format),
				"rows":      len(rows),
			},
		}
		// The file is already rendered; a failed audit write does not block the download.
		if err := s.audit.Record(ctx, nil, entry); err != nil {
			s.log.Warn("export audit failed", zap.Error(err))
		}
	}

	name := "ideas"
	if label = slug.Make(label); label != "" {
		name += "-" + label
	}

	return domain.File{
		ID:          exportID,
		Name:        fmt.Sprintf("%s-%s.%s", name, now.Format("20060102-150405"), format),
		ContentType: contentType,
		Rows:        len(rows),
		Data:        data,
	}, nil
}
