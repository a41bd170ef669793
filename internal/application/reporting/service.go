package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/sds-wizard/internal/domain/sds"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

// ArtifactStore keeps rendered documents.
type ArtifactStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// RenderObserver counts rendered documents by outcome.
type RenderObserver interface {
	ObserveDocumentRendered(outcome string)
}

const (
	OutcomeRendered = "rendered"
	OutcomeFailed   = "failed"
)

// ArtifactKey is the object key of a record's archived PDF.
func ArtifactKey(id uuid.UUID) string { return "sds/" + id.String() + ".pdf" }

// Service loads completed records and renders or archives their documents.
type Service struct {
	repo      sds.Repository
	assembler *Assembler
	engine    TemplateEngine
	store     ArtifactStore
	observer  RenderObserver
	logger    logging.Logger
}

type ServiceOption func(*Service)

// WithArtifactStore enables Archive and DocumentURL.
func WithArtifactStore(store ArtifactStore) ServiceOption {
	return func(s *Service) { s.store = store }
}

func WithRenderObserver(o RenderObserver) ServiceOption {
	return func(s *Service) { s.observer = o }
}

func NewService(repo sds.Repository, assembler *Assembler, engine TemplateEngine, logger logging.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Service{
		repo:      repo,
		assembler: assembler,
		engine:    engine,
		logger:    logger.Named("reporting"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Document assembles the record's document without rendering it.
func (s *Service) Document(ctx context.Context, id uuid.UUID) (Document, *sds.Record, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Document{}, nil, err
	}
	return s.assembler.Assemble(rec), rec, nil
}

// Render assembles and renders record id in format.
func (s *Service) Render(ctx context.Context, id uuid.UUID, format ReportFormat) (*RenderResult, error) {
	doc, rec, err := s.Document(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := s.engine.Render(ctx, &RenderRequest{Document: doc, Format: format, FileName: fileName(rec)})
	s.observe(err)
	if err != nil {
		s.logger.Error("failed to render safety data sheet",
			logging.String("record_id", id.String()),
			logging.String("format", string(format)),
			logging.Err(err))
		return nil, err
	}
	return res, nil
}

// Archive renders the PDF and stores it under ArtifactKey(id).
func (s *Service) Archive(ctx context.Context, id uuid.UUID) (string, error) {
	if s.store == nil {
		return "", errors.New(errors.ErrCodeSDSArchive, "artifact store is not configured")
	}
	res, err := s.Render(ctx, id, FormatPDF)
	if err != nil {
		return "", err
	}
	key := ArtifactKey(id)
	if err := s.store.Save(ctx, key, res.Content, res.ContentType); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSDSArchive, "failed to archive safety data sheet").WithDetail(key)
	}
	s.logger.Info("safety data sheet archived",
		logging.String("record_id", id.String()),
		logging.String("key", key),
		logging.Int64("bytes", res.FileSize))
	return key, nil
}

// DocumentURL returns a time-limited download link for an archived PDF.
func (s *Service) DocumentURL(ctx context.Context, id uuid.UUID, expiry time.Duration) (string, error) {
	if s.store == nil {
		return "", errors.New(errors.ErrCodeSDSArchive, "artifact store is not configured")
	}
	u, err := s.store.PresignedURL(ctx, ArtifactKey(id), expiry)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSDSArchive, "failed to presign document url")
	}
	return u, nil
}

func (s *Service) observe(err error) {
	if s.observer == nil {
		return
	}
	if err != nil {
		s.observer.ObserveDocumentRendered(OutcomeFailed)
		return
	}
	s.observer.ObserveDocumentRendered(OutcomeRendered)
}

func fileName(rec *sds.Record) string {
	if rec == nil || rec.ID == uuid.Nil {
		return "SDS"
	}
	return "SDS_" + rec.ID.String()
}

//Personal.AI order the ending
