package reporting

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

//go:embed templates/sds.html.tmpl
var sdsTemplate string

// ============================================================================
// Enums & Constants
// ============================================================================

type ReportFormat string

const (
	FormatHTML ReportFormat = "html"
	FormatPDF  ReportFormat = "pdf"
)

// ContentType is the MIME type of the format.
func (f ReportFormat) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

type PageSize string

const (
	A4     PageSize = "A4"
	Letter PageSize = "Letter"
)

const TotalRenderTimeout = 2 * time.Minute

// ============================================================================
// DTOs
// ============================================================================

// Margins are in inches.
type Margins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

type RenderOptions struct {
	PageSize    PageSize
	Margins     Margins
	FooterHTML  string
	PageNumbers bool
}

// DefaultRenderOptions is an A4 page with half-inch side margins and room
// for the footer.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		PageSize:    A4,
		Margins:     Margins{Top: 1, Bottom: 1, Left: 0.5, Right: 0.5},
		PageNumbers: true,
	}
}

type RenderRequest struct {
	Document Document
	Format   ReportFormat
	// FileName without extension; defaults to "SDS".
	FileName string
	Options  *RenderOptions
}

type RenderResult struct {
	Content        []byte
	ContentType    string
	FileName       string
	FileSize       int64
	RenderDuration time.Duration
}

// ============================================================================
// External Interfaces
// ============================================================================

// HTMLRenderer prints an HTML page to PDF.  The footer HTML may contain the
// pageNumber placeholder span understood by the print backend.
type HTMLRenderer interface {
	RenderPDF(ctx context.Context, html string, opts *RenderOptions) ([]byte, error)
}

// ============================================================================
// Engine
// ============================================================================

type TemplateEngine interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	RenderHTML(doc Document) ([]byte, error)
}

type templateEngineImpl struct {
	tmpl       *template.Template
	htmlRender HTMLRenderer
	logger     logging.Logger
	now        func() time.Time
}

// EngineOption customises the engine.
type EngineOption func(*templateEngineImpl)

// WithEngineClock sets the clock used for the footer date.
func WithEngineClock(now func() time.Time) EngineOption {
	return func(e *templateEngineImpl) { e.now = now }
}

// NewTemplateEngine parses the embedded page template.  htmlRender may be
// nil, in which case only HTML output is available.
func NewTemplateEngine(htmlRender HTMLRenderer, logger logging.Logger, opts ...EngineOption) (TemplateEngine, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	t, err := template.New("sds").Funcs(registerTemplateFuncs()).Parse(sdsTemplate)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "template parse failed")
	}
	eng := &templateEngineImpl{
		tmpl:       t,
		htmlRender: htmlRender,
		logger:     logger.Named("reporting"),
		now:        time.Now,
	}
	for _, o := range opts {
		o(eng)
	}
	return eng, nil
}

func (s *templateEngineImpl) RenderHTML(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSDSRender, "template execution failed")
	}
	return buf.Bytes(), nil
}

func (s *templateEngineImpl) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	start := time.Now()
	if req == nil || req.Format == "" {
		return nil, errors.InvalidParam("invalid render request parameters")
	}

	renderCtx, cancel := context.WithTimeout(ctx, TotalRenderTimeout)
	defer cancel()

	html, err := s.RenderHTML(req.Document)
	if err != nil {
		return nil, err
	}

	var content []byte
	switch req.Format {
	case FormatHTML:
		content = html

	case FormatPDF:
		if s.htmlRender == nil {
			return nil, errors.New(errors.ErrCodeSDSRender, "PDF rendering is not configured")
		}
		opts := DefaultRenderOptions()
		if req.Options != nil {
			opts = *req.Options
		}
		if opts.FooterHTML == "" {
			opts.FooterHTML = FooterHTML(s.now())
		}
		content, err = s.htmlRender.RenderPDF(renderCtx, string(html), &opts)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSDSRender, "PDF rendering failed")
		}

	default:
		return nil, errors.InvalidParam(fmt.Sprintf("unsupported output format: %s", req.Format))
	}

	name := req.FileName
	if name == "" {
		name = "SDS"
	}
	res := &RenderResult{
		Content:        content,
		ContentType:    req.Format.ContentType(),
		FileName:       name + "." + string(req.Format),
		FileSize:       int64(len(content)),
		RenderDuration: time.Since(start),
	}
	s.logger.Debug("document rendered",
		logging.String("format", string(req.Format)),
		logging.Int64("bytes", res.FileSize),
		logging.Duration("elapsed", res.RenderDuration))
	return res, nil
}

// FooterText is the footer line before the page number.
func FooterText(at time.Time) string {
	return "SDS generated on " + at.Format("2006-01-02") + " | Page "
}

// FooterHTML is the print footer carrying the live page number.
func FooterHTML(at time.Time) string {
	return `<div style="width:100%;font-size:8px;color:grey;text-align:right;padding-right:0.5in;">` +
		template.HTMLEscapeString(FooterText(at)) + `<span class="pageNumber"></span></div>`
}

// ----------------------------------------------------------------------------
// Template functions
// ----------------------------------------------------------------------------

func registerTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// lines escapes s and breaks it on newlines.
		"lines": func(s string) template.HTML {
			parts := strings.Split(s, "\n")
			for i, p := range parts {
				parts[i] = template.HTMLEscapeString(p)
			}
			return template.HTML(strings.Join(parts, "<br>"))
		},
	}
}

//Personal.AI order the ending
