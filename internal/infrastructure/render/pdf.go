// Package render prints assembled SDS pages to PDF with headless Chrome.
package render

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/turtacn/sds-wizard/internal/application/reporting"
	"github.com/turtacn/sds-wizard/internal/config"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

// Paper dimensions in inches.
var paperSizes = map[reporting.PageSize][2]float64{
	reporting.A4:     {8.27, 11.69},
	reporting.Letter: {8.5, 11},
}

const defaultTimeout = 60 * time.Second

// PDFRenderer owns one Chrome allocator; every RenderPDF call opens a fresh
// tab in it.
type PDFRenderer struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	timeout     time.Duration
	logger      logging.Logger
}

var _ reporting.HTMLRenderer = (*PDFRenderer)(nil)

// AllocatorOptions builds the exec allocator flags for cfg.
func AllocatorOptions(cfg config.RenderConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	return opts
}

func NewPDFRenderer(cfg config.RenderConfig, log logging.Logger) *PDFRenderer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), AllocatorOptions(cfg)...)
	return &PDFRenderer{
		allocCtx:    allocCtx,
		cancelAlloc: cancel,
		timeout:     timeout,
		logger:      log.Named("pdf_renderer"),
	}
}

// PrintParams maps render options onto the DevTools print call.  A nil
// opts means reporting.DefaultRenderOptions.
func PrintParams(opts *reporting.RenderOptions) *page.PrintToPDFParams {
	o := reporting.DefaultRenderOptions()
	if opts != nil {
		o = *opts
	}
	size, ok := paperSizes[o.PageSize]
	if !ok {
		size = paperSizes[reporting.A4]
	}

	params := page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(size[0]).
		WithPaperHeight(size[1]).
		WithMarginTop(o.Margins.Top).
		WithMarginBottom(o.Margins.Bottom).
		WithMarginLeft(o.Margins.Left).
		WithMarginRight(o.Margins.Right)

	footer := o.FooterHTML
	if o.PageNumbers {
		footer += `<div style="font-size:8px;width:100%;text-align:right;padding-right:0.5in">` +
			`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
	}
	if footer != "" {
		params = params.
			WithDisplayHeaderFooter(true).
			WithHeaderTemplate("<span></span>").
			WithFooterTemplate(footer)
	}
	return params
}

func (r *PDFRenderer) RenderPDF(ctx context.Context, html string, opts *reporting.RenderOptions) ([]byte, error) {
	if html == "" {
		return nil, errors.InvalidParam("html is required")
	}

	tabCtx, cancelTab := chromedp.NewContext(r.allocCtx)
	defer cancelTab()
	tabCtx, cancel := context.WithTimeout(tabCtx, r.timeout)
	defer cancel()

	// Abort the tab when the caller goes away.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	start := time.Now()
	var buf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = PrintParams(opts).Do(ctx)
			return err
		}),
	)
	if err != nil {
		r.logger.Error("pdf print failed", logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeSDSRender, "failed to print pdf")
	}

	r.logger.Debug("pdf printed",
		logging.Int("bytes", len(buf)),
		logging.Int64("duration_ms", time.Since(start).Milliseconds()))
	return buf, nil
}

// Close shuts the browser down.
func (r *PDFRenderer) Close() error {
	r.cancelAlloc()
	return nil
}

//Personal.AI order the ending
