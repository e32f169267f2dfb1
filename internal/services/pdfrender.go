package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PdfRenderService turns a generated summary into a downloadable PDF via
// headless Chrome. Each render gets its own browser context so a crashed
// tab never poisons later renders.
type PdfRenderService struct {
	timeout time.Duration
}

func NewPdfRenderService(timeoutSeconds int) *PdfRenderService {
	return &PdfRenderService{timeout: time.Duration(timeoutSeconds) * time.Second}
}

// SummaryDocument is the printable shape of a pdf-summary artifact.
type SummaryDocument struct {
	Title             string
	Summary           string
	KeyPoints         []string
	ExamTips          []string
	PracticeQuestions []string
}

func (s *PdfRenderService) RenderSummaryPDF(ctx context.Context, doc SummaryDocument) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.NoSandbox,
			chromedp.Flag("disable-gpu", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	htmlDoc := BuildSummaryHTML(doc)

	var pdfBuf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlDoc).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("pdf render failed: %w", err)
	}

	return pdfBuf, nil
}

// BuildSummaryHTML lays out the summary as a printable page. All content
// is escaped; the model output is never trusted as markup.
func BuildSummaryHTML(doc SummaryDocument) string {
	var b strings.Builder

	title := doc.Title
	if title == "" {
		title = "Study Summary"
	}

	b.WriteString(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8">
<style>
  body { font-family: 'Segoe UI', Arial, sans-serif; color: #1e293b; margin: 40px; }
  h1 { font-size: 22px; border-bottom: 2px solid #0ea5e9; padding-bottom: 8px; }
  h2 { font-size: 16px; color: #0ea5e9; margin-top: 28px; }
  p { font-size: 13px; line-height: 1.6; }
  li { font-size: 13px; line-height: 1.6; margin-bottom: 4px; }
</style>
</head>
<body>
`)

	b.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(title)))

	for _, para := range strings.Split(doc.Summary, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("<p>%s</p>\n", html.EscapeString(para)))
	}

	writeSection := func(heading string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString(fmt.Sprintf("<h2>%s</h2>\n<ul>\n", heading))
		for _, item := range items {
			b.WriteString(fmt.Sprintf("<li>%s</li>\n", html.EscapeString(item)))
		}
		b.WriteString("</ul>\n")
	}

	writeSection("Key Points", doc.KeyPoints)
	writeSection("Exam Tips", doc.ExamTips)
	writeSection("Practice Questions", doc.PracticeQuestions)

	b.WriteString("</body>\n</html>\n")

	return b.String()
}
