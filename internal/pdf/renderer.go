package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/signintech/gopdf"

	"github.com/techadmin009/resumegenie/core/logger"
	"github.com/techadmin009/resumegenie/internal/domain"
)

const (
	pageWidth  = 595.0
	pageHeight = 842.0

	marginLeft  = 50.0
	marginRight = 50.0
	marginTop   = 50.0
	marginBot   = 60.0

	fontRegular = "regular"
	fontBold    = "bold"

	watermarkText = "Created with ResumeGenie"
)

// Config points the renderer at its TTF font files.
type Config struct {
	FontDir     string
	FontRegular string
	FontBold    string
}

// Renderer produces resume PDFs with gopdf.
type Renderer struct {
	regularPath string
	boldPath    string
}

// New constructs a Renderer. Fonts are loaded per document since gopdf
// instances are single use.
func New(cfg Config) *Renderer {
	return &Renderer{
		regularPath: filepath.Join(cfg.FontDir, cfg.FontRegular),
		boldPath:    filepath.Join(cfg.FontDir, cfg.FontBold),
	}
}

// Render produces the PDF bytes for a resume. Premium templates requested
// without an active subscription are downgraded to the basic layout, and
// non-premium output carries a watermark.
func (r *Renderer) Render(ctx context.Context, res domain.Resume, tpl domain.Template, premium bool) ([]byte, error) {
	if tpl.Premium() && !premium {
		logger.PDF.LogAttrs(ctx, slog.LevelInfo, "template downgraded",
			slog.String("event", "render.downgrade"),
			slog.String("template", string(tpl)),
		)
		tpl = domain.TemplateBasic
	}

	start := time.Now()
	doc, err := r.newDocument()
	if err != nil {
		return nil, err
	}

	doc.applyStyle(styleFor(tpl))
	if err := doc.renderResume(res); err != nil {
		return nil, fmt.Errorf("render %s: %w", tpl, err)
	}
	if !premium {
		doc.watermark(watermarkText)
	}

	out, err := doc.pdf.GetBytesPdfReturnErr()
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", tpl, err)
	}

	logger.PDF.LogAttrs(ctx, slog.LevelInfo, "resume rendered",
		slog.String("event", "render"),
		slog.String("template", string(tpl)),
		slog.Int("bytes", len(out)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return out, nil
}

// Preview renders a template using example data, without a watermark, so
// premium users can compare layouts before choosing.
func (r *Renderer) Preview(ctx context.Context, tpl domain.Template) ([]byte, error) {
	return r.Render(ctx, ExampleResume(), tpl, true)
}

func (r *Renderer) newDocument() (*document, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})

	if err := pdf.AddTTFFont(fontRegular, r.regularPath); err != nil {
		return nil, fmt.Errorf("load font %s: %w", r.regularPath, err)
	}
	if err := pdf.AddTTFFont(fontBold, r.boldPath); err != nil {
		return nil, fmt.Errorf("load font %s: %w", r.boldPath, err)
	}

	pdf.AddPage()
	return &document{pdf: pdf, y: marginTop}, nil
}

type document struct {
	pdf   *gopdf.GoPdf
	style style
	y     float64
}

func (d *document) applyStyle(s style) {
	d.style = s
}

func (d *document) renderResume(res domain.Resume) error {
	if err := d.header(res.Name, contactLine(res.Contact)); err != nil {
		return err
	}

	sections := []struct {
		title string
		body  string
	}{
		{d.style.titles.summary, res.Summary},
		{d.style.titles.education, res.Education},
		{d.style.titles.experience, res.Experience},
		{d.style.titles.skills, res.Skills},
	}
	for _, sec := range sections {
		if sec.body == "" {
			continue
		}
		if err := d.section(sec.title, sec.body); err != nil {
			return err
		}
	}
	return nil
}

// contactLine normalizes "|"-separated contact parts into a tidy single line.
func contactLine(raw string) string {
	parts := strings.Split(raw, "|")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " | ")
}

func (d *document) header(name, contact string) error {
	s := d.style

	if s.headerFill != nil {
		d.pdf.SetFillColor(s.headerFill.r, s.headerFill.g, s.headerFill.b)
		d.pdf.RectFromUpperLeftWithStyle(0, 0, pageWidth, 90, "F")
		d.y = 32
	}

	d.pdf.SetTextColor(s.name.r, s.name.g, s.name.b)
	if err := d.centered(fontBold, s.nameSize, name); err != nil {
		return err
	}
	d.y += 6

	d.pdf.SetTextColor(s.contact.r, s.contact.g, s.contact.b)
	if err := d.centered(fontRegular, 10, contact); err != nil {
		return err
	}
	d.y += 14

	if s.headerFill != nil && d.y < 110 {
		d.y = 110
	}
	if s.headerRule {
		d.pdf.SetStrokeColor(s.accent.r, s.accent.g, s.accent.b)
		d.pdf.SetLineWidth(s.ruleWidth)
		d.pdf.Line(marginLeft, d.y, pageWidth-marginRight, d.y)
		d.y += 16
	}
	return nil
}

func (d *document) section(title, body string) error {
	d.ensureSpace(40)

	d.pdf.SetTextColor(d.style.accent.r, d.style.accent.g, d.style.accent.b)
	if err := d.pdf.SetFont(fontBold, "", d.style.sectionSize); err != nil {
		return err
	}
	d.pdf.SetXY(marginLeft, d.y)
	if err := d.pdf.Text(title); err != nil {
		return err
	}
	d.y += 6

	if d.style.sectionRule {
		d.pdf.SetStrokeColor(d.style.accent.r, d.style.accent.g, d.style.accent.b)
		d.pdf.SetLineWidth(d.style.ruleWidth)
		d.pdf.Line(marginLeft, d.y, pageWidth-marginRight, d.y)
	}
	d.y += 14

	d.pdf.SetTextColor(d.style.body.r, d.style.body.g, d.style.body.b)
	if err := d.paragraph(fontRegular, 10.5, body); err != nil {
		return err
	}
	d.y += 16
	return nil
}

func (d *document) centered(font string, size float64, text string) error {
	if err := d.pdf.SetFont(font, "", size); err != nil {
		return err
	}
	width, err := d.pdf.MeasureTextWidth(text)
	if err != nil {
		return err
	}
	d.pdf.SetXY((pageWidth-width)/2, d.y)
	if err := d.pdf.Text(text); err != nil {
		return err
	}
	d.y += size + 4
	return nil
}

func (d *document) paragraph(font string, size float64, text string) error {
	if err := d.pdf.SetFont(font, "", size); err != nil {
		return err
	}
	maxWidth := pageWidth - marginLeft - marginRight
	lines, err := d.pdf.SplitText(text, maxWidth)
	if err != nil {
		return err
	}
	lineHeight := size + 4
	for _, line := range lines {
		d.ensureSpace(lineHeight)
		d.pdf.SetXY(marginLeft, d.y)
		if err := d.pdf.Text(line); err != nil {
			return err
		}
		d.y += lineHeight
	}
	return nil
}

func (d *document) ensureSpace(needed float64) {
	if d.y+needed <= pageHeight-marginBot {
		return
	}
	d.pdf.AddPage()
	d.y = marginTop
}

func (d *document) watermark(text string) {
	if err := d.pdf.SetFont(fontRegular, "", 8); err != nil {
		return
	}
	d.pdf.SetTextColor(150, 150, 150)
	width, err := d.pdf.MeasureTextWidth(text)
	if err != nil {
		return
	}
	d.pdf.SetXY(pageWidth-marginRight-width, pageHeight-30)
	_ = d.pdf.Text(text)
}
