package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/yuhsinlo/execprofile/constants"
	"github.com/yuhsinlo/execprofile/internal/normalize"
)

// Sheet is the read side of the spreadsheet layer the renderer needs.
type Sheet interface {
	Get(row int, col string) string
	HasRow(row int) bool
}

// Renderer produces one slide document per row.
type Renderer struct {
	tmpl      *template.Template
	meta      *Meta
	outDir    string
	client    *http.Client
	logger    *slog.Logger
	skipFetch bool // set in tests to keep the placeholder image
}

// NewRenderer loads the slide template and its region metadata.
func NewRenderer(templatePath, regionsPath, outDir string, fetchTimeout time.Duration, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	meta, err := LoadMeta(regionsPath)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", templatePath, err)
	}

	r := &Renderer{
		meta:   meta,
		outDir: outDir,
		client: &http.Client{Timeout: fetchTimeout},
		logger: logger,
	}

	tmpl := template.New(filepath.Base(templatePath)).Funcs(template.FuncMap{
		// region resolves a template region id against the metadata;
		// an undeclared id aborts execution so the row fails loudly.
		"region": func(data slideData, id string) (template.HTML, error) {
			return r.renderRegion(data, id)
		},
	})
	if tmpl, err = tmpl.Parse(string(raw)); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", templatePath, err)
	}
	r.tmpl = tmpl
	return r, nil
}

type slideData struct {
	Name     string
	Age      string
	PhotoURL template.URL // data URL or "" for the placeholder
	values   map[string]string
	meta     *Meta
}

// HasPhoto reports whether a photo was embedded.
func (d slideData) HasPhoto() bool { return d.PhotoURL != "" }

// AgeSuffix renders the header age as "（55歲）" or nothing.
func (d slideData) AgeSuffix() string {
	if d.Age == "" {
		return ""
	}
	return fmt.Sprintf("（%s歲）", d.Age)
}

// RenderRow writes one slide document and returns its path.
func (r *Renderer) RenderRow(ctx context.Context, s Sheet, row int) (string, error) {
	if !s.HasRow(row) {
		return "", fmt.Errorf("row %d is outside the data area", row)
	}
	name := normalize.Clean(s.Get(row, constants.ColName))
	if name == "" {
		return "", fmt.Errorf("row %d has no name", row)
	}

	start := time.Now()
	values := map[string]string{}
	for _, col := range constants.EnrichableColumns {
		values[col] = normalize.Clean(s.Get(row, col))
	}

	data := slideData{
		Name:   name,
		Age:    values[constants.ColAge],
		values: values,
		meta:   r.meta,
	}
	if photoURL := values[constants.ColPhoto]; photoURL != "" {
		data.PhotoURL = r.fetchPhoto(ctx, photoURL)
	}

	company := normalize.Clean(s.Get(row, constants.ColCompany))
	dir := filepath.Join(r.outDir, constants.FolderName(values[constants.ColCategory]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", dir, err)
	}
	outPath := filepath.Join(dir, documentName(name, company))

	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create document %s: %w", outPath, err)
	}
	defer func() { _ = f.Close() }()

	if err := r.tmpl.Execute(f, data); err != nil {
		return "", fmt.Errorf("render row %d: %w", row, err)
	}

	r.logger.Info("render.row.done",
		"row", row, "name", name, "path", outPath,
		"photo_embedded", data.HasPhoto(),
		"elapsed_ms", time.Since(start).Milliseconds())
	return outPath, nil
}

// renderRegion builds the label/content block for one region id.
func (r *Renderer) renderRegion(data slideData, id string) (template.HTML, error) {
	region, err := data.meta.Region(id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(`<div class="region" id="region-`)
	template.HTMLEscape(&b, []byte(region.ID))
	b.WriteString(`">`)
	if region.Label != "" {
		b.WriteString(`<span class="label">`)
		template.HTMLEscape(&b, []byte(region.Label))
		b.WriteString(`：</span>`)
	}

	var lines []string
	for _, field := range region.Fields {
		v := data.values[field]
		if v == "" {
			continue
		}
		if region.Multiline {
			lines = append(lines, strings.Split(v, "\n")...)
		} else {
			lines = append(lines, strings.ReplaceAll(v, "\n", " "))
		}
	}
	if len(lines) == 0 {
		lines = []string{data.meta.EmptyText}
	}

	b.WriteString(`<div class="content">`)
	for i, line := range lines {
		if i > 0 {
			b.WriteString("<br>")
		}
		template.HTMLEscape(&b, []byte(line))
	}
	b.WriteString(`</div></div>`)
	return template.HTML(b.String()), nil
}

// fetchPhoto downloads the photo and returns it as a data URL. Any
// failure (timeout, non-image content type, bad status) returns "" and
// the template keeps its placeholder image.
func (r *Renderer) fetchPhoto(ctx context.Context, rawURL string) template.URL {
	if r.skipFetch {
		return ""
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		r.logger.Warn("render.photo.fetch_failed", "url", rawURL, "error", err)
		return ""
	}
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("render.photo.fetch_failed", "url", rawURL, "error", err)
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("render.photo.fetch_failed", "url", rawURL, "status", resp.StatusCode)
		return ""
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		r.logger.Warn("render.photo.not_an_image", "url", rawURL, "content_type", contentType)
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		r.logger.Warn("render.photo.fetch_failed", "url", rawURL, "error", err)
		return ""
	}
	encoded := base64.StdEncoding.EncodeToString(body)
	return template.URL(fmt.Sprintf("data:%s;base64,%s", contentType, encoded))
}

// documentName derives the output file name: the person's first name
// token plus a short company token, filesystem-hostile characters
// stripped.
func documentName(name, company string) string {
	nameToken := firstToken(name)
	companyToken := shortCompany(company)

	base := nameToken
	if companyToken != "" {
		base += "_" + companyToken
	}
	return sanitizeFilename(base) + "_CV.html"
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}
	return fields[0]
}

// shortCompany picks the most recognisable company token: the last one
// for CJK names ("台灣 積體電路 製造" reads company-last), the first
// otherwise.
func shortCompany(company string) string {
	fields := strings.Fields(company)
	if len(fields) == 0 {
		return ""
	}
	if isCJK(fields[len(fields)-1]) {
		return fields[len(fields)-1]
	}
	return fields[0]
}

func isCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return -1
		}
		return r
	}, s)
}
