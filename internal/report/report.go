package report

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spacesedan/sentireport/internal/models"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"
)

const (
	PAGE_WIDTH  = 8 * vg.Inch
	PAGE_HEIGHT = 6 * vg.Inch
	PAGE_COUNT  = 3
)

// Input is everything the report draws.
type Input struct {
	Aggregate models.Aggregate
	// Texts are the collected document bodies; they feed the word cloud.
	Texts []string
}

type page func(dc draw.Canvas, in Input) error

// Renderer draws the three report pages into one PDF.
type Renderer struct {
	Width    vg.Length
	Height   vg.Length
	MaxWords int
}

func NewRenderer() *Renderer {
	return &Renderer{
		Width:    PAGE_WIDTH,
		Height:   PAGE_HEIGHT,
		MaxWords: MAX_CLOUD_WORDS,
	}
}

// Render writes the PDF to w and returns the number of pages drawn.
func (r *Renderer) Render(w io.Writer, in Input) (int, error) {
	pages := []page{
		drawSentenceChart,
		drawDocumentHistogram,
		r.drawWordCloud,
	}

	c := vgpdf.New(r.Width, r.Height)
	for i, drawPage := range pages {
		if i > 0 {
			c.NextPage()
		}
		if err := drawPage(draw.New(c), in); err != nil {
			return i, fmt.Errorf("[Report] failed to draw page %d: %w", i+1, err)
		}
	}

	if _, err := c.WriteTo(w); err != nil {
		return 0, fmt.Errorf("[Report] failed to write pdf: %w", err)
	}
	return len(pages), nil
}

// RenderFile renders into path. The file is closed whether or not rendering
// succeeds.
func (r *Renderer) RenderFile(path string, in Input) (int, error) {
	var buf bytes.Buffer
	pages, renderErr := r.Render(&buf, in)

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("[Report] failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Error("[Report] failed to close report file",
				slog.String("path", path),
				slog.String("error", cerr.Error()))
		}
	}()

	if renderErr != nil {
		return pages, renderErr
	}
	if _, err := buf.WriteTo(f); err != nil {
		return 0, fmt.Errorf("[Report] failed to write %s: %w", path, err)
	}

	slog.Info("[Report] Report written",
		slog.String("path", path),
		slog.Int("pages", pages))
	return pages, nil
}
