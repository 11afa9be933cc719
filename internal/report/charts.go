package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	SENTENCE_CHART_TITLE = "Distribution of Sentiments with Highest Score in Each Sentence"
	HISTOGRAM_TITLE      = "Sentiment Analysis Distribution"

	BAR_WIDTH       = 1.5 * vg.Inch
	HISTOGRAM_WIDTH = 2 * vg.Inch
)

var (
	SkyBlue    = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	LightGreen = color.RGBA{R: 144, G: 238, B: 144, A: 255}
	Salmon     = color.RGBA{R: 250, G: 128, B: 114, A: 255}
)

// bar is one category on a chart's x axis.
type bar struct {
	Label string
	Value float64
	Fill  color.Color
	Edge  draw.LineStyle
}

func drawSentenceChart(dc draw.Canvas, in Input) error {
	counts := in.Aggregate.SentenceCounts
	bars := []bar{
		{Label: "Positive", Value: float64(counts.Positive), Fill: SkyBlue},
		{Label: "Neutral", Value: float64(counts.Neutral), Fill: LightGreen},
		{Label: "Negative", Value: float64(counts.Negative), Fill: Salmon},
	}
	p, err := newBarPlot(SENTENCE_CHART_TITLE, bars, BAR_WIDTH)
	if err != nil {
		return err
	}

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	grid.Horizontal.Color = color.Gray{Y: 160}
	p.Add(grid)

	p.Draw(dc)
	return nil
}

func drawDocumentHistogram(dc draw.Canvas, in Input) error {
	counts := in.Aggregate.DocumentCounts
	edge := draw.LineStyle{Color: color.Black, Width: vg.Points(1.2)}
	bars := []bar{
		{Label: "Negative", Value: float64(counts.Negative), Fill: SkyBlue, Edge: edge},
		{Label: "Neutral", Value: float64(counts.Neutral), Fill: SkyBlue, Edge: edge},
		{Label: "Positive", Value: float64(counts.Positive), Fill: SkyBlue, Edge: edge},
	}
	p, err := newBarPlot(HISTOGRAM_TITLE, bars, HISTOGRAM_WIDTH)
	if err != nil {
		return err
	}
	p.Draw(dc)
	return nil
}

// newBarPlot puts one bar per category at x = 0..n-1 and names the ticks.
func newBarPlot(title string, bars []bar, width vg.Length) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Sentiment"
	p.Y.Label.Text = "Count"

	names := make([]string, 0, len(bars))
	maxValue := 0.0
	for i, b := range bars {
		chart, err := plotter.NewBarChart(plotter.Values{b.Value}, width)
		if err != nil {
			return nil, fmt.Errorf("[Report] failed to build bar %q: %w", b.Label, err)
		}
		chart.XMin = float64(i)
		chart.Color = b.Fill
		chart.LineStyle = b.Edge
		if chart.LineStyle.Color == nil {
			// no visible edge: outline in the fill color
			chart.LineStyle = draw.LineStyle{Color: b.Fill, Width: vg.Points(0.5)}
		}
		p.Add(chart)

		names = append(names, b.Label)
		maxValue = math.Max(maxValue, b.Value)
	}
	p.NominalX(names...)

	p.X.Min = -0.5
	p.X.Max = float64(len(bars)) - 0.5
	p.Y.Min = 0
	p.Y.Max = math.Max(1, maxValue*1.05)
	return p, nil
}
