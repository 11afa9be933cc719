package report

import (
	"image/color"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/spacesedan/sentireport/internal/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	MAX_CLOUD_WORDS = 200
	MAX_FONT_SIZE   = 64.0
	MIN_FONT_SIZE   = 6.0
	FONT_SHRINK     = 0.8
	CLOUD_MARGIN    = 2.0
	// SPIRAL_PITCH is the radius gained per radian; SPIRAL_STEP is the
	// arc length between candidate positions, in points.
	SPIRAL_PITCH = 3.0
	SPIRAL_STEP  = 4.0
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{N}_']+`)

var cloudPalette = []color.Color{
	color.RGBA{R: 68, G: 1, B: 84, A: 255},
	color.RGBA{R: 59, G: 82, B: 139, A: 255},
	color.RGBA{R: 33, G: 145, B: 140, A: 255},
	color.RGBA{R: 94, G: 201, B: 98, A: 255},
	color.RGBA{R: 190, G: 170, B: 20, A: 255},
}

type WordCount struct {
	Word  string
	Count int
}

// WordFrequencies counts the words of text, most frequent first. Ties are
// broken alphabetically and at most maxWords entries are returned.
func WordFrequencies(text string, maxWords int) []WordCount {
	counts := map[string]int{}
	for _, token := range wordPattern.FindAllString(text, -1) {
		word := strings.ToLower(token)
		word = strings.TrimSuffix(word, "'s")
		word = strings.Trim(word, "'")
		if len([]rune(word)) < 2 || isNumber(word) || IsStopWord(word) {
			continue
		}
		counts[word]++
	}

	// fold plurals into their singular when both forms occur
	for word, n := range counts {
		if !strings.HasSuffix(word, "s") || strings.HasSuffix(word, "ss") {
			continue
		}
		singular := strings.TrimSuffix(word, "s")
		if _, ok := counts[singular]; ok {
			counts[singular] += n
			delete(counts, word)
		}
	}

	freqs := make([]WordCount, 0, len(counts))
	for word, n := range counts {
		freqs = append(freqs, WordCount{Word: word, Count: n})
	}
	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].Count != freqs[j].Count {
			return freqs[i].Count > freqs[j].Count
		}
		return freqs[i].Word < freqs[j].Word
	})

	if maxWords > 0 && len(freqs) > maxWords {
		freqs = freqs[:maxWords]
	}
	return freqs
}

func isNumber(word string) bool {
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Measurer reports the width and height of word set at size.
type Measurer func(word string, size vg.Length) (vg.Length, vg.Length)

// PlacedWord is a word positioned in the cloud. Min is the bottom-left corner
// of its bounding box.
type PlacedWord struct {
	Word  string
	Size  vg.Length
	Min   vg.Point
	Width vg.Length
	// Height is the full line height of the word at Size.
	Height vg.Length
}

func (p PlacedWord) overlaps(o PlacedWord) bool {
	return p.Min.X < o.Min.X+o.Width && o.Min.X < p.Min.X+p.Width &&
		p.Min.Y < o.Min.Y+o.Height && o.Min.Y < p.Min.Y+p.Height
}

// Layout places words on an Archimedean spiral starting at the centre of a
// width x height area. A word that does not fit is retried at a smaller
// size and dropped once it falls under MIN_FONT_SIZE.
func Layout(freqs []WordCount, width, height vg.Length, measure Measurer) []PlacedWord {
	if len(freqs) == 0 {
		return nil
	}
	maxCount := float64(freqs[0].Count)
	center := vg.Point{X: width / 2, Y: height / 2}
	aspect := float64(height / width)
	maxRadius := math.Hypot(float64(width), float64(height)) / 2

	var placed []PlacedWord
	for _, wc := range freqs {
		size := MIN_FONT_SIZE + (MAX_FONT_SIZE-MIN_FONT_SIZE)*float64(wc.Count)/maxCount

		for ; size >= MIN_FONT_SIZE; size *= FONT_SHRINK {
			w, h := measure(wc.Word, vg.Length(size))
			if w > width-2*CLOUD_MARGIN || h > height-2*CLOUD_MARGIN {
				continue
			}
			if p, ok := findSpot(placed, wc.Word, vg.Length(size), w, h, center, aspect, maxRadius, width, height); ok {
				placed = append(placed, p)
				break
			}
		}
	}
	return placed
}

func findSpot(placed []PlacedWord, word string, size, w, h vg.Length, center vg.Point, aspect, maxRadius float64, width, height vg.Length) (PlacedWord, bool) {
	for t := 0.0; ; t += math.Min(0.5, SPIRAL_STEP/math.Max(SPIRAL_PITCH*t, 1)) {
		r := SPIRAL_PITCH * t
		if r > maxRadius {
			return PlacedWord{}, false
		}
		x := float64(center.X) + r*math.Cos(t) - float64(w)/2
		y := float64(center.Y) + r*aspect*math.Sin(t) - float64(h)/2

		candidate := PlacedWord{
			Word:   word,
			Size:   size,
			Min:    vg.Point{X: vg.Length(x), Y: vg.Length(y)},
			Width:  w,
			Height: h,
		}
		if candidate.Min.X < CLOUD_MARGIN || candidate.Min.Y < CLOUD_MARGIN ||
			candidate.Min.X+w > width-CLOUD_MARGIN || candidate.Min.Y+h > height-CLOUD_MARGIN {
			continue
		}
		collides := false
		for _, p := range placed {
			if candidate.overlaps(p) {
				collides = true
				break
			}
		}
		if !collides {
			return candidate, true
		}
	}
}

func cloudStyle(size vg.Length) text.Style {
	return text.Style{
		Color:   color.Black,
		Font:    font.Font{Typeface: "Liberation", Variant: "Sans", Size: size},
		XAlign:  draw.XLeft,
		YAlign:  draw.YBottom,
		Handler: plot.DefaultTextHandler,
	}
}

func textMeasurer(word string, size vg.Length) (vg.Length, vg.Length) {
	sty := cloudStyle(size)
	return sty.Width(word), sty.Height(word)
}

func (r *Renderer) drawWordCloud(dc draw.Canvas, in Input) error {
	plain := make([]string, 0, len(in.Texts))
	for _, t := range in.Texts {
		plain = append(plain, utils.ConvertMarkdownToText(t))
	}
	freqs := WordFrequencies(strings.Join(plain, " "), r.MaxWords)

	area := dc.Rectangle
	words := Layout(freqs, area.Max.X-area.Min.X, area.Max.Y-area.Min.Y, textMeasurer)
	if len(words) < len(freqs) {
		slog.Debug("[Report] Some words did not fit in the cloud",
			slog.Int("words", len(freqs)),
			slog.Int("placed", len(words)))
	}

	for i, w := range words {
		sty := cloudStyle(w.Size)
		sty.Color = cloudPalette[i%len(cloudPalette)]
		dc.FillText(sty, area.Min.Add(w.Min), w.Word)
	}
	return nil
}
