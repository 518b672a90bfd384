package chart

// PNG line chart of a portfolio's total value over time.

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"fdf-monitor/internal/infra/fs"
	logging "fdf-monitor/internal/infra/log"

	"github.com/dustin/go-humanize"
	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

const (
	chartWidth  = 1600
	chartHeight = 900

	areaLeft   = 160.0
	areaRight  = 1540.0
	areaTop    = 140.0
	areaBottom = 780.0

	gridLines  = 5
	xLabels    = 6
	titleSize  = 40.0
	labelSize  = 22.0
	lineWidth  = 4.0
	pointLimit = 2000 // newest points kept on the chart
)

var (
	backgroundColor = color.RGBA{R: 16, G: 18, B: 24, A: 255}
	gridColor       = color.RGBA{R: 60, G: 64, B: 76, A: 255}
	textColor       = color.RGBA{R: 220, G: 222, B: 228, A: 255}
	upColor         = color.RGBA{R: 46, G: 204, B: 113, A: 255}
	downColor       = color.RGBA{R: 231, G: 76, B: 60, A: 255}
)

var fontPaths = []string{
	"etc/fonts/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
}

// RenderHistory draws records to a PNG at path and returns path.
func RenderHistory(records []fs.Record, title, path string) (string, error) {
	if len(records) < 2 {
		return "", fmt.Errorf("need at least 2 records to draw a chart, have %d", len(records))
	}
	if len(records) > pointLimit {
		records = records[len(records)-pointLimit:]
	}

	minV, maxV := records[0].TotalValue, records[0].TotalValue
	for _, r := range records {
		minV = min(minV, r.TotalValue)
		maxV = max(maxV, r.TotalValue)
	}
	if maxV == minV {
		maxV = minV + 1
	}
	pad := (maxV - minV) * 0.05
	minV, maxV = minV-pad, maxV+pad

	start, end := records[0].Timestamp, records[len(records)-1].Timestamp
	span := end.Sub(start)
	if span <= 0 {
		span = time.Second
	}

	xOf := func(t time.Time) float64 {
		return areaLeft + (areaRight-areaLeft)*float64(t.Sub(start))/float64(span)
	}
	yOf := func(v float64) float64 {
		return areaBottom - (areaBottom-areaTop)*(v-minV)/(maxV-minV)
	}

	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetColor(backgroundColor)
	dc.Clear()
	hasFont := loadFont(dc, labelSize)

	// grid and value labels
	dc.SetLineWidth(1)
	for i := 0; i <= gridLines; i++ {
		v := minV + (maxV-minV)*float64(i)/gridLines
		y := yOf(v)
		dc.SetColor(gridColor)
		dc.DrawLine(areaLeft, y, areaRight, y)
		dc.Stroke()
		dc.SetColor(textColor)
		dc.DrawStringAnchored("$"+humanize.CommafWithDigits(v, 0), areaLeft-15, y, 1, 0.5)
	}

	for i := 0; i <= xLabels; i++ {
		t := start.Add(span * time.Duration(i) / xLabels)
		dc.SetColor(textColor)
		dc.DrawStringAnchored(t.Format("01-02 15:04"), xOf(t), areaBottom+30, 0.5, 0.5)
	}

	lineColor := upColor
	if records[len(records)-1].TotalValue < records[0].TotalValue {
		lineColor = downColor
	}
	dc.SetColor(lineColor)
	dc.SetLineWidth(lineWidth)
	for i, r := range records {
		if i == 0 {
			dc.MoveTo(xOf(r.Timestamp), yOf(r.TotalValue))
			continue
		}
		dc.LineTo(xOf(r.Timestamp), yOf(r.TotalValue))
	}
	dc.Stroke()

	last := records[len(records)-1]
	dc.DrawCircle(xOf(last.Timestamp), yOf(last.TotalValue), 7)
	dc.Fill()

	if hasFont {
		loadFont(dc, titleSize)
	}
	dc.SetColor(textColor)
	dc.DrawStringAnchored(fmt.Sprintf("%s  $%s", title, humanize.CommafWithDigits(last.TotalValue, 2)), areaLeft, areaTop/2, 0, 0.5)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}
	if err := dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("failed to save chart: %w", err)
	}

	if info, err := os.Stat(path); err == nil {
		logging.LogInfo("Chart saved", zap.String("path", path), zap.String("size", humanize.Bytes(uint64(info.Size()))))
	}
	return path, nil
}

// loadFont tries the known font files; gg keeps its built-in face otherwise.
func loadFont(dc *gg.Context, size float64) bool {
	for _, p := range fontPaths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := dc.LoadFontFace(p, size); err == nil {
			return true
		}
	}
	return false
}
