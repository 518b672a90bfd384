package notify

import (
	"testing"
	"time"

	"fdf-monitor/internal/features/history"
	"fdf-monitor/internal/infra/fs"

	"github.com/stretchr/testify/assert"
)

func sampleRecord() fs.Record {
	return fs.NewRecord(time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC), 100, 40, 25)
}

func TestFormatTitle(t *testing.T) {
	assert.Equal(t, "$165.00", FormatTitle(165, nil))
	assert.Equal(t, "$165.00 +10.00%📈", FormatTitle(165, &history.Change{Percent: 10}))
	assert.Equal(t, "$90.00 -10.00%📉", FormatTitle(90, &history.Change{Percent: -10}))
	assert.Equal(t, "$100.00 +0.00%📈", FormatTitle(100, &history.Change{Percent: 0}))
}

func TestBuildMessage(t *testing.T) {
	msg := BuildMessage("mz", sampleRecord(), &history.Change{Percent: 10})

	assert.Equal(t, "mz", msg.Portfolio)
	assert.Equal(t, "$165.00 +10.00%📈", msg.Title)
	assert.Equal(t, "----------------------\nBalance: $100.00\nGold: $40.00\nHoldings: $25.00", msg.Body)
	assert.Empty(t, msg.ChartPath)
}

func TestFormatHTMLEscapes(t *testing.T) {
	out := FormatHTML(Message{Portfolio: "a<b", Title: "$1.00", Body: "x & y"})
	assert.Equal(t, "<b>a&lt;b</b> <b>$1.00</b>\n<pre>x &amp; y</pre>", out)
}
