package client

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"vista/internal/summary"
)

var (
	barColor   = color.NRGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}
	labelColor = color.NRGBA{R: 0x47, G: 0x55, B: 0x69, A: 0xff}
)

// BarChart draws the category distribution as vertical bars. The bars keep
// the distribution's descending-frequency order left to right.
type BarChart struct {
	widget.BaseWidget
	data summary.Distribution
}

func NewBarChart(data summary.Distribution) *BarChart {
	chart := &BarChart{data: data}
	chart.ExtendBaseWidget(chart)
	return chart
}

func (b *BarChart) SetData(data summary.Distribution) {
	b.data = data
	b.Refresh()
}

func (b *BarChart) CreateRenderer() fyne.WidgetRenderer {
	return &barChartRenderer{chart: b}
}

type barChartRenderer struct {
	chart   *BarChart
	bars    []*canvas.Rectangle
	labels  []*canvas.Text
	counts  []*canvas.Text
	objects []fyne.CanvasObject
}

func (r *barChartRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 200)
}

func (r *barChartRenderer) Layout(size fyne.Size) {
	r.rebuild()

	n := len(r.chart.data)
	if n == 0 {
		return
	}

	maxCount := 0
	for _, vc := range r.chart.data {
		if vc.Count > maxCount {
			maxCount = vc.Count
		}
	}
	if maxCount == 0 {
		return
	}

	const labelHeight = 18
	slot := size.Width / float32(n)
	barWidth := slot * 0.6
	plotHeight := size.Height - 2*labelHeight

	for i, vc := range r.chart.data {
		barHeight := plotHeight * float32(vc.Count) / float32(maxCount)
		x := float32(i)*slot + (slot-barWidth)/2
		y := labelHeight + (plotHeight - barHeight)

		r.bars[i].Move(fyne.NewPos(x, y))
		r.bars[i].Resize(fyne.NewSize(barWidth, barHeight))

		r.counts[i].Move(fyne.NewPos(x, y-labelHeight))
		r.counts[i].Resize(fyne.NewSize(barWidth, labelHeight))

		r.labels[i].Move(fyne.NewPos(float32(i)*slot, size.Height-labelHeight))
		r.labels[i].Resize(fyne.NewSize(slot, labelHeight))
	}
}

func (r *barChartRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.chart)
}

func (r *barChartRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *barChartRenderer) Destroy() {}

// rebuild recreates the canvas primitives to match the current data.
func (r *barChartRenderer) rebuild() {
	n := len(r.chart.data)
	r.bars = make([]*canvas.Rectangle, n)
	r.labels = make([]*canvas.Text, n)
	r.counts = make([]*canvas.Text, n)
	r.objects = r.objects[:0]

	for i, vc := range r.chart.data {
		bar := canvas.NewRectangle(barColor)
		label := canvas.NewText(vc.Value, labelColor)
		label.Alignment = fyne.TextAlignCenter
		label.TextSize = 11
		count := canvas.NewText(fmt.Sprintf("%d", vc.Count), labelColor)
		count.Alignment = fyne.TextAlignCenter
		count.TextSize = 11

		r.bars[i] = bar
		r.labels[i] = label
		r.counts[i] = count
		r.objects = append(r.objects, bar, label, count)
	}
}
