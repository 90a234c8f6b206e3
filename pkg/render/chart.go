package render

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ConfidenceChart は信頼度を 0〜100 の横棒1本で表すグラフを組み立てます。
func ConfidenceChart(score float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       LabelConfidence,
			Width:           "600px",
			Height:          "160px",
			BackgroundColor: "#1e293b",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      LabelConfidence,
			TitleStyle: &opts.TextStyle{Color: "#94a3b8", FontSize: 12},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Min:       0,
			Max:       100,
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(false)},
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(false)},
		}),
	)

	bar.SetXAxis([]string{LabelConfidenceBar}).
		AddSeries(LabelConfidenceBar, []opts.BarData{{
			Value: ClampConfidence(score),
			ItemStyle: &opts.ItemStyle{
				Color: ConfidenceColor(score),
			},
		}})
	bar.XYReversal()
	return bar
}

// WriteConfidenceChart は信頼度グラフを HTML として書き出します。
func WriteConfidenceChart(w io.Writer, score float64) error {
	return ConfidenceChart(score).Render(w)
}
