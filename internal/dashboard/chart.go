package dashboard

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/couchcryptid/climate-insights-dashboard/internal/domain"
)

// RenderChart writes a standalone HTML document drawing spec over records,
// with Year on the x axis. An empty record set draws empty axes.
func RenderChart(w io.Writer, spec domain.ChartSpec, records []domain.Record) error {
	years := make([]int, len(records))
	for i, r := range records {
		years[i] = r.Year
	}
	series := spec.Field.Column()

	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: spec.Title,
			Width:     "100%",
			Height:    "460px",
		}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: domain.ColumnYear}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.YLabel}),
	}

	switch spec.Kind {
	case domain.ChartLine, domain.ChartArea:
		data := make([]opts.LineData, len(records))
		for i, r := range records {
			data[i] = opts.LineData{Value: r.Value(spec.Field)}
		}
		var seriesOpts []charts.SeriesOpts
		if spec.Kind == domain.ChartArea {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.4)}))
		}
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(years).AddSeries(series, data, seriesOpts...)
		return line.Render(w)

	case domain.ChartBar:
		data := make([]opts.BarData, len(records))
		for i, r := range records {
			data[i] = opts.BarData{Value: r.Value(spec.Field)}
		}
		bar := charts.NewBar()
		bar.SetGlobalOptions(global...)
		bar.SetXAxis(years).AddSeries(series, data)
		return bar.Render(w)

	case domain.ChartScatter:
		data := make([]opts.ScatterData, len(records))
		for i, r := range records {
			data[i] = opts.ScatterData{Value: r.Value(spec.Field)}
		}
		scatter := charts.NewScatter()
		scatter.SetGlobalOptions(global...)
		scatter.SetXAxis(years).AddSeries(series, data)
		return scatter.Render(w)
	}
	return fmt.Errorf("unsupported chart kind %q", spec.Kind)
}
