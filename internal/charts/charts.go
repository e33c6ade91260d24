package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/otherworld-codex/internal/stats"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	PageTitle string
	Width     string // e.g. "900px"
	Height    string
	Theme     string
	Colors    []string

	// MaxBars caps the bars of the encounter and trait charts. Zero
	// shows every entry.
	MaxBars int
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		PageTitle: "Otherworld Codex statistics",
		Width:     "900px",
		Height:    "500px",
		Theme:     "light",
		Colors:    []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE", "#3BA272", "#FC8452", "#9A60B4", "#EA7CCC"},
		MaxBars:   30,
	}
}

// heatColors runs from an empty cell to the row's largest cell.
var heatColors = []string{"#f7fbff", "#6baed6", "#08306b"}

func (c ChartConfig) globalOpts(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  c.Width,
			Height: c.Height,
			Theme:  c.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithColorsOpts(opts.Colors(c.Colors)),
	}
}

// TypePie charts the card count per type.
func TypePie(entries []stats.Entry, mode stats.CountMode, config ChartConfig) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(config.globalOpts("Card types", modeLabel(mode))...)

	data := make([]opts.PieData, len(entries))
	for i, e := range entries {
		data[i] = opts.PieData{Name: e.Name, Value: e.Value}
	}
	pie.AddSeries("Types", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c}",
			}),
		)
	return pie
}

// EntryBar charts a count list as horizontal-label bars, largest first.
func EntryBar(title string, entries []stats.Entry, mode stats.CountMode, config ChartConfig) *charts.Bar {
	if config.MaxBars > 0 && len(entries) > config.MaxBars {
		entries = entries[:config.MaxBars]
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(config.globalOpts(title, modeLabel(mode))...)
	bar.SetGlobalOptions(charts.WithXAxisOpts(opts.XAxis{
		AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"},
	}))

	labels := make([]string, len(entries))
	data := make([]opts.BarData, len(entries))
	for i, e := range entries {
		labels[i] = e.Name
		data[i] = opts.BarData{Value: e.Value}
	}
	bar.SetXAxis(labels).
		AddSeries(title, data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:     opts.Bool(true),
				Position: "top",
			}),
		)
	return bar
}

// TableHeatMap charts a stat table. Cell colour is the cell's intensity
// within its row, so rows with different totals stay comparable.
func TableHeatMap(title string, table stats.Table, mode stats.CountMode, config ChartConfig) *charts.HeatMap {
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(config.globalOpts(title, modeLabel(mode))...)

	rowNames := make([]string, len(table.Rows))
	for i, r := range table.Rows {
		rowNames[i] = r.Name
	}
	hm.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      rowNames,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: heatColors},
		}),
	)

	hm.SetXAxis(table.Keys).AddSeries(title, heatMapData(table)).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}",
			}),
		)
	return hm
}

// heatMapData lays the table out as [column, row, intensity] points named
// after the cell's count.
func heatMapData(table stats.Table) []opts.HeatMapData {
	data := make([]opts.HeatMapData, 0, len(table.Keys)*len(table.Rows))
	for y, row := range table.Rows {
		for x, key := range table.Keys {
			data = append(data, opts.HeatMapData{
				Name:  fmt.Sprint(row.Cells[key]),
				Value: [3]interface{}{x, y, row.Intensity(key)},
			})
		}
	}
	return data
}

// Page assembles the statistics view for a summary. Empty sections are
// left out.
func Page(s stats.Summary, config ChartConfig) *components.Page {
	page := components.NewPage()
	page.PageTitle = config.PageTitle
	page.SetLayout(components.PageFlexLayout)

	if len(s.Types) > 0 {
		page.AddCharts(TypePie(s.Types, s.Mode, config))
	}
	if len(s.Encounters) > 0 {
		page.AddCharts(EntryBar("Encounter sets", s.Encounters, s.Mode, config))
	}
	if len(s.Traits) > 0 {
		page.AddCharts(EntryBar("Traits", s.Traits, s.Mode, config))
	}
	if !s.Enemies.IsEmpty() {
		page.AddCharts(TableHeatMap("Enemies", s.Enemies, s.Mode, config))
	}
	if !s.Locations.IsEmpty() {
		page.AddCharts(TableHeatMap("Locations", s.Locations, s.Mode, config))
	}
	return page
}

// Render writes the statistics page for a summary as HTML.
func Render(w io.Writer, s stats.Summary, config ChartConfig) error {
	if err := Page(s, config).Render(w); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return nil
}

func modeLabel(mode stats.CountMode) string {
	if mode == stats.Total {
		return fmt.Sprintf("%s copies", mode)
	}
	return fmt.Sprintf("%s cards", mode)
}
