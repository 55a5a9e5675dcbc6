// Package charts builds Plotly figures for query results and renders them
// as embeddable HTML fragments. The page shell is expected to load
// plotly.js.
package charts

import (
	"encoding/json"
	"fmt"
	"html"

	"github.com/google/uuid"

	"retail-analytics/models"
)

// Trace is one Plotly data series.
type Trace map[string]any

// Figure is a Plotly figure: data series plus layout.
type Figure struct {
	Data   []Trace        `json:"data"`
	Layout map[string]any `json:"layout"`
}

// HTML renders the figure into a div and a newPlot call.
func (f *Figure) HTML() (string, error) {
	data, err := json.Marshal(f.Data)
	if err != nil {
		return "", fmt.Errorf("marshal chart data: %w", err)
	}
	layout, err := json.Marshal(f.Layout)
	if err != nil {
		return "", fmt.Errorf("marshal chart layout: %w", err)
	}
	id := "chart-" + uuid.NewString()
	return fmt.Sprintf(`<div id="%[1]s" class="plotly-graph-div" style="height:100%%; width:100%%;"></div>
<script type="text/javascript">
  window.PLOTLYENV = window.PLOTLYENV || {};
  if (document.getElementById("%[1]s")) {
    Plotly.newPlot("%[1]s", %[2]s, %[3]s, {"responsive": true});
  }
</script>`, id, data, layout), nil
}

// Warning is shown in place of a chart when there is nothing to plot.
func Warning(label string) string {
	return `<div class="alert alert-warning">No data for ` + html.EscapeString(label) + `</div>`
}

func layout(title string, xTitle, yTitle string) map[string]any {
	l := map[string]any{
		"title":    map[string]any{"text": title},
		"template": "plotly_white",
		"margin":   map[string]any{"l": 60, "r": 30, "t": 60, "b": 60},
	}
	if xTitle != "" {
		l["xaxis"] = map[string]any{"title": map[string]any{"text": xTitle}}
	}
	if yTitle != "" {
		l["yaxis"] = map[string]any{"title": map[string]any{"text": yTitle}}
	}
	return l
}

func values(t *models.Table, column string) []any {
	idx := t.Index(column)
	if idx < 0 {
		return []any{}
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}

// numbers returns the named column for a value axis. Exact decimals that
// arrive as text are parsed so Plotly sees a numeric series; anything that
// does not parse becomes a gap.
func numbers(t *models.Table, column string) []any {
	out := values(t, column)
	for i, v := range out {
		switch v.(type) {
		case nil, int64, float64:
			continue
		}
		if f, ok := models.CellFloat(v); ok {
			out[i] = f
		} else {
			out[i] = nil
		}
	}
	return out
}

// HorizontalBar ranks categories along y by the value column on x. When
// colorBy is set, one series is drawn per distinct value of that column.
func HorizontalBar(t *models.Table, value, category, colorBy, title string) *Figure {
	fig := &Figure{Layout: layout(title, value, category)}
	fig.Layout["yaxis"] = map[string]any{"title": map[string]any{"text": category}, "autorange": "reversed"}
	if colorBy == "" || t.Index(colorBy) < 0 {
		fig.Data = []Trace{{
			"type":        "bar",
			"orientation": "h",
			"x":           numbers(t, value),
			"y":           values(t, category),
		}}
		return fig
	}

	groups := t.Strings(colorBy)
	xs := numbers(t, value)
	ys := values(t, category)
	order := []string{}
	byGroup := map[string]Trace{}
	for i, g := range groups {
		tr, ok := byGroup[g]
		if !ok {
			tr = Trace{"type": "bar", "orientation": "h", "name": g, "x": []any{}, "y": []any{}}
			byGroup[g] = tr
			order = append(order, g)
		}
		tr["x"] = append(tr["x"].([]any), xs[i])
		tr["y"] = append(tr["y"].([]any), ys[i])
	}
	for _, g := range order {
		fig.Data = append(fig.Data, byGroup[g])
	}
	fig.Layout["barmode"] = "stack"
	fig.Layout["legend"] = map[string]any{"title": map[string]any{"text": colorBy}}
	return fig
}

// Bar draws vertical bars of value per category.
func Bar(t *models.Table, category, value, title string) *Figure {
	return &Figure{
		Data: []Trace{{
			"type": "bar",
			"x":    values(t, category),
			"y":    numbers(t, value),
		}},
		Layout: layout(title, category, value),
	}
}

// Line draws value over an ordered x column.
func Line(t *models.Table, x, value, title string) *Figure {
	return &Figure{
		Data: []Trace{{
			"type": "scatter",
			"mode": "lines+markers",
			"x":    values(t, x),
			"y":    numbers(t, value),
		}},
		Layout: layout(title, x, value),
	}
}

// DensityHeatmap sums z over a binned x × y grid.
func DensityHeatmap(t *models.Table, x, y, z string, binsX, binsY int, title string) *Figure {
	return &Figure{
		Data: []Trace{{
			"type":       "histogram2d",
			"histfunc":   "sum",
			"x":          numbers(t, x),
			"y":          numbers(t, y),
			"z":          numbers(t, z),
			"nbinsx":     binsX,
			"nbinsy":     binsY,
			"colorscale": "Viridis",
		}},
		Layout: layout(title, x, y),
	}
}

// DualAxis overlays bars on the primary axis with a line on a secondary
// right-hand axis, both sharing the category column.
func DualAxis(t *models.Table, category, barValue, barName, lineValue, lineName, title string) *Figure {
	l := layout(title, category, "")
	l["yaxis"] = map[string]any{"title": map[string]any{"text": barName}}
	l["yaxis2"] = map[string]any{
		"title":      map[string]any{"text": lineName},
		"overlaying": "y",
		"side":       "right",
	}
	return &Figure{
		Data: []Trace{
			{
				"type":   "bar",
				"name":   barName,
				"x":      values(t, category),
				"y":      numbers(t, barValue),
				"marker": map[string]any{"color": "skyblue"},
				"yaxis":  "y",
			},
			{
				"type":   "scatter",
				"name":   lineName,
				"x":      values(t, category),
				"y":      numbers(t, lineValue),
				"marker": map[string]any{"color": "blue"},
				"yaxis":  "y2",
			},
		},
		Layout: l,
	}
}

// Render returns the chart HTML for a non-empty table, or the warning
// fragment when the table is empty.
func Render(t *models.Table, label string, build func(*models.Table) *Figure) (string, error) {
	if t.Empty() {
		return Warning(label), nil
	}
	return build(t).HTML()
}
