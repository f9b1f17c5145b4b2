package charts

import (
	"errors"
	"fmt"
	"html"
)

// EChartsScriptURL is the ECharts build every snippet expects on the page
const EChartsScriptURL = "https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"

// EChartsThemeURL registers the westeros theme the line chart uses
const EChartsThemeURL = "https://go-echarts.github.io/go-echarts-assets/assets/themes/westeros.js"

// NoDataMessage replaces a chart when either series is empty
const NoDataMessage = "No data available to plot"

// ErrNoData is returned when there is nothing to draw
var ErrNoData = errors.New("no data available to plot")

// ChartSnippet represents an embeddable ECharts chart fragment.
// Div contains a single root <div id="..." style="..."></div>.
// Script contains the <script>...</script> block that initializes the chart in that div.
// HTML contains the complete snippet with div + script combined for template substitution.
type ChartSnippet struct {
	ID     string
	Title  string
	Div    string
	Script string
	HTML   string
}

// newSnippet wraps an init body in the div/script pair. body runs with el
// bound to the chart's div and must leave the chart instance in c.
func newSnippet(id, title, height, body string) ChartSnippet {
	div := fmt.Sprintf("<div id=\"%s\" style=\"width:100%%;height:%s;\"></div>", id, height)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el)return;%s;window.addEventListener('resize',function(){c.resize();});})();</script>`, id, body)

	completeHTML := fmt.Sprintf(`<div class="chart-container">
	<h3>%s</h3>
	%s
</div>
%s`, html.EscapeString(title), div, script)

	return ChartSnippet{ID: id, Title: title, Div: div, Script: script, HTML: completeHTML}
}

// Placeholder is shown instead of a chart when there is no data
func Placeholder() ChartSnippet {
	div := fmt.Sprintf("<div class=\"no-data\">%s</div>", NoDataMessage)
	return ChartSnippet{ID: "no-data", Title: NoDataMessage, Div: div, HTML: div}
}
