// Package renderer renders analysis results as markdown reports.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/returns"
)

//go:embed templates/*.md
var templates embed.FS

// funcs are available in every template.
var funcs = template.FuncMap{
	"rate": func(r float64) string { return returns.Rate(r).String() },
	"signedRate": func(r float64) string {
		return returns.Rate(r).SignedString()
	},
}

// RenderAnalysis renders a full analysis to a markdown string.
func RenderAnalysis(a *returns.Analysis) string {
	partials := map[string]string{
		"analysis_title":   "analysis_title.md",
		"analysis_summary": "analysis_summary.md",
		"analysis_returns": "analysis_returns.md",
		"analysis_symbols": "analysis_symbols.md",
		"twr_periods":      "twr_periods.md",
	}
	return renderTemplate("analysis", "analysis.md", partials, a)
}

// RenderHoldings renders the holdings of a valuation to a markdown string.
func RenderHoldings(v returns.Valuation) string {
	return renderTemplate("holdings", "holdings.md", nil, v)
}

// RenderTWR renders a time-weighted return and its sub-periods.
func RenderTWR(twr returns.TWR, until returns.Date) string {
	data := struct {
		returns.TWR
		Until returns.Date
	}{twr, until}
	partials := map[string]string{"twr_periods": "twr_periods.md"}
	return renderTemplate("twr", "twr.md", partials, data)
}

// RenderBenchmark renders the returns of a benchmark symbol.
func RenderBenchmark(symbol string, on returns.Date, rs []returns.BenchmarkReturn) string {
	data := struct {
		Symbol  string
		On      returns.Date
		Returns []returns.BenchmarkReturn
	}{symbol, on, rs}
	return renderTemplate("benchmark", "benchmark.md", nil, data)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
