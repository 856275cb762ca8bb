// Package report renders incident summaries as Markdown and HTML.
package report

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"ergosanitas/internal/domain/alert"
	"ergosanitas/internal/domain/incident"
	"ergosanitas/internal/domain/statistics"
)

// md escapes raw HTML in input; WithUnsafe is not set.
var md = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// HTML converts Markdown to HTML. On failure the escaped source is returned.
func HTML(src string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "<pre>" + html.EscapeString(src) + "</pre>"
	}
	return buf.String()
}

// Summary is the data behind an incident report.
type Summary struct {
	GeneratedAt   time.Time
	History       []incident.Incident
	Stats         statistics.Statistics
	SafetyScore   int
	MonthlyTrend  int
	DaysSinceLast int
}

// IncidentMarkdown renders a league-facing incident report.
func IncidentMarkdown(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Reporte de incidentes\n\nGenerado: %s\n\n", s.GeneratedAt.Format("2006-01-02 15:04"))

	b.WriteString("## Indicadores\n\n")
	fmt.Fprintf(&b, "- Total de incidentes: **%d**\n", s.Stats.Total)
	fmt.Fprintf(&b, "- Índice de seguridad: **%d**\n", s.SafetyScore)
	fmt.Fprintf(&b, "- Tendencia mensual: **%+d%%**\n", s.MonthlyTrend)
	if s.DaysSinceLast == statistics.NoIncidentDays {
		b.WriteString("- Días sin incidentes graves: **sin registros**\n")
	} else {
		fmt.Fprintf(&b, "- Días sin incidentes graves: **%d**\n", s.DaysSinceLast)
	}

	b.WriteString("\n## Por severidad\n\n| Leve | Moderada | Grave |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d |\n", s.Stats.ByLevel.Leve, s.Stats.ByLevel.Moderada, s.Stats.ByLevel.Grave)

	if len(s.Stats.BySport) > 0 {
		b.WriteString("\n## Por deporte\n\n| Deporte | Incidentes |\n|---|---|\n")
		for _, k := range sortedKeys(s.Stats.BySport) {
			fmt.Fprintf(&b, "| %s | %d |\n", cell(k), s.Stats.BySport[k])
		}
	}

	b.WriteString("\n## Últimos incidentes\n\n")
	if len(s.History) == 0 {
		b.WriteString("Sin incidentes registrados.\n")
		return b.String()
	}
	b.WriteString("| Fecha | Deportista | Club | Severidad | Estado |\n|---|---|---|---|---|\n")
	for _, inc := range s.History {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			inc.CreatedAt.Format("2006-01-02"),
			cell(inc.AthleteName), cell(inc.AthleteClub), cell(string(inc.Severity)), cell(inc.Status))
	}
	return b.String()
}

// AlertMarkdown renders the escalation message for an alert.
func AlertMarkdown(a alert.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Alerta %s (%s)\n\n", strings.ToUpper(string(a.Level)), a.Priority)
	fmt.Fprintf(&b, "- Ubicación: **%s**\n", a.Location)
	fmt.Fprintf(&b, "- Tipo: %s\n", a.Type)
	fmt.Fprintf(&b, "- Activada: %s\n", a.Timestamp.Format("2006-01-02 15:04:05"))
	if a.ActivatedBy != "" {
		fmt.Fprintf(&b, "- Por: %s\n", a.ActivatedBy)
	}
	if a.RelatedClub != nil {
		fmt.Fprintf(&b, "- Club: %s (%s, %s)\n", a.RelatedClub.Name, a.RelatedClub.Field, a.RelatedClub.Category)
	}
	fmt.Fprintf(&b, "\nID: `%s`\n", a.ID)
	return b.String()
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", "\\|")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
