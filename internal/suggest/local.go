package suggest

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fentz26/taskpulse/internal/models"
)

const (
	maxCategoryCandidates = 2
	maxDueDateCandidates  = 2
	categoryFallbackConf  = 0.4
	dueDateLayout         = "2006-01-02"
)

type categoryRule struct {
	Name     string
	Base     float64
	Keywords []string
}

// categoryTable maps categories to the words that signal them.
var categoryTable = []categoryRule{
	{"trabajo", 0.8, []string{"reunión", "jefe", "proyecto", "oficina", "cliente", "informe", "presentación", "email", "llamada", "trabajo"}},
	{"personal", 0.7, []string{"familia", "amigo", "amigos", "cumpleaños", "regalo", "fiesta", "cena", "personal", "vacaciones"}},
	{"salud", 0.85, []string{"médico", "cita médica", "dentista", "gimnasio", "ejercicio", "medicina", "hospital", "salud", "correr"}},
	{"estudio", 0.8, []string{"examen", "estudiar", "curso", "clase", "universidad", "libro", "leer", "apuntes"}},
	{"hogar", 0.75, []string{"limpiar", "casa", "cocinar", "lavar", "reparar", "jardín", "hogar", "ordenar"}},
	{"finanzas", 0.8, []string{"pagar", "factura", "banco", "impuestos", "presupuesto", "ahorro", "dinero", "finanzas"}},
	{"compras", 0.75, []string{"comprar", "supermercado", "tienda", "compras", "pedido", "leche", "pan"}},
}

type offsetRule struct {
	Days       int
	Confidence float64
}

// urgencyPhrases are explicit time references.
var urgencyPhrases = map[string]offsetRule{
	"hoy":                 {0, 0.9},
	"mañana":              {1, 0.9},
	"pasado mañana":       {2, 0.85},
	"esta semana":         {5, 0.7},
	"próxima semana":      {7, 0.75},
	"la semana que viene": {7, 0.75},
	"este mes":            {14, 0.6},
	"urgente":             {0, 0.8},
}

// taskTypePhrases are kinds of task with a typical lead time.
var taskTypePhrases = map[string]offsetRule{
	"cita médica":  {3, 0.7},
	"médico":       {3, 0.6},
	"dentista":     {5, 0.6},
	"examen":       {7, 0.75},
	"entrega":      {5, 0.7},
	"reunión":      {2, 0.6},
	"pagar":        {5, 0.65},
	"factura":      {5, 0.65},
	"comprar":      {2, 0.5},
	"presentación": {5, 0.65},
	"viaje":        {14, 0.5},
}

// categoryOffsets is the fallback lead time when no phrase matches.
var categoryOffsets = map[string]int{
	"trabajo":  3,
	"personal": 7,
	"salud":    5,
	"estudio":  7,
	"hogar":    5,
	"finanzas": 5,
	"compras":  2,
}

type priorityRule struct {
	Level    models.Priority
	Base     float64
	Keywords []string
}

// priorityTable is checked in order; the first level with a match wins.
var priorityTable = []priorityRule{
	{models.PriorityHigh, 0.85, []string{"urgente", "importante", "crítico", "asap", "inmediato"}},
	{models.PriorityMedium, 0.7, []string{"pronto", "esta semana", "revisar"}},
	{models.PriorityLow, 0.7, []string{"algún día", "cuando pueda", "opcional", "eventualmente"}},
}

var priorityLabels = map[models.Priority]string{
	models.PriorityHigh:   "alta",
	models.PriorityMedium: "media",
	models.PriorityLow:    "baja",
}

// LocalMatcher produces suggestions from fixed keyword tables. It holds no
// mutable state and is safe for concurrent use.
type LocalMatcher struct {
	now func() time.Time
}

// NewLocalMatcher creates a matcher reading the clock from now (time.Now when nil).
func NewLocalMatcher(now func() time.Time) *LocalMatcher {
	if now == nil {
		now = time.Now
	}
	return &LocalMatcher{now: now}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortByConfidence(s []models.AISuggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Confidence > s[j].Confidence
	})
}

func truncate(s []models.AISuggestion, n int) []models.AISuggestion {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}

func newSuggestion(typ models.SuggestionType, title, desc string, conf float64, kind, value string) models.AISuggestion {
	return models.AISuggestion{
		ID:          uuid.New().String(),
		Type:        typ,
		Title:       title,
		Description: desc,
		Confidence:  round2(clamp01(conf)),
		Action:      &models.SuggestionAction{Kind: kind, Value: value},
		Source:      models.SourceLocal,
	}
}

// SuggestCategory ranks categories by the share of their keywords present in the text.
func (m *LocalMatcher) SuggestCategory(title, description string) []models.AISuggestion {
	text := fold(joinText(title, description))
	out := []models.AISuggestion{}
	for _, rule := range categoryTable {
		matched := matchPhrases(text, rule.Keywords)
		if len(matched) == 0 {
			continue
		}
		conf := math.Min(rule.Base*float64(len(matched))/float64(len(rule.Keywords))*2, 1)
		out = append(out, newSuggestion(
			models.SuggestionCategory,
			fmt.Sprintf("Categoría: %s", rule.Name),
			fmt.Sprintf("Palabras clave detectadas: %s", strings.Join(matched, ", ")),
			conf, models.ActionSetCategory, rule.Name,
		))
	}
	sortByConfidence(out)
	return truncate(out, maxCategoryCandidates)
}

// PredictDueDate proposes due dates from time references and task types in the text,
// falling back to the category's usual lead time.
func (m *LocalMatcher) PredictDueDate(title, description string, category *string) []models.AISuggestion {
	now := m.now()
	text := fold(joinText(title, description))
	out := []models.AISuggestion{}

	add := func(phrase string, rule offsetRule, reason string) {
		due := now.AddDate(0, 0, rule.Days)
		out = append(out, newSuggestion(
			models.SuggestionDueDate,
			fmt.Sprintf("Fecha límite: %s", due.Format(dueDateLayout)),
			fmt.Sprintf("%s \"%s\"", reason, phrase),
			rule.Confidence, models.ActionSetDueDate, due.Format(dueDateLayout),
		))
	}

	for _, p := range matchPhrases(text, sortedKeys(urgencyPhrases)) {
		add(p, urgencyPhrases[p], "Referencia temporal")
	}
	for _, p := range matchPhrases(text, sortedKeys(taskTypePhrases)) {
		add(p, taskTypePhrases[p], "Tipo de tarea")
	}

	if len(out) == 0 && category != nil {
		hint := strings.TrimSpace(fold(*category))
		for name, days := range categoryOffsets {
			if strings.TrimSpace(fold(name)) == hint {
				add(name, offsetRule{days, categoryFallbackConf}, "Plazo habitual para la categoría")
				break
			}
		}
	}

	sortByConfidence(out)
	return truncate(out, maxDueDateCandidates)
}

// SuggestPriority resolves exactly one priority from signal words, then adjusts it
// for the proximity of the due date.
func (m *LocalMatcher) SuggestPriority(title, description string, dueDate *time.Time) []models.AISuggestion {
	text := fold(joinText(title, description))
	level, conf := models.PriorityMedium, 0.5
	reason := "Sin palabras clave de prioridad"

	for _, rule := range priorityTable {
		matched := matchPhrases(text, rule.Keywords)
		if len(matched) == 0 {
			continue
		}
		level = rule.Level
		conf = rule.Base + 0.05*float64(len(matched)-1)
		reason = fmt.Sprintf("Palabras clave detectadas: %s", strings.Join(matched, ", "))
		break
	}

	if dueDate != nil {
		hours := dueDate.Sub(m.now()).Hours()
		switch {
		case hours <= 24:
			level = models.PriorityHigh
			conf = math.Max(conf, 0.9)
			reason = "La fecha límite es en menos de 24 horas"
		case hours <= 72:
			if level == models.PriorityLow {
				level = models.PriorityMedium
			}
			conf += 0.1
			reason = "La fecha límite es en menos de 3 días"
		case hours > 14*24:
			if level != models.PriorityHigh {
				level = models.PriorityLow
				reason = "La fecha límite es en más de 2 semanas"
			}
		}
	}

	return []models.AISuggestion{newSuggestion(
		models.SuggestionPriority,
		fmt.Sprintf("Prioridad %s", priorityLabels[level]),
		reason,
		conf, models.ActionSetPriority, string(level),
	)}
}

// sortedKeys gives map-backed tables a deterministic iteration order.
func sortedKeys(m map[string]offsetRule) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
