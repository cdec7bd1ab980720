package suggest

import (
	"strings"
	"time"

	"github.com/fentz26/taskpulse/internal/models"
)

const replyFormat = `Responde solo con un objeto JSON: {"value": string, "confidence": número entre 0 y 1, "reasoning": string breve}.`

// systemPrompt is the instruction for one suggestion type.
func systemPrompt(typ models.SuggestionType) string {
	switch typ {
	case models.SuggestionCategory:
		return "Eres un asistente de productividad. Sugiere una categoría corta en español para la tarea " +
			"(por ejemplo trabajo, personal, salud, estudio, hogar, finanzas, compras). " + replyFormat
	case models.SuggestionDueDate:
		return "Eres un asistente de productividad. Sugiere una fecha límite realista para la tarea " +
			"en formato AAAA-MM-DD, posterior o igual a la fecha actual. " + replyFormat
	case models.SuggestionPriority:
		return "Eres un asistente de productividad. Sugiere la prioridad de la tarea: " +
			"\"high\", \"medium\" o \"low\". " + replyFormat
	}
	return replyFormat
}

// BuildUserPrompt renders the task context as "key: value" lines.
func BuildUserPrompt(req Request, now time.Time) string {
	var b strings.Builder

	b.WriteString("today: ")
	b.WriteString(now.Format(dueDateLayout))
	b.WriteString("\n")

	b.WriteString("title: ")
	b.WriteString(req.Title)
	b.WriteString("\n")

	if req.Description != "" {
		b.WriteString("description: ")
		b.WriteString(req.Description)
		b.WriteString("\n")
	}

	if req.Category != nil && *req.Category != "" {
		b.WriteString("category: ")
		b.WriteString(*req.Category)
		b.WriteString("\n")
	}

	if req.DueDate != nil {
		b.WriteString("due_date: ")
		b.WriteString(req.DueDate.Format(dueDateLayout))
		b.WriteString("\n")
	}

	return b.String()
}
