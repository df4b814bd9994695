package services

import (
	"strings"

	domain "github.com/xlov-lab/experience-api/internal/domain"
)

// fallbackNoteColor is used when a generated note has no library match.
const fallbackNoteColor = "#FFFFFF"

// scentNotePayload is the per-note shape the scent prompts ask the model for.
type scentNotePayload struct {
	Name      string `json:"name"`
	NameEn    string `json:"nameEn"`
	Intensity int    `json:"intensity"`
	// Color is only requested by the spectrum prompt; the other programs
	// resolve colours from the library.
	Color string `json:"color,omitempty"`
}

// generatedScent is the raw JSON document produced by the scent prompts.
// Colours and member influence are filled in afterwards from the catalogs.
type generatedScent struct {
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	Top             []scentNotePayload `json:"top"`
	Middle          []scentNotePayload `json:"middle"`
	Base            []scentNotePayload `json:"base"`
	Mood            []string           `json:"mood"`
	Season          string             `json:"season"`
	TimeOfDay       string             `json:"timeOfDay"`
	MemberInfluence map[string]int     `json:"memberInfluence,omitempty"`
}

// mapGeneratedNotes resolves each generated note against the library so the
// recipe carries the canonical display colour.
func mapGeneratedNotes(notes []scentNotePayload) []domain.ScentNote {
	mapped := make([]domain.ScentNote, 0, len(notes))
	for _, note := range notes {
		color := note.Color
		if color == "" {
			if ref, ok := domain.FindScentNote(note.Name); ok {
				color = ref.Color
			} else if ref, ok := domain.FindScentNote(note.NameEn); ok {
				color = ref.Color
			} else {
				color = fallbackNoteColor
			}
		}
		mapped = append(mapped, domain.ScentNote{
			Name:      note.Name,
			NameEn:    note.NameEn,
			Intensity: note.Intensity,
			Color:     color,
		})
	}
	return mapped
}

// availableScentNotes renders the library as the "name(nameEn)" list the
// scent prompts embed.
func availableScentNotes() string {
	notes := domain.AllScentNotes()
	parts := make([]string, 0, len(notes))
	for _, note := range notes {
		parts = append(parts, note.Name+"("+note.NameEn+")")
	}
	return strings.Join(parts, ", ")
}
