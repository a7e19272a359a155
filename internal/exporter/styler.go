package exporter

import (
	"github.com/xuri/excelize/v2"

	"apk-recon/internal/exporter/common"
)

// Styler handles Excel styling
type Styler struct {
	File *excelize.File

	HeaderStyle       int
	LabelStyle        int
	QueryStyle        int
	MutationStyle     int
	SubscriptionStyle int
	DefinitionStyle   int
	NoteStyle         int
	DefaultStyle      int
}

// NewStyler creates a new Styler and registers its styles with f.
func NewStyler(f *excelize.File) (*Styler, error) {
	s := &Styler{File: f}

	styles := []struct {
		dst   *int
		style *excelize.Style
	}{
		// bold on gray, centered
		{&s.HeaderStyle, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#000000"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    createBorder(),
		}},
		{&s.LabelStyle, &excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Alignment: &excelize.Alignment{Vertical: "center"},
			Border:    createBorder(),
		}},
		{&s.QueryStyle, &excelize.Style{
			Alignment: &excelize.Alignment{Vertical: "top"},
			Border:    createBorder(),
		}},
		// mutations change server state
		{&s.MutationStyle, &excelize.Style{
			Font:      &excelize.Font{Color: "#D32F2F"},
			Alignment: &excelize.Alignment{Vertical: "top"},
			Border:    createBorder(),
		}},
		{&s.SubscriptionStyle, &excelize.Style{
			Font:      &excelize.Font{Color: "#0000FF"},
			Alignment: &excelize.Alignment{Vertical: "top"},
			Border:    createBorder(),
		}},
		{&s.DefinitionStyle, &excelize.Style{
			Font:      &excelize.Font{Family: "Consolas", Size: 9},
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
			Border:    createBorder(),
		}},
		{&s.NoteStyle, &excelize.Style{
			Font:      &excelize.Font{Color: "#757575", Italic: true},
			Alignment: &excelize.Alignment{Vertical: "top"},
			Border:    createBorder(),
		}},
		{&s.DefaultStyle, &excelize.Style{
			Alignment: &excelize.Alignment{Vertical: "center"},
			Border:    createBorder(),
		}},
	}

	for _, st := range styles {
		id, err := f.NewStyle(st.style)
		if err != nil {
			return nil, err
		}
		*st.dst = id
	}

	return s, nil
}

// KindStyle returns the row style for an operation kind.
func (s *Styler) KindStyle(kind string) int {
	switch kind {
	case common.KindMutation:
		return s.MutationStyle
	case common.KindSubscription:
		return s.SubscriptionStyle
	case common.KindQuery:
		return s.QueryStyle
	}
	return s.DefaultStyle
}

func createBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "D4D4D4", Style: 1},
		{Type: "top", Color: "D4D4D4", Style: 1},
		{Type: "bottom", Color: "D4D4D4", Style: 1},
		{Type: "right", Color: "D4D4D4", Style: 1},
	}
}
