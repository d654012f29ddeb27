package browse

import (
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobledger/internal/model"
)

// AllCities is the picker entry that disables the city restriction.
const AllCities = "All cities"

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

type cityOption struct {
	name  string
	count int
}

type pickerModel struct {
	options []cityOption
	cursor  int
	chosen  int // -1 = no choice yet, -2 = quit
}

// cityOptions lists AllCities first, then each known city by descending count.
func cityOptions(records []model.JobRecord) []cityOption {
	counts := make(map[string]int)
	for _, r := range records {
		if r.City != "" {
			counts[r.City]++
		}
	}
	opts := make([]cityOption, 0, len(counts)+1)
	for name, n := range counts {
		opts = append(opts, cityOption{name: name, count: n})
	}
	slices.SortFunc(opts, func(a, b cityOption) int {
		if a.count != b.count {
			return b.count - a.count
		}
		if a.name < b.name {
			return -1
		}
		return 1
	})
	return append([]cityOption{{name: AllCities, count: len(records)}}, opts...)
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.chosen = -2
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case "enter":
			m.chosen = m.cursor
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render("Browse records: select a city")
	s += "\n"

	for i, o := range m.options {
		label := fmt.Sprintf("%s (%d)", o.name, o.count)
		if i == m.cursor {
			s += pickerSelectedStyle.Render("> "+label) + "\n"
		} else {
			s += pickerItemStyle.Render(label) + "\n"
		}
	}

	s += pickerHintStyle.Render("↑/↓/j/k navigate  enter select  q quit")
	return s
}

// RunCityPicker shows an interactive city selector built from records.
// It returns the chosen city, AllCities, or "" if the user quit.
func RunCityPicker(records []model.JobRecord) (string, error) {
	m := pickerModel{options: cityOptions(records), chosen: -1}

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return "", err
	}

	final := result.(pickerModel)
	if final.chosen < 0 {
		return "", nil
	}
	return final.options[final.chosen].name, nil
}
