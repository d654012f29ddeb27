// Package browse is an interactive terminal view over stored job records.
package browse

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobledger/internal/extract"
	"github.com/amishk599/jobledger/internal/model"
)

// Lines per record in the list view (title + subtitle + blank separator).
const recordItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39"))

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("39"))

	inactiveHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(16)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	descDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	descHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	descBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

// skillsSuggestedMsg is sent when an on-demand skill extraction completes.
type skillsSuggestedMsg struct {
	url     string
	outcome model.SkillsOutcome
}

type browseModel struct {
	allRecords     []model.JobRecord
	matchedRecords []model.JobRecord
	leftViewport   viewport.Model
	rightViewport  viewport.Model
	activePane     int // 0=left, 1=right
	leftCursor     int
	rightCursor    int
	width          int
	height         int
	ready          bool

	view            viewState
	detail          model.JobRecord
	detailViewport  viewport.Model
	showDescription bool

	skills        model.SkillExtractor
	suggesting    bool
	suggested     map[string]model.SkillsOutcome
	suggestionErr string

	wantQuit bool
}

func newBrowseModel(all, matched []model.JobRecord, skills model.SkillExtractor) browseModel {
	sortByPosted(all)
	sortByPosted(matched)
	return browseModel{
		allRecords:     all,
		matchedRecords: matched,
		skills:         skills,
		suggested:      make(map[string]model.SkillsOutcome),
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case skillsSuggestedMsg:
		m.suggesting = false
		if msg.outcome.Status == model.SkillsUnavailable {
			m.suggestionErr = "skill extraction unavailable"
			if msg.outcome.Err != nil {
				m.suggestionErr += ": " + msg.outcome.Err.Error()
			}
		} else {
			m.suggestionErr = ""
			m.suggested[msg.url] = msg.outcome
		}
		m.detailViewport.SetContent(m.renderDetail())
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.wantQuit = true
		return m, tea.Quit
	case "tab", "left", "right":
		m.activePane = 1 - m.activePane
		m.recalcContent()
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	// Forward other keys (pgup/pgdn/home/end) to the active viewport.
	var cmd tea.Cmd
	if m.activePane == 0 {
		m.leftViewport, cmd = m.leftViewport.Update(msg)
	} else {
		m.rightViewport, cmd = m.rightViewport.Update(msg)
	}
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		openURL(m.detail.LinkedInURL)
		return m, nil
	case "r":
		if descriptionOf(m.detail) != "" {
			m.showDescription = !m.showDescription
			m.detailViewport.SetContent(m.renderDetail())
			m.detailViewport.SetYOffset(0)
		}
		return m, nil
	case "s":
		if m.canSuggest() {
			m.suggesting = true
			m.suggestionErr = ""
			m.detailViewport.SetContent(m.renderDetail())
			return m, m.suggestSkillsCmd(m.detail)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// canSuggest reports whether the skill extractor can be asked about the open record.
func (m browseModel) canSuggest() bool {
	if m.skills == nil || m.suggesting || m.detail.RequiredSkills != nil {
		return false
	}
	if _, done := m.suggested[m.detail.LinkedInURL]; done {
		return false
	}
	return descriptionOf(m.detail) != ""
}

func (m browseModel) suggestSkillsCmd(rec model.JobRecord) tea.Cmd {
	skills := m.skills
	return func() tea.Msg {
		out := skills.ExtractSkills(context.Background(), descriptionOf(rec))
		return skillsSuggestedMsg{url: rec.LinkedInURL, outcome: out}
	}
}

func (m *browseModel) moveCursor(delta int) {
	if m.activePane == 0 {
		m.leftCursor = clamp(m.leftCursor+delta, 0, max(len(m.allRecords)-1, 0))
	} else {
		m.rightCursor = clamp(m.rightCursor+delta, 0, max(len(m.matchedRecords)-1, 0))
	}
}

func (m *browseModel) ensureCursorVisible() {
	vp, cursor := &m.leftViewport, m.leftCursor
	if m.activePane == 1 {
		vp, cursor = &m.rightViewport, m.rightCursor
	}

	cursorTop := cursor * recordItemHeight
	cursorBottom := cursorTop + recordItemHeight - 1

	if cursorTop < vp.YOffset {
		vp.SetYOffset(cursorTop)
	} else if cursorBottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(cursorBottom - vp.Height + 1)
	}
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	records := m.activeRecords()
	if len(records) == 0 {
		return m, nil
	}

	m.view = viewDetail
	m.detail = records[m.activeCursor()]
	m.suggestionErr = ""
	m.showDescription = false
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *browseModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.leftViewport = viewport.New(paneWidth, paneHeight)
		m.rightViewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.leftViewport.Width = paneWidth
		m.leftViewport.Height = paneHeight
		m.rightViewport.Width = paneWidth
		m.rightViewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	m.leftViewport.SetContent(renderRecords(m.allRecords, m.leftCursor, m.activePane == 0))
	m.rightViewport.SetContent(renderRecords(m.matchedRecords, m.rightCursor, m.activePane == 1))
}

func (m browseModel) activeRecords() []model.JobRecord {
	if m.activePane == 0 {
		return m.allRecords
	}
	return m.matchedRecords
}

func (m browseModel) activeCursor() int {
	if m.activePane == 0 {
		return m.leftCursor
	}
	return m.rightCursor
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m browseModel) viewList() string {
	paneWidth := m.leftViewport.Width

	leftHeader := fmt.Sprintf(" All Records (%d)", len(m.allRecords))
	rightHeader := fmt.Sprintf(" Matched Records (%d)", len(m.matchedRecords))

	leftHeaderRendered := activeHeaderStyle.Render(leftHeader)
	rightHeaderRendered := inactiveHeaderStyle.Render(rightHeader)
	leftBorder := activeBorderStyle.Width(paneWidth)
	rightBorder := inactiveBorderStyle.Width(paneWidth)
	if m.activePane == 1 {
		leftHeaderRendered = inactiveHeaderStyle.Render(leftHeader)
		rightHeaderRendered = activeHeaderStyle.Render(rightHeader)
		leftBorder = inactiveBorderStyle.Width(paneWidth)
		rightBorder = activeBorderStyle.Width(paneWidth)
	}

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(paneWidth+2).Render(leftHeaderRendered),
		" ",
		lipgloss.NewStyle().Width(paneWidth+2).Render(rightHeaderRendered),
	)
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		leftBorder.Render(m.leftViewport.View()),
		" ",
		rightBorder.Render(m.rightViewport.View()),
	)

	statusText := fmt.Sprintf(" %d total | %d matched | %d filtered out    ←/→/Tab switch  ↑/↓ cursor  Enter detail  q quit",
		len(m.allRecords), len(m.matchedRecords), len(m.allRecords)-len(m.matchedRecords))
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Record Details")
	if m.suggesting {
		title += "  (extracting skills...)"
	}

	content := activeBorderStyle.Width(m.width - 2).Render(m.detailViewport.View())

	statusText := " o open posting  esc/backspace back  ↑/↓ scroll  q quit"
	if descriptionOf(m.detail) != "" {
		if m.canSuggest() {
			statusText = " o open posting  r desc  s skills  esc/backspace back  ↑/↓ scroll  q quit"
		} else {
			statusText = " o open posting  r desc  esc/backspace back  ↑/↓ scroll  q quit"
		}
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	r := m.detail
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", r.JobTitle)
	addField("Company", r.Company)
	addField("Location", locationOf(r))
	addField("Workplace", r.WorkplaceType)
	addField("Employment", r.EmploymentType)
	addField("Seniority", r.SeniorityLevel)
	addField("Degree", r.DegreeRequired)

	b.WriteByte('\n')

	if r.PostedAt != nil {
		posted := r.PostedAt.Format("2006-01-02")
		if r.PostingAgeDays != nil {
			posted += fmt.Sprintf(" (%d days before scrape)", *r.PostingAgeDays)
		}
		addField("Posted", posted)
	}
	if r.ApplicantCount != nil {
		addField("Applicants", strconv.Itoa(*r.ApplicantCount))
	}
	if r.ScrapedAt != nil {
		addField("First Seen", r.ScrapedAt.Format("2006-01-02 15:04 MST"))
	}
	if r.CurrencyCode != "" {
		addField("Currency", strings.TrimSpace(r.Currency+" "+r.CurrencyCode))
	}
	if len(r.Benefits) > 0 {
		addField("Benefits", strings.Join(r.Benefits, ", "))
	}
	switch {
	case r.RequiredSkills == nil:
		addField("Skills", "(unknown)")
	case len(r.RequiredSkills) == 0:
		addField("Skills", "(none listed)")
	default:
		addField("Skills", strings.Join(r.RequiredSkills, ", "))
	}

	b.WriteByte('\n')
	addField("Posting", r.LinkedInURL)

	wrapWidth := max(m.width-8, 20)
	divider := func(label string) string {
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		return descDividerStyle.Render(label + fill)
	}

	if out, ok := m.suggested[r.LinkedInURL]; ok {
		b.WriteByte('\n')
		b.WriteString(divider("── Suggested Skills ") + "\n\n")
		if len(out.Skills) == 0 {
			b.WriteString(detailValueStyle.Render("  (none found)") + "\n")
		}
		for _, s := range out.Skills {
			b.WriteString(detailValueStyle.Render("  • "+s) + "\n")
		}
	} else if m.suggesting {
		b.WriteByte('\n')
		b.WriteString(descHintStyle.Render("  extracting required skills...") + "\n")
	} else if m.suggestionErr != "" {
		b.WriteByte('\n')
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("⚠ "+m.suggestionErr) + "\n")
	} else if m.canSuggest() {
		b.WriteByte('\n')
		b.WriteString(descHintStyle.Render("  press s to extract required skills") + "\n")
	}

	if desc := descriptionOf(r); desc != "" {
		b.WriteByte('\n')
		if m.showDescription {
			b.WriteString(divider("── Job Description ") + "\n\n")
			b.WriteString(descBodyStyle.Render(wordWrap(desc, wrapWidth)) + "\n")
		} else {
			b.WriteString(descBodyStyle.Render(wordWrap(previewOf(r), wrapWidth)) + "\n")
			b.WriteString(descHintStyle.Render("  press r to read the full description") + "\n")
		}
	}

	return b.String()
}

// descriptionOf returns the full description, or the stored preview when the
// full text was not kept.
func descriptionOf(r model.JobRecord) string {
	if r.JobDescription != "" {
		return r.JobDescription
	}
	return r.DescriptionClean
}

func previewOf(r model.JobRecord) string {
	if r.DescriptionClean != "" {
		return r.DescriptionClean
	}
	return extract.Preview(r.JobDescription, extract.PreviewWidth, extract.Ellipsis)
}

func locationOf(r model.JobRecord) string {
	switch {
	case r.City != "" && r.Province != "":
		return r.City + ", " + r.Province
	case r.City != "":
		return r.City
	default:
		return r.Province
	}
}

func renderRecords(records []model.JobRecord, cursor int, isActive bool) string {
	if len(records) == 0 {
		return "  (no records)"
	}

	var b strings.Builder
	for i, r := range records {
		titleSt, subtitleSt, prefix := titleStyle, subtitleStyle, "  "
		if isActive && i == cursor {
			titleSt, subtitleSt, prefix = selectedTitleStyle, selectedSubtitleStyle, "> "
		}

		title := r.JobTitle
		if title == "" {
			title = r.LinkedInURL
		}
		b.WriteString(prefix)
		b.WriteString(titleSt.Render(title))
		b.WriteByte('\n')

		posted := "n/a"
		if r.PostedAt != nil {
			posted = r.PostedAt.Format("2006-01-02")
		}
		parts := []string{r.Company, locationOf(r), r.WorkplaceType, posted}
		parts = slices.DeleteFunc(parts, func(s string) bool { return s == "" })
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(strings.Join(parts, " · ")))
		b.WriteByte('\n')

		if i < len(records)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// sortByPosted orders records newest first; records without a date go last.
func sortByPosted(records []model.JobRecord) {
	slices.SortStableFunc(records, func(a, b model.JobRecord) int {
		switch {
		case a.PostedAt == nil && b.PostedAt == nil:
			return 0
		case a.PostedAt == nil:
			return 1
		case b.PostedAt == nil:
			return -1
		}
		return b.PostedAt.Compare(*a.PostedAt)
	})
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the split-pane browser over all records and the subset
// matched by the configured filter. skills may be nil; when set, the s key
// asks it for the required skills of a record that has none.
func Run(all, matched []model.JobRecord, skills model.SkillExtractor) error {
	p := tea.NewProgram(newBrowseModel(all, matched, skills), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
