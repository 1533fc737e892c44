package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tscproj/pkg/project"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ConfirmModel - y/N prompt
// =============================================================================

// ConfirmModel is the bubbletea model for a yes/no question. The default
// answer is no.
type ConfirmModel struct {
	Prompt    string
	Confirmed bool
	Done      bool
}

// NewConfirmModel creates a confirmation model for prompt.
func NewConfirmModel(prompt string) ConfirmModel {
	return ConfirmModel{Prompt: prompt}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch strings.ToLower(msg.String()) {
		case "y":
			m.Confirmed, m.Done = true, true
			return m, tea.Quit
		case "n", "enter", "q", "esc", "ctrl+c":
			m.Confirmed, m.Done = false, true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if m.Done {
		answer := StyleWarning.Render("no")
		if m.Confirmed {
			answer = StyleSuccess.Render("yes")
		}
		return fmt.Sprintf("%s %s %s\n", styleIconWarning.Render(iconWarning), m.Prompt, answer)
	}
	return fmt.Sprintf("%s %s %s ", styleIconWarning.Render(iconWarning), m.Prompt, listDimStyle.Render("[y/N]"))
}

// runConfirm shows a ConfirmModel on stderr and returns the answer.
func runConfirm(prompt string) (bool, error) {
	final, err := tea.NewProgram(NewConfirmModel(prompt), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return false, err
	}
	return final.(ConfirmModel).Confirmed, nil
}

// =============================================================================
// MediaListModel - Interactive source bin selection
// =============================================================================

// MediaListModel is the bubbletea model for picking a source bin entry.
type MediaListModel struct {
	Items    []project.SourceItem
	Used     map[int64]bool
	Cursor   int
	Selected *project.SourceItem
	Height   int
	Offset   int
}

// NewMediaListModel creates a media list model. used marks entries the
// timeline references.
func NewMediaListModel(items []project.SourceItem, used map[int64]bool) MediaListModel {
	return MediaListModel{Items: items, Used: used, Height: 15}
}

func (m MediaListModel) Init() tea.Cmd {
	return nil
}

func (m MediaListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Items) == 0 {
				return m, tea.Quit
			}
			item := m.Items[m.Cursor]
			m.Selected = &item
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m MediaListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Media"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Items) {
		end = len(m.Items)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		item := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		used := "unused"
		if m.Used[item.ID()] {
			used = "used"
		}
		rows = append(rows, []string{cursor, fmt.Sprint(item.ID()), item.MediaType(), used, item.Src()})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Type", "Status", "Source").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Items) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case !m.Used[m.Items[idx].ID()]:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(m.Items) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))
	}

	return b.String()
}

// runMediaPicker shows a MediaListModel on stderr. It returns nil when the
// user quits without choosing.
func runMediaPicker(p *project.Project, used map[int64]bool) (*project.SourceItem, error) {
	final, err := tea.NewProgram(NewMediaListModel(p.SourceBin, used), tea.WithOutput(os.Stderr), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}
	return final.(MediaListModel).Selected, nil
}
