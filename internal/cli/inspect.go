package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cloudplot/cloudplot/pkg/icons"
	"github.com/cloudplot/cloudplot/pkg/model"
	"github.com/cloudplot/cloudplot/pkg/validate"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command for browsing a model in the
// terminal.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse an architecture model interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.ReadModelFile(args[0])
			if err != nil {
				return err
			}
			res := validate.Sanitize(m)

			tui := newNodeListModel(res.Model, res.Warnings)
			_, err = tea.NewProgram(tui, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// NodeListModel - Interactive model browser
// =============================================================================

// nodeListModel is the bubbletea model for browsing nodes and edges.
type nodeListModel struct {
	arch     model.ArchitectureModel
	warnings []validate.Warning
	cursor   int
	height   int
	offset   int
}

func newNodeListModel(arch model.ArchitectureModel, warnings []validate.Warning) nodeListModel {
	return nodeListModel{
		arch:     arch,
		warnings: warnings,
		height:   15,
	}
}

func (m nodeListModel) Init() tea.Cmd {
	return nil
}

func (m nodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.arch.Nodes)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 10
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m nodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Architecture Model"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d nodes · %d edges · %d warnings", len(m.arch.Nodes), len(m.arch.Edges), len(m.warnings))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.arch.Nodes) {
		end = len(m.arch.Nodes)
	}

	for i := m.offset; i < end; i++ {
		n := m.arch.Nodes[i]
		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		line := fmt.Sprintf("%-24s %-16s %s", n.DisplayLabel(), n.Type, n.Layer)
		b.WriteString(cursor + style.Render(line))
		b.WriteString("\n")
	}

	if m.cursor < len(m.arch.Nodes) {
		b.WriteString("\n")
		b.WriteString(m.detailView(m.arch.Nodes[m.cursor]))
	}
	return b.String()
}

// detailView renders the detail pane for the selected node.
func (m nodeListModel) detailView(n model.Node) string {
	style := icons.Resolve(n.Type)
	var b strings.Builder

	b.WriteString(listDimStyle.Render("id: ") + listNormalStyle.Render(n.ID))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("category: ") + listNormalStyle.Render(string(style.Category)))
	if n.SubscriptionID != "" {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("subscription: ") + listNormalStyle.Render(n.SubscriptionID))
	}

	var in, out int
	for _, e := range m.arch.Edges {
		if e.To == n.ID {
			in++
		}
		if e.From == n.ID {
			out++
		}
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("edges: %d in · %d out", in, out)))
	return b.String()
}
