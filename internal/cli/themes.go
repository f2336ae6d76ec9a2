package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/c4x/pkg/theme"
)

func (c *CLI) themesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the built-in themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.out, themesTable(theme.All(), c.cfg.Theme))
			return nil
		},
	}
}

// themesTable renders one row per theme with colour swatches for the four
// box kinds. The active theme is marked.
func themesTable(themes []theme.Theme, active string) string {
	if active == "" {
		active = theme.Default.Name
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(themes))
	for i, t := range themes {
		marker := " "
		if t.Name == active {
			marker = "*"
		}
		rows[i] = []string{
			marker,
			t.Name,
			swatch(t.Person) + swatch(t.SoftwareSystem) + swatch(t.Container) + swatch(t.Component),
			t.Description,
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Colors", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1 && themes[row].Name == active:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case col == 3:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func swatch(c theme.Colors) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Fill)).Render("  ")
}
