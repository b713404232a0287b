package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// projectsCmd represents the projects command
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List configured projects",
	Long: `List the projects from the project catalog. A project layers shared and
per-mode memory into every chat that selects it.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		app, err := newApp()
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer app.Close()

		projects, err := app.Projects.List()
		if err != nil {
			return fmt.Errorf("failed to load project catalog: %w", err)
		}

		if len(projects) == 0 {
			fmt.Println(headerStyle.Render("No projects configured"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%d project(s)", len(projects))))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, columnStyle.Render("ID")+"\t"+columnStyle.Render("Name")+"\t"+columnStyle.Render("Mode memory")+"\t"+columnStyle.Render("Description")+"\t")
		for _, project := range projects {
			modeIDs := make([]string, 0, len(project.Memory.ModeContext))
			for modeID := range project.Memory.ModeContext {
				modeIDs = append(modeIDs, modeID)
			}
			sort.Strings(modeIDs)
			memory := strings.Join(modeIDs, ",")
			if memory == "" {
				memory = "—"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
				project.ID,
				project.Name,
				dateStyle.Render(memory),
				project.Description)
		}
		_ = w.Flush()

		fmt.Println()
		fmt.Println(idStyle.Render("Pick one with 'axora chat -p <id>' or '/project <id>' in the chat."))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}
