package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// modesCmd represents the modes command
var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List available chat modes",
	Long: `List the chat modes from the embedded catalog. A mode sets the persona,
the provider behind replies and the capabilities available in the chat.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		app, err := newApp()
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer app.Close()

		modes, err := app.Modes.List()
		if err != nil {
			return fmt.Errorf("failed to load mode catalog: %w", err)
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%d chat mode(s)", len(modes))))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, columnStyle.Render("ID")+"\t"+columnStyle.Render("Provider")+"\t"+columnStyle.Render("Capabilities")+"\t"+columnStyle.Render("Description")+"\t")
		for _, mode := range modes {
			capabilities := make([]string, len(mode.Capabilities))
			for i, capability := range mode.Capabilities {
				capabilities[i] = string(capability)
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
				mode.ID,
				dateStyle.Render(mode.Provider.Label()),
				dateStyle.Render(strings.Join(capabilities, ",")),
				mode.Description)
		}
		_ = w.Flush()

		fmt.Println()
		fmt.Println(idStyle.Render("Pick one with 'axora chat -m <id>' or '/mode <id>' in the chat."))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modesCmd)
}
