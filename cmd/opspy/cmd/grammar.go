package cmd

import (
	"fmt"

	"github.com/msto63/opspy/foundation/spy/grammar"
	"github.com/spf13/cobra"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar [befehl]",
	Short: "Zeigt die Grammatik der Sitzung",
	Long: `Zeigt die zusammengeführte Grammatik aller aktiven Handler und
der konfigurierten Grammatik-Dateien in Kurzschreibweise.

Beispiele:
  opspy grammar           # Alle Befehle
  opspy grammar element   # Alle Elementtypen`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGrammar,
}

func init() {
	rootCmd.AddCommand(grammarCmd)
}

func runGrammar(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := newSession(cfg, setupLogger(cfg))
	if err != nil {
		return err
	}

	set := s.spy.Table().Grammar()
	names := set.Names()
	if len(args) == 1 {
		if _, ok := set.Lookup(args[0]); !ok {
			return fmt.Errorf("keine Grammatik für %q", args[0])
		}
		names = []string{args[0]}
	}

	w := cmd.OutOrStdout()
	for _, name := range names {
		entry, _ := set.Lookup(name)
		switch e := entry.(type) {
		case *grammar.Rule:
			fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(name), e.String())
		case *grammar.Alternative:
			fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(name), MutedStyle.Render("nach "+e.Discriminator))
			for _, key := range e.Keys() {
				fmt.Fprintf(w, "  %-28s %s\n", key, e.Rules[key].String())
			}
			if e.Default != nil {
				fmt.Fprintf(w, "  %-28s %s\n", MutedStyle.Render("*"), e.Default.String())
			}
		}
	}
	return nil
}
