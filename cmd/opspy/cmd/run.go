package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/msto63/opspy/foundation/spy/intercept"
	"github.com/msto63/opspy/foundation/utils/mapx"
	"github.com/msto63/opspy/internal/opensees/handlers"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	runWatch  bool
	runOutput string
	runCalls  bool
)

var runCmd = &cobra.Command{
	Use:   "run <script.lua>",
	Short: "Führt ein Modellskript aus und beobachtet die Aufrufe",
	Long: `Führt ein Lua-Modellskript gegen die OpenSees-Befehle aus.

Alle Aufrufe werden abgefangen, anhand der Grammatik zerlegt und an die
Handler weitergereicht. Anschließend wird das gesammelte Modell ausgegeben.

Beispiele:
  opspy run frame.lua
  opspy run frame.lua --output yaml
  opspy run frame.lua --calls
  opspy run frame.lua --watch  # Bei jeder Änderung erneut ausführen`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "Skript bei Änderungen erneut ausführen")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "summary", "Ausgabeformat (summary oder yaml)")
	runCmd.Flags().BoolVar(&runCalls, "calls", false, "Beobachtete Aufrufe auflisten")
}

func runRun(cmd *cobra.Command, args []string) error {
	if runOutput != "summary" && runOutput != "yaml" {
		return fmt.Errorf("unbekanntes Ausgabeformat %q (summary oder yaml)", runOutput)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg)

	s, err := newSession(cfg, logger)
	if err != nil {
		return err
	}

	path := args[0]
	if !runWatch {
		if err := s.runScript(path); err != nil {
			return err
		}
		return report(cmd.OutOrStdout(), s)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchScript(ctx, path, cfg.Script.WatchDebounce.Duration, logger, func() {
		if err := s.runScript(path); err != nil {
			printError("Skript fehlgeschlagen", err)
			return
		}
		if err := report(cmd.OutOrStdout(), s); err != nil {
			printError("Ausgabe fehlgeschlagen", err)
		}
	})
}

func report(w io.Writer, s *session) error {
	snap := s.handlers.Snapshot()
	if runOutput == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	}

	printSummary(w, s, snap)
	if runCalls {
		printCalls(w, s.spy.Interceptor().History())
	}
	return nil
}

func printSummary(w io.Writer, s *session, snap handlers.Snapshot) {
	history := s.spy.Interceptor().History()
	handled, failed := 0, 0
	for _, c := range history {
		if c.Handled {
			handled++
		}
		if c.ParseErr != nil {
			failed++
		}
	}

	row := func(label string, value any) string {
		return LabelStyle.Render(label) + ValueStyle.Render(fmt.Sprint(value))
	}
	lines := []string{
		TitleStyle.Render("opspy Modell"),
		MutedStyle.Render("Sitzung " + s.spy.SessionID()),
		"",
		row("Dimensionen", fmt.Sprintf("ndm=%d ndf=%d", snap.NDM, snap.NDF)),
		row("Knoten", len(snap.Nodes)),
		row("Elemente", len(snap.Elements)),
		row("Materialien", len(snap.Materials)),
		row("Zeitreihen", len(snap.TimeSeries)),
		row("Lastfälle", len(snap.Patterns)),
		row("Knotenlasten", len(snap.NodalLoads)),
		row("Elementlasten", len(snap.ElementLoads)),
		row("Gesamtmasse", snap.TotalMass),
		"",
		row("Aufrufe", len(history)),
		row("Verarbeitet", handled),
		row("Parse-Fehler", failed),
	}
	fmt.Fprintln(w, BoxStyle.Render(strings.Join(lines, "\n")))

	if len(snap.Elements) > 0 {
		counts := make(map[string]int)
		for _, e := range snap.Elements {
			counts[e.Type]++
		}
		fmt.Fprintln(w, SectionStyle.Render("Elementtypen:"))
		for _, t := range mapx.SortedKeys(counts) {
			fmt.Fprintf(w, "  %-24s %d\n", t, counts[t])
		}
	}
}

func printCalls(w io.Writer, calls []intercept.Call) {
	fmt.Fprintln(w, SectionStyle.Render("Aufrufe:"))
	for _, c := range calls {
		status := "[+]"
		switch {
		case c.ParseErr != nil:
			status = "[!]"
		case !c.Handled:
			status = "[ ]"
		}
		fmt.Fprintf(w, "  %s %4d %-18s %v", status, c.Seq, c.Name, c.Args)
		if len(c.Kwargs) > 0 {
			fmt.Fprintf(w, " %v", c.Kwargs)
		}
		if c.ParseErr != nil {
			fmt.Fprintf(w, " %s", ErrorStyle.Render(c.ParseErr.Error()))
		}
		fmt.Fprintln(w)
	}
}
