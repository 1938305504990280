package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var parseKwargs []string

var parseCmd = &cobra.Command{
	Use:   "parse <befehl> [token...]",
	Short: "Zerlegt einen einzelnen Aufruf",
	Long: `Zerlegt einen einzelnen OpenSees-Aufruf mit der Grammatik der Sitzung
und gibt die benannten Felder als YAML aus.

Zahlen werden als Zahlen übergeben, alles andere als Text. Optionen von
opspy stehen vor dem Befehl.

Beispiele:
  opspy parse node 1 0.0 5.0 -mass 1.0 1.0 0.0
  opspy parse element zeroLength 1 1 2 -mat 1 2 -dir 1 2
  opspy parse --kw rho=0.5 element Truss 1 1 2 10.0 1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringArrayVar(&parseKwargs, "kw", nil, "Schlüsselwort-Argument name=wert (mehrfach)")
	// tokens such as -mass belong to the call, not to opspy
	parseCmd.Flags().SetInterspersed(false)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := newSession(cfg, setupLogger(cfg))
	if err != nil {
		return err
	}

	kwargs, err := parseKeywords(parseKwargs)
	if err != nil {
		return err
	}

	rec, err := s.spy.Parse(args[0], convertTokens(args[1:]), kwargs)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(rec.Map()); err != nil {
		return err
	}
	return enc.Close()
}

// convertTokens turns command-line words into call tokens
func convertTokens(words []string) []any {
	tokens := make([]any, len(words))
	for i, w := range words {
		tokens[i] = convertToken(w)
	}
	return tokens
}

func convertToken(w string) any {
	if n, err := strconv.Atoi(w); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(w, 64); err == nil {
		return f
	}
	return w
}

func parseKeywords(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	kwargs := make(map[string]any, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("ungültiges Schlüsselwort-Argument %q (erwartet name=wert)", p)
		}
		kwargs[name] = convertToken(value)
	}
	return kwargs, nil
}
