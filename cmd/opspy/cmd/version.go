package cmd

import (
	"fmt"
	"runtime"

	"github.com/msto63/opspy/pkg/core/version"
	"github.com/spf13/cobra"
)

var (
	Version   = version.Platform
	GitCommit = "development"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Zeigt die Version an",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(TitleStyle.Render(fmt.Sprintf("opspy v%s", Version)))
		fmt.Printf("  Git Commit: %s\n", GitCommit)
		fmt.Printf("  Build Date: %s\n", BuildDate)
		fmt.Printf("  Go Version: %s\n", runtime.Version())
		fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Println()
		fmt.Println(SectionStyle.Render("Komponenten:"))
		for _, name := range version.Components() {
			fmt.Printf("  %-12s %s\n", name, version.ComponentVersion(name))
		}
		fmt.Printf("  %-12s %s\n", "grammar-doc", version.GrammarDocument)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
