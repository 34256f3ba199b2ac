// Package cli implements the ipcgen command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rootFlag       string
	watchFlag      bool
	quietFlag      bool
	verboseFlag    bool
	noProgressFlag bool
)

// rootCmd generates the bindings when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "ipcgen",
	Short: "Generate type-safe Electron IPC bindings from a TypeScript schema",
	Long: `ipcgen reads the channel declarations of an Electron project and writes
the IPC glue code for every process:

  - main.ts      ipcMain handlers and webContents senders
  - preload.ts   the contextBridge "ipc" object exposed to renderers
  - window.d.ts  typings for window.ipc

The schema is <ipcDataDir>/schema.ts, or every module below <ipcDataDir>/schema/.
Settings are read from the "config.autoipc" section of package.json.

Examples:
  # Generate bindings for the project containing the current directory
  ipcgen

  # Regenerate whenever the schema changes
  ipcgen --watch

  # Generate for another project without progress output
  ipcgen --root ../desktop-app --no-progress
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerate,
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&rootFlag, "root", "", "directory to start the project root search from (default is the working directory)")
	flags.BoolVarP(&watchFlag, "watch", "w", false, "regenerate whenever the schema changes")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "disable progress bars and non-error output")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
	flags.BoolVar(&noProgressFlag, "no-progress", false, "disable progress bars but keep the summary")

	viper.BindPFlag("root", flags.Lookup("root"))
	viper.BindEnv("root", "IPCGEN_ROOT")
}
