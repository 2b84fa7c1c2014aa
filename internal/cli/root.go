package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/tsinline/internal/config"
)

var (
	cfgFile  string
	rootDir  string
	verbose  bool
	defaultLogFlags = log.Flags()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tsinline",
	Short: "Inline imported TypeScript declarations into the importing file",
	Long: `tsinline copies the variables, functions, classes, enums, interfaces and
type aliases a TypeScript file imports from relative modules into the file
itself, then removes or reduces the imports.

Configuration is read from .tsinline/config.yml in the project root and
TSINLINE_* environment variables.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .tsinline/config.yml in the project root)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "C", ".", "project root")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initLogging keeps log output terse unless --verbose is set.
func initLogging() {
	log.SetFlags(0)
	if viper.GetBool("verbose") {
		log.SetFlags(defaultLogFlags)
	}
}

// debugf logs only in verbose mode.
func debugf(format string, args ...interface{}) {
	if viper.GetBool("verbose") {
		log.Printf(format, args...)
	}
}

// loadProject resolves the project root and loads its configuration.
func loadProject() (string, *config.Config, error) {
	root, err := filepath.Abs(viper.GetString("root"))
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	var loader config.Loader
	if file := viper.GetString("config"); file != "" {
		loader = config.NewFileLoader(root, file)
	} else {
		loader = config.NewLoader(root)
	}

	cfg, err := loader.Load()
	if err != nil {
		return "", nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	debugf("Project root: %s", root)
	return root, cfg, nil
}
