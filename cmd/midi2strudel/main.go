// Package main is the entry point for the midi2strudel CLI
package main

import (
	"fmt"
	"os"

	"github.com/james-see/midi2strudel/pkg/api"
	"github.com/james-see/midi2strudel/pkg/converter"
	"github.com/james-see/midi2strudel/pkg/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	midiPath   string
	outputFile string
	barLimit   int
	flat       bool
	resolution int
	tabSize    int
	sound      string
	verbose    bool
	serverPort int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "midi2strudel [file.mid]",
	Short: "Convert MIDI files to Strudel mini-notation",
	Long: `midi2strudel converts a standard MIDI file into a Strudel pattern:
a setcpm header followed by one $: note(...) statement per track.

Without a file argument or --midi, the first .mid file of the current
directory is used.

Examples:
  midi2strudel song.mid
  midi2strudel -m song.mid -r 16 -b 8 -o song.txt
  midi2strudel inspect song.mid
  midi2strudel tui
  midi2strudel serve --port 8080`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file.mid]",
	Short: "Show the tempo, meters and notes extracted from a MIDI file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspect,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	defaults := converter.DefaultConfig()

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&midiPath, "midi", "m", "", "Path to the MIDI file (default: first .mid in the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Conversion flags
	rootCmd.PersistentFlags().IntVarP(&barLimit, "bar-limit", "b", defaults.BarLimit, "The amount of bars to convert, 0 means no limit")
	rootCmd.PersistentFlags().BoolVarP(&flat, "flat-sequences", "f", defaults.Flat, "Emit every slot literally, without nested grouping")
	rootCmd.PersistentFlags().IntVarP(&resolution, "notes-per-bar", "r", defaults.Resolution, "Slots per bar; higher gives better note placement but bigger output")
	rootCmd.PersistentFlags().IntVarP(&tabSize, "tab-size", "t", defaults.TabSize, "Spaces per indentation level in the output")
	rootCmd.PersistentFlags().StringVarP(&sound, "sound", "s", defaults.Sound, "Use this sound for every track instead of one per track")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the pattern to this file instead of stdout")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	// Add commands
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func getConfig() converter.Config {
	return converter.Config{
		Resolution: resolution,
		BarLimit:   barLimit,
		Flat:       flat,
		TabSize:    tabSize,
		Sound:      sound,
	}
}

// getInputPath prefers --midi, then the positional argument, then the
// current directory.
func getInputPath(args []string) (string, error) {
	path := midiPath
	if path == "" && len(args) > 0 {
		path = args[0]
	}
	return converter.LocateMIDI(path, ".")
}

func runConvert(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	input, err := getInputPath(args)
	if err != nil {
		return err
	}

	conv, err := converter.New(getConfig(), converter.WithLogger(log))
	if err != nil {
		return err
	}

	log.Info("converting", zap.String("input", input))
	result, err := conv.ConvertFile(input)
	if err != nil {
		return err
	}

	if outputFile == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), result.Text)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(result.Text), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	log.Info("conversion complete", zap.String("output", outputFile), zap.Int("tracks", len(result.Tracks)))
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(getConfig())
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting API server", zap.Int("port", serverPort))
	return api.StartServer(serverPort, log)
}
