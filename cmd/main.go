package main

import (
	"fmt"
	"os"
	"os/signal"
	"quicknote/internal/cli/scheme/colours"
	"quicknote/internal/config"
	"quicknote/internal/quicknote"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	app := quicknote.NewQuickNote()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		app.Close()
		fmt.Println("\n" + colours.Warning.Sprint("👋 Goodbye! Notes saved in your head! 🧠"))
		os.Exit(0)
	}()

	var (
		cfgFile string
		verbose bool
	)

	rootCmd := &cobra.Command{
		Use:   "quicknote",
		Short: "📝 Summarize notes and listen to them",
		Long: `
┌─────────────────────────────────────┐
│  📝 Welcome to QuickNote! 🎧        │
│  Summaries and action items         │
│  Read aloud in the voice you pick   │
└─────────────────────────────────────┘

QuickNote sends your notes to the QuickNote backend, shows the summary
and action items it finds, and reads the summary aloud.
		`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(cfgFile); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			level, _ := logrus.ParseLevel(cfg.Log.Level)
			if verbose {
				level = logrus.DebugLevel
			}
			logrus.SetLevel(level)

			return app.Configure(cfg)
		},
		Run: app.ShowWelcome,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $HOME/.quicknote/quicknote.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug output")

	app.AddCommands(rootCmd)

	err := rootCmd.Execute()
	app.Close()
	if err != nil {
		colours.Error.Printf("❌ Error: %v\n", err)
		os.Exit(1)
	}
}
