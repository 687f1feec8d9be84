// Package main provides the entry point for the narada CLI, a narrated
// pilgrimage guide for Tirumala and Tirupati places.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dongleekousik-jpg/narada/narrate"
	"github.com/dongleekousik-jpg/narada/narrate/cache"
	"github.com/dongleekousik-jpg/narada/narrate/playback"
	"github.com/dongleekousik-jpg/narada/narrate/remote"
	"github.com/dongleekousik-jpg/narada/narrate/speech"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	debug      bool
	language   string
	title      string
	textFile   string

	rootCmd = &cobra.Command{
		Use:          "narada",
		Short:        "Narrated pilgrimage guide for Tirumala places",
		SilenceUsage: true,
	}

	narrateCmd = &cobra.Command{
		Use:   "narrate [PLACE_ID]",
		Short: "Narrate a place description aloud",
		Long: "Narrate reads a place description (from --text or stdin) and speaks it\n" +
			"in the requested language, caching synthesized audio for later replays.",
		Args: cobra.MaximumNArgs(1),
		RunE: runNarrate,
	}

	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Manage the narration audio cache",
	}

	purgeCmd = &cobra.Command{
		Use:   "purge",
		Short: "Discard all cached narration audio",
		RunE:  runPurge,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: platform config dir)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	narrateCmd.Flags().StringVarP(&language, "lang", "l", "en", "narration language code")
	narrateCmd.Flags().StringVar(&title, "title", "", "display name used for simplified retries")
	narrateCmd.Flags().StringVar(&textFile, "text", "", "file containing the description text (default: stdin)")

	cacheCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(narrateCmd, cacheCmd)
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		scope := gap.NewScope(gap.User, "narada")
		if dirs, err := scope.ConfigDirs(); err == nil {
			for _, dir := range dirs {
				viper.AddConfigPath(dir)
			}
		}
		viper.SetConfigName("narada")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("narada")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

func defaultCacheDir() string {
	scope := gap.NewScope(gap.User, "narada")
	dir, err := scope.CacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "narada")
	}
	return filepath.Join(dir, "audio")
}

func loadConfig() (narrate.Config, error) {
	cfg, err := narrate.LoadConfig()
	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir()
	}
	return cfg, err
}

func buildNarrator(cfg narrate.Config) (*narrate.Narrator, *playback.Engine) {
	engine := playback.NewEngine(cfg.SampleRate, cfg.Channels)
	speaker := speech.NewSpeaker(cfg.ChunkLimit)

	// Buffer playback and native speech silence each other.
	speaker.SetStopHook(engine.Stop)
	engine.SetNativeCanceler(speaker.Cancel)

	client := remote.NewClient(cfg.Endpoint, cfg.Voice)
	store := cache.NewDiskStore(cfg.CacheDir, cfg.CacheVersion)

	return narrate.New(cfg, engine, client, speaker, store), engine
}

func runNarrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, err := readText()
	if err != nil {
		return err
	}

	req := narrate.Request{Language: language, Title: title, Text: text}
	if len(args) > 0 {
		req.PlaceID = args[0]
	}

	narrator, engine := buildNarrator(cfg)
	engine.Unlock()

	done := make(chan struct{})
	var once sync.Once
	narrator.OnState(func(s narrate.State) {
		log.Debug("narration state", "state", s)
		if s == narrate.StateStopped {
			once.Do(func() { close(done) })
		}
	})

	narrator.Narrate(cmd.Context(), req)

	select {
	case <-done:
	case <-cmd.Context().Done():
		narrator.Stop()
	}
	return nil
}

func runPurge(*cobra.Command, []string) error {
	cfg, err := loadConfig()
	// Purging works without a configured synthesis endpoint.
	if err != nil && !errors.Is(err, narrate.ErrMissingEndpoint) {
		return err
	}

	store := cache.NewDiskStore(cfg.CacheDir, cfg.CacheVersion)
	if err := store.Purge(); err != nil {
		return err
	}
	fmt.Println("narration cache purged:", store.Path())
	return nil
}

func readText() (string, error) {
	if textFile != "" {
		data, err := os.ReadFile(textFile)
		if err != nil {
			return "", fmt.Errorf("unable to read description: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("unable to read description from stdin: %w", err)
	}
	return string(data), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
