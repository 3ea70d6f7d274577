package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deckview/deckview/internal/auth"
	"github.com/deckview/deckview/internal/config"
	"github.com/deckview/deckview/internal/logger"
	"github.com/deckview/deckview/internal/server"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "deckviewd",
		Short: "Serve a markdown-backed slide presentation",
		RunE:  runServe,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the presentation server",
		RunE:  runServe,
	}

	var save bool
	var user string
	hashCmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Hash an editor password for the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			if save {
				store := config.NewStore(configPath())
				if err := store.Ensure(); err != nil {
					return err
				}
				if err := store.SetEditorCredentials(user, hash); err != nil {
					return err
				}
			}
			fmt.Println(hash)
			return nil
		},
	}
	hashCmd.Flags().BoolVar(&save, "save", false, "write the hash into the config file")
	hashCmd.Flags().StringVar(&user, "user", "", "editor username to store alongside the hash")

	root.AddCommand(serveCmd, hashCmd)
	return root
}

func runServe(cmd *cobra.Command, args []string) error {
	store := config.NewStore(configPath())
	if err := store.Ensure(); err != nil {
		return err
	}
	cfg, err := store.Get()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.LogDir); err != nil {
		return err
	}
	defer logger.Close()

	addr := getenvDefault("DECKVIEW_LISTEN", cfg.Listen)
	logger.Info("deckview listening on %s", addr)
	return server.New(server.Config{ListenAddr: addr}, store).ListenAndServe()
}

func configPath() string {
	return getenvDefault("DECKVIEW_CONFIG", config.DefaultPath())
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
