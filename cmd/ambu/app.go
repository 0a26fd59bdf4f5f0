package main

import (
	"fmt"
	"os"

	"github.com/ambutrack/console/internal/api"
	"github.com/ambutrack/console/internal/config"
	"github.com/ambutrack/console/internal/store"
	"github.com/spf13/cobra"
)

// app bundles the pieces every command needs: parsed config, the
// durable session store and an API client wired to both.
type app struct {
	cfg    *config.Config
	store  *store.Store
	client *api.Client
}

func openApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.Storage)
	if err != nil {
		return nil, err
	}
	client, err := api.New(api.Opts{
		BaseURL: cfg.API.BaseURL,
		Store:   st,
		OnLoggedOut: func() {
			fmt.Fprintln(os.Stderr, "session expired, run `ambu login` to sign in again")
		},
	})
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, store: st, client: client}, nil
}

func addConfigFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, "config", "c", config.DefaultPath, "path to the config file")
}

func addPageFlags(cmd *cobra.Command, page, pageSize *int) {
	cmd.Flags().IntVar(page, "page", 1, "page number")
	cmd.Flags().IntVar(pageSize, "page-size", 20, "items per page")
}
