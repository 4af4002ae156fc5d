package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/i474232898/weather-chat/internal/chat"
	"github.com/i474232898/weather-chat/internal/config"
	"github.com/i474232898/weather-chat/internal/logging"
	"github.com/i474232898/weather-chat/internal/store"
)

func main() {
	logging.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	root := &cobra.Command{
		Use:           "weather-chat",
		Short:         "Chat backend that answers weather questions and routes the rest to a language model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newClassifyCmd(), newAskCmd(), newRecordsCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies its logging settings.
func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [query...]",
		Short: "Print how a query would be routed, without calling anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			class := chat.Classify(query)

			out := map[string]any{"kind": class.Kind()}
			if w, ok := class.(chat.Weather); ok {
				out["location"] = w.Location
				out["weather_type"] = w.Intent
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [query...]",
		Short: "Answer one query and record it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			comps, err := build(cfg)
			if err != nil {
				return err
			}
			defer comps.store.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
			defer cancel()

			response, err := comps.router.Route(ctx, strings.Join(args, " "))
			if response != "" {
				fmt.Fprintln(cmd.OutOrStdout(), response)
			}
			return err
		},
	}
}

func newRecordsCmd() *cobra.Command {
	var (
		limit  int
		dbPath string
	)
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List the most recent recorded queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				if cfg.StoreDriver != "sqlite" {
					return fmt.Errorf("records needs the sqlite store, got %q", cfg.StoreDriver)
				}
				dbPath = cfg.DatabasePath
			}

			st, err := store.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Time", "Kind", "Query", "Response"})
			table.SetAutoWrapText(true)
			for _, r := range recs {
				table.Append([]string{
					r.CreatedAt.Format("2006-01-02 15:04:05"),
					string(r.Kind),
					r.Query,
					r.Response,
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records to show")
	cmd.Flags().StringVar(&dbPath, "db", "", "database file (defaults to DATABASE_PATH)")
	return cmd
}
