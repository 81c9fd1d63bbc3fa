package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"soundgraph/internal/graphstore"
	"soundgraph/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Run read-only reports over the graph document",
	}
	reportCmd.PersistentFlags().StringVar(&formatFlag, "format", string(formatAuto), "Output format: auto, table, csv or markdown")

	// run loads the document and writes the table built by build.
	run := func(cmd *cobra.Command, aligns []columnAlignment, build func(*report.Reporter) report.Table) error {
		format, err := parseOutputFormat(formatFlag)
		if err != nil {
			return err
		}
		reporter, err := ctx.reporter()
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), build(reporter), format, aligns)
	}

	var limit int
	listingCmd := &cobra.Command{
		Use:   "listing",
		Short: "Soundtracks with their film, year, composers, tracks and performers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, []columnAlignment{alignLeft, alignRight}, func(r *report.Reporter) report.Table {
				return report.ListingTable(r.Listing(limit))
			})
		},
	}
	listingCmd.Flags().IntVar(&limit, "limit", report.DefaultListingLimit, "Maximum number of soundtracks")

	filmGenresCmd := &cobra.Command{
		Use:   "film-genres",
		Short: "Film genres and their films",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, nil, (*report.Reporter).FilmGenres)
		},
	}

	musicGenresCmd := &cobra.Command{
		Use:   "music-genres",
		Short: "Music genres of every soundtrack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, nil, (*report.Reporter).MusicGenres)
		},
	}

	crossTabCmd := &cobra.Command{
		Use:   "crosstab [music-genre]",
		Short: fmt.Sprintf("Films whose soundtrack carries a music genre (default %q)", report.DefaultGenreFilter),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			return run(cmd, nil, func(r *report.Reporter) report.Table {
				return r.CrossTab(filter)
			})
		},
	}

	composerCmd := &cobra.Command{
		Use:   "composer <name>",
		Short: "Soundtracks credited to a composer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return run(cmd, nil, func(r *report.Reporter) report.Table {
				return r.ByComposer(name)
			})
		},
	}

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Node counts per class and the total triple count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, []columnAlignment{alignLeft, alignRight}, (*report.Reporter).Counts)
		},
	}

	reportCmd.AddCommand(listingCmd, filmGenresCmd, musicGenresCmd, crossTabCmd, composerCmd, summaryCmd)
	return reportCmd
}

func (c *commandContext) reporter() (*report.Reporter, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	g, err := graphstore.Load(cfg.Graph.Document)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("graph document %s not found; run `soundgraph run` first", cfg.Graph.Document)
		}
		return nil, err
	}
	return report.New(g, graphstore.NewVocabulary(cfg.Graph.Namespace)), nil
}
