// Package main provides the ogdch binary, a command line front end to the
// catalog localization hooks for indexing jobs and harvest triage.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	ogdch "github.com/goliatone/go-ogdch"
	"github.com/goliatone/go-ogdch/shacl"
)

const (
	Version = "0.1.0"
	appName = "ogdch"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	logLevel string
	locale   string
}

func (o *rootOptions) config(cmd *cobra.Command) (*ogdch.Config, error) {
	opts := []ogdch.Option{
		ogdch.WithLogger(ogdch.NewLogger(cmd.ErrOrStderr(), o.logLevel)),
	}
	if o.locale != "" {
		opts = append(opts, ogdch.WithDefaultLocale(o.locale))
	}
	return ogdch.ConfigFromEnv(opts...)
}

func rootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Multilingual catalog record tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVarP(&opts.locale, "locale", "l", "", "Locale to resolve for (default from OGDCH_LOCALE_DEFAULT)")

	cmd.AddCommand(
		resolveCmd(opts),
		indexCmd(opts),
		searchCmd(opts),
		formatCmd(opts),
		iriCmd(),
		shaclCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

func resolveCmd(opts *rootOptions) *cobra.Command {
	var defaultValue string

	cmd := &cobra.Command{
		Use:   "resolve <json-value>",
		Short: "Resolve a language bundle for the locale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			resolver := cfg.BuildResolver()
			value := resolver.Resolve(ogdch.ParseJSON(args[0]), opts.locale, defaultValue)
			return writeJSON(cmd.OutOrStdout(), value)
		},
	}
	cmd.Flags().StringVar(&defaultValue, "default", "", "Value returned when no language has text")
	return cmd
}

func indexCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "index [file]",
		Short: "Add the language fields to a search document read from file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			hooks, err := cfg.BuildHooks()
			if err != nil {
				return err
			}

			in, closeIn, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer closeIn()

			var doc map[string]any
			if err := json.NewDecoder(in).Decode(&doc); err != nil {
				return fmt.Errorf("decode search document: %w", err)
			}

			indexed, err := hooks.BeforeIndex(doc)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), indexed)
		},
	}
}

func searchCmd(opts *rootOptions) *cobra.Command {
	var (
		query  string
		filter string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Print the search parameters used for the locale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			hooks, err := cfg.BuildHooks()
			if err != nil {
				return err
			}

			params := map[string]any{}
			if query != "" {
				params["q"] = query
			}
			if filter != "" {
				params["fq"] = filter
			}
			return writeJSON(cmd.OutOrStdout(), hooks.BeforeSearch(params, opts.locale))
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search query")
	cmd.Flags().StringVar(&filter, "fq", "", "Filter query")
	return cmd
}

func formatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "format <spelling>...",
		Short: "Map format spellings to their canonical format",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			formats, err := cfg.BuildFormatMapping()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, spelling := range args {
				format, ok := formats.MapToValidFormat(spelling)
				if !ok {
					format = ogdch.FormatNotAvailable
				}
				fmt.Fprintf(out, "%s\t%s\n", spelling, format)
			}
			return nil
		},
	}
}

func iriCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "iri <uri>",
		Short: "Convert a URI to an IRI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			iri, err := ogdch.URIToIRI(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), iri)
			return nil
		},
	}
}

func shaclCmd() *cobra.Command {
	var (
		sourceID string
		page     int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "shacl <report.ttl>",
		Short: "List the results of a SHACL validation report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := shacl.NewParser(args[0], sourceID, page)
			if err := parser.Parse(); err != nil {
				return err
			}
			messages, err := parser.ErrorMessages()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, messages)
			}
			for _, msg := range messages {
				fmt.Fprintln(out, msg.String())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sourceID, "source", "", "Harvest source id")
	cmd.Flags().IntVar(&page, "page", 1, "Harvest page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print messages as JSON")
	return cmd
}

func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(value)
}
