package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"jobber/internal/command"
	"jobber/internal/server"
	"jobber/internal/tailor"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var description string

//nolint:gochecknoglobals // Cobra boilerplate
var outputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Scrape a job posting and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(string(command.Scrape), args[0])
	},
}

//nolint:gochecknoglobals // Cobra boilerplate
var tailorCmd = &cobra.Command{
	Use:   "tailor [url]",
	Short: "Tailor the resume to a job posting",
	Long: `Scrape the posting at url and tailor the resume to it.

When scraping fails, or no url is given, --description is used instead.

Example:
  jobber tailor https://boards.greenhouse.io/acme/jobs/123
  jobber tailor --description "$(cat posting.txt)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTailor,
}

//nolint:gochecknoglobals // Cobra boilerplate
var pdfCmd = &cobra.Command{
	Use:   "pdf [output-dir]",
	Short: "Render resume.html of an output directory to PDF (default: latest run)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		return runCommand(string(command.SavePDF), dir)
	},
}

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run <command-or-alias> [arg...]",
	Short: "Run a command by name or configured alias",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(args[0], strings.Join(args[1:], " "))
	},
}

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, a, cleanup, err := loadApp()
		if err != nil {
			return err
		}
		defer cleanup()

		srv := server.New(a.Dispatcher, a.Store, a.Log.WithField("component", "server"))
		return errors.Wrap(srv.Run(ctx, ":"+a.Config.Server.Port), "serve")
	},
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	tailorCmd.Flags().StringVar(&description, "description", "", "Job description to use when scraping fails or no url is given")
	tailorCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from config)")

	rootCmd.AddCommand(scrapeCmd, tailorCmd, pdfCmd, runCmd, serveCmd)
}

func runTailor(cmd *cobra.Command, args []string) error {
	req := tailor.Request{Description: description, OutputDir: outputDir}
	if len(args) == 1 {
		req.URL = args[0]
	}

	ctx, a, cleanup, err := loadApp()
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := a.Dispatcher.TailorRequest(ctx, req)
	if err != nil {
		return errors.Wrap(err, "tailor")
	}
	return printJSON(res)
}

func runCommand(name, arg string) error {
	ctx, a, cleanup, err := loadApp()
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := a.Dispatcher.Execute(ctx, name, arg)
	if res != nil {
		if perr := printJSON(res); perr != nil {
			return perr
		}
	}
	return errors.Wrap(err, name)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
