package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/eddiefleurent/tradelog/internal/parser"
	"github.com/eddiefleurent/tradelog/internal/report"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [TRADE...]",
		Short: "Parse order lines given as arguments, or one per line on stdin",
		Example: `  tradelog parse "SELL -4 CALENDAR SHOP 100 (Weeklys) 13 FEB 26/16 JAN 26 160 PUT @6.75 LMT"
  tradelog parse --format csv < orders.txt`,
		RunE: runParse,
	}
	cmd.Flags().String("format", "", "Output format: table, csv or json (overrides output.format)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format == "" {
		format = cfg.Output.Format
	}

	inputs := args
	if len(inputs) == 0 {
		if inputs, err = readLines(cmd.InOrStdin()); err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}

	p := parser.New(parser.WithLocation(cfg.Location()))
	start := time.Now()
	results, err := p.ParseAll(cmd.Context(), inputs, cfg.Parser.Workers)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.OK() {
			continue
		}
		failed++
		logger.WithFields(logrus.Fields{
			"reason": parser.Reason(r.Err),
			"input":  r.Input,
		}).Warn("Rejected trade line")
	}
	logger.WithFields(logrus.Fields{
		"inputs":   len(results),
		"failed":   failed,
		"duration": time.Since(start).String(),
	}).Debug("Parsed trade lines")

	if err := report.Write(cmd.OutOrStdout(), format, results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d trade lines failed to parse", failed, len(results))
	}
	return nil
}

// readLines returns the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
