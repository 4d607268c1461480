/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mreyesc22/MorQuestCode/InputParameters"
	"github.com/mreyesc22/MorQuestCode/batch"
	"github.com/mreyesc22/MorQuestCode/results"
)

// BatchCmd represents the batch command
var BatchCmd = &cobra.Command{
	Use:   "batch manifest.yaml",
	Short: "Run the scenarios and sweeps of a batch manifest",
	Long: `
Runs every scenario and sweep of a manifest on a pool of workers. Records are
written per job to the output directory and/or stored in a SQLite database.

base: estuary.yaml
workers: 4
scenarios:
  - name: accel
    overrides: {slrtype: accel, slr: 1.0}
sweeps:
  - {name: rise, parameter: slr, from: 0, to: 2, n: 5}`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		bindFlags(cmd, cfgKeyFormat, cfgKeyDB, cfgKeyWorkers)
		var (
			outDir, _   = cmd.Flags().GetString("outputDir")
			progress, _ = cmd.Flags().GetBool("progress")
			w           = cmd.OutOrStdout()
			m           *batch.Manifest
			base        *InputParameters.Parameters
			jobs        []batch.Job
			format      results.Format
		)
		if format, err = results.NewFormat(viper.GetString(cfgKeyFormat)); err != nil {
			return
		}
		if m, err = batch.LoadManifest(args[0]); err != nil {
			return
		}
		if base, err = InputParameters.ReadParameters(m.Base); err != nil {
			return
		}
		if jobs, err = m.Jobs(base); err != nil {
			return
		}
		if outDir != "" {
			if err = os.MkdirAll(outDir, 0o755); err != nil {
				return
			}
		}
		var store *results.Store
		if db := viper.GetString(cfgKeyDB); db != "" {
			if store, err = results.OpenStore(db); err != nil {
				return
			}
			defer store.Close()
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		rn := &batch.Runner{Workers: m.Workers, Logger: slog.Default()}
		if viper.IsSet(cfgKeyWorkers) {
			rn.Workers = viper.GetInt(cfgKeyWorkers)
		}
		var bar *uiprogress.Bar
		if progress {
			uiprogress.Start()
			defer uiprogress.Stop()
			bar = uiprogress.AddBar(len(jobs)).AppendCompleted().PrependElapsed()
		}
		var saveErrs []error
		rn.OnDone = func(o batch.Outcome) {
			if bar != nil {
				bar.Incr()
			}
			if o.Err != nil {
				return
			}
			if outDir != "" {
				path := filepath.Join(outDir, jobFileName(o)+"."+extension(format))
				if err := writeRecord(o.Record, path, extension(format), o.Job.Params.PlotTimeRes); err != nil {
					saveErrs = append(saveErrs, err)
				}
			}
			if store != nil {
				if err := store.SaveRecord(ctx, o.Record); err != nil {
					saveErrs = append(saveErrs, fmt.Errorf("job %s: %w", o.Job.Name, err))
				}
			}
		}
		outcomes, runErr := rn.Run(ctx, jobs)
		printBatch(cmd, outcomes)

		var failed int
		for _, o := range outcomes {
			if o.Err != nil {
				failed++
			}
		}
		if failed > 0 {
			saveErrs = append(saveErrs, fmt.Errorf("%d of %d runs failed", failed, len(outcomes)))
		}
		fmt.Fprintf(w, "%d runs, %d failed\n", len(outcomes), failed)
		return errors.Join(append([]error{runErr}, saveErrs...)...)
	},
}

func init() {
	rootCmd.AddCommand(BatchCmd)
	BatchCmd.Flags().StringP("outputDir", "o", "", "directory for one record file per job")
	BatchCmd.Flags().StringP(cfgKeyFormat, "f", "json", "output format: json or csv")
	BatchCmd.Flags().String(cfgKeyDB, "", "SQLite database to store every run in")
	BatchCmd.Flags().IntP(cfgKeyWorkers, "w", 0, "concurrent runs, 0 takes the manifest value or the CPU count")
	BatchCmd.Flags().BoolP("progress", "p", false, "display a progress bar")
}

func extension(f results.Format) string {
	for name, ff := range results.FormatNameMap {
		if ff == f {
			return name
		}
	}
	return "json"
}

func jobFileName(o batch.Outcome) string {
	name := strings.NewReplacer("/", "_", "=", "-", " ", "_").Replace(o.Job.Name)
	return fmt.Sprintf("%03d_%s", o.Index, name)
}

func printBatch(cmd *cobra.Command, outcomes []batch.Outcome) {
	p := message.NewPrinter(language.English)
	w := cmd.OutOrStdout()
	p.Fprintf(w, "%-28s %-36s %16s %8s\n", "job", "run", "Ai final m2", "closed")
	for _, o := range outcomes {
		if o.Err != nil {
			p.Fprintf(w, "%-28s error: %v\n", o.Job.Name, o.Err)
			continue
		}
		ai, _ := o.Record.Get("Ai")
		p.Fprintf(w, "%-28s %-36s %16.0f %8d\n", o.Job.Name, o.Record.RunID, ai[len(ai)-1], o.Record.ClosedAt)
	}
}
