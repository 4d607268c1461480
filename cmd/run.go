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
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mreyesc22/MorQuestCode/InputParameters"
	"github.com/mreyesc22/MorQuestCode/model_problems/Estuary"
	"github.com/mreyesc22/MorQuestCode/results"
)

const exampleFile = `
########################################
title: Baseline
Ac0: 20000000     # channel area, m2
Ai0: 10000000     # intertidal area, m2
dH: 2             # tidal range, m
Qr0: 50           # river discharge, m3/s
ssc0: 100         # suspended sediment concentration
slr: 0.3          # total sea level rise over the run, m
slrtype: linear   # or accel, timep
dur: 100          # years
T: 44700          # tidal period, s
lsys: 5000        # system length, m
cl: 10000         # coast length, m
cd: 10            # closure depth, m
du: 2             # dune height, m
betas: 0.01       # shoreface slope
si: 1
fis: 0.3
faw: 0.5
fs: 0.5
por: 0.4
rho: 2650
########################################
`

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one estuary configuration and write its record",
	Long: `
Reads a YAML parameter file, integrates the estuary for dur years and writes
the configuration echo and every yearly series.

morquest run -I estuary.yaml --set slr=1.0 --set slrtype=accel -o out.json`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		bindFlags(cmd, cfgKeyFormat, cfgKeyDB)
		var (
			icFile, _    = cmd.Flags().GetString("inputConditionsFile")
			output, _    = cmd.Flags().GetString("output")
			overrides, _ = cmd.Flags().GetStringToString("set")
			w            = cmd.OutOrStdout()
			ip           *InputParameters.Parameters
		)
		if ip, err = processInput(w, icFile, overrides); err != nil {
			return
		}
		c, err := Estuary.NewEstuary(ip)
		if err != nil {
			return
		}
		ip.Print(w)
		c.Run()
		rec := results.Package(c)
		audit, err := results.Audit(rec)
		if err != nil {
			return
		}
		printSummary(w, c, rec, audit)
		if output != "" {
			if err = writeRecord(rec, output, viper.GetString(cfgKeyFormat), ip.PlotTimeRes); err != nil {
				return
			}
		}
		if db := viper.GetString(cfgKeyDB); db != "" {
			if err = saveRecords(cmd.Context(), db, rec); err != nil {
				return
			}
			fmt.Fprintf(w, "stored run %s in %s\n", rec.RunID, db)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file with the estuary parameters")
	RunCmd.Flags().StringP("output", "o", "", "file to write the run record to")
	RunCmd.Flags().StringP(cfgKeyFormat, "f", "json", "output format: json or csv")
	RunCmd.Flags().String(cfgKeyDB, "", "SQLite database to store the run in")
	RunCmd.Flags().StringToStringP("set", "s", nil, "override a parameter, key=value, may repeat")
}

func processInput(w io.Writer, icFile string, set map[string]string) (ip *InputParameters.Parameters, err error) {
	if len(icFile) == 0 {
		fmt.Fprintf(w, "Example File:%s\n", exampleFile)
		return nil, fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile)")
	}
	if ip, err = InputParameters.ReadParameters(icFile); err != nil {
		return
	}
	return ip.Override(parseOverrides(set))
}

// parseOverrides keeps numeric values numeric so they decode into float and
// int fields.
func parseOverrides(set map[string]string) (overrides map[string]any) {
	overrides = make(map[string]any, len(set))
	for k, v := range set {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			overrides[k] = f
			continue
		}
		overrides[k] = v
	}
	return
}

func writeRecord(rec *results.Record, path, format string, stride int) (err error) {
	f, err := results.NewFormat(format)
	if err != nil {
		return
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err = rec.Write(file, f, stride); err != nil {
		file.Close()
		return
	}
	return file.Close()
}

func saveRecords(ctx context.Context, db string, recs ...*results.Record) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := results.OpenStore(db)
	if err != nil {
		return
	}
	defer store.Close()
	for _, rec := range recs {
		if err = store.SaveRecord(ctx, rec); err != nil {
			return
		}
	}
	return
}

func printSummary(w io.Writer, c *Estuary.Estuary, rec *results.Record, audit results.AuditReport) {
	var (
		p   = message.NewPrinter(language.English)
		res = c.Res
		dur = c.Params.Dur
	)
	p.Fprintf(w, "\nrun %s, %d years in %v\n", rec.RunID, dur, c.Elapsed)
	p.Fprintf(w, "%-8s %18s %18s\n", "", "year 0", fmt.Sprintf("year %d", dur))
	for _, row := range []struct {
		name string
		v0   float64
		vN   float64
	}{
		{"Ac m2", res.Ac.DataP[0], res.Ac.Last()},
		{"Ai m2", res.Ai.DataP[0], res.Ai.Last()},
		{"Vc m3", res.Vc.DataP[0], res.Vc.Last()},
		{"Vi m3", res.Vi.DataP[0], res.Vi.Last()},
		{"Vs m3", res.Vs.DataP[0], res.Vs.Last()},
		{"Vd m3", res.Vd.DataP[0], res.Vd.Last()},
		{"P m3", res.P.DataP[0], res.P.Last()},
	} {
		p.Fprintf(w, "%-8s %18.0f %18.0f\n", row.name, row.v0, row.vN)
	}
	if c.ClosedAt >= 0 {
		p.Fprintf(w, "intertidal flat closed in year %d\n", c.ClosedAt)
	}
	p.Fprintf(w, "audit: %s\n", audit.String())
}
