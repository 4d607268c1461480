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
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mreyesc22/MorQuestCode/calibration"
)

// CalibrateCmd represents the calibrate command
var CalibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Suggest dH and Qr0 from observed tide and discharge records",
	Long: `
Reads a daily water level record (Year,month,day,value in mm) and/or a yearly
discharge table (agency site parameter code year Q in ft3/s) and prints the
centred 3-year means at the selected years with the suggested parameters.

morquest calibrate --tidal levels.csv --discharge gauge.txt --skip 2`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			tidal, _     = cmd.Flags().GetString("tidal")
			discharge, _ = cmd.Flags().GetString("discharge")
			skip, _      = cmd.Flags().GetInt("skip")
			sel          = calibration.DefaultSelection
			w            = cmd.OutOrStdout()
			p            = message.NewPrinter(language.English)
		)
		sel.From, _ = cmd.Flags().GetInt("from")
		sel.To, _ = cmd.Flags().GetInt("to")
		sel.Step, _ = cmd.Flags().GetInt("step")
		if tidal == "" && discharge == "" {
			return fmt.Errorf("nothing to calibrate, give --tidal and/or --discharge")
		}
		if tidal != "" {
			var ta *calibration.TidalAnalysis
			if err = readWith(tidal, func(r io.Reader) (err error) {
				ta, err = calibration.ReadTidal(r, sel)
				return
			}); err != nil {
				return
			}
			p.Fprintf(w, "tidal range %s: %d years, trend %.3f mm/yr\n", tidal, len(ta.Yearly), ta.Slope)
			printYears(p, w, ta.Smoothed, "mm")
			p.Fprintf(w, "dH: %.3f\n", ta.SuggestedDH())
		}
		if discharge != "" {
			var da *calibration.DischargeAnalysis
			if err = readWith(discharge, func(r io.Reader) (err error) {
				da, err = calibration.ReadDischarge(r, skip, sel)
				return
			}); err != nil {
				return
			}
			p.Fprintf(w, "discharge %s: %d years, mean %.2f m3/s, max %.2f m3/s\n",
				discharge, len(da.Yearly), da.Mean, da.Max)
			printYears(p, w, da.Smoothed, "m3/s")
			p.Fprintf(w, "Qr0: %.2f\n", da.SuggestedQr0())
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(CalibrateCmd)
	CalibrateCmd.Flags().String("tidal", "", "daily water level CSV")
	CalibrateCmd.Flags().String("discharge", "", "yearly discharge table")
	CalibrateCmd.Flags().Int("skip", 2, "header lines of the discharge table after its comments")
	CalibrateCmd.Flags().Int("from", calibration.DefaultSelection.From, "first selected year")
	CalibrateCmd.Flags().Int("to", calibration.DefaultSelection.To, "selected years stop before this one")
	CalibrateCmd.Flags().Int("step", calibration.DefaultSelection.Step, "years between selected years")
}

func readWith(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err = read(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func printYears(p *message.Printer, w io.Writer, yvs []calibration.YearValue, unit string) {
	for _, yv := range yvs {
		fmt.Fprintf(w, "  %d %s %s\n", yv.Year, p.Sprintf("%12.2f", yv.Value), unit)
	}
}
