package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/alexgrove/dealflow-cli/internal/dedup"
	"github.com/alexgrove/dealflow-cli/internal/filter"
	"github.com/alexgrove/dealflow-cli/internal/model"
	"github.com/alexgrove/dealflow-cli/internal/scorer"
)

var (
	scoreJSONPath string
	scoreCompany  string
	scoreStage    string
	scoreAmount   float64
	scoreAI       bool
	scoreSectors  string
	scoreCountry  string
	scoreMentions int
	scoreConf     float64
	scorePreset   string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single deal against the active filter configuration",
	Long: `Score one deal record and print the breakdown.

The record comes either from a JSON file (--json) or from flags.

Examples:
  # Score from flags
  score --company "SolarTech" --stage seed --ai --amount 5000000 \
        --sectors "Climate Tech - Energy & Grid" --country US

  # Score a JSON record under the strict preset
  score --json deal.json --preset alex_strict`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		record, err := scoreInput()
		if err != nil {
			return err
		}

		filterCfg, err := activeFilter()
		if err != nil {
			return err
		}
		if scorePreset != "" {
			filterCfg, err = filter.ApplyPreset(scorePreset)
			if err != nil {
				return err
			}
		}

		result, err := scorer.Score(record, filterCfg)
		if err != nil {
			return eris.Wrap(err, "score deal")
		}

		printScore(cmd, record, result)
		return nil
	},
}

func init() {
	f := scoreCmd.Flags()
	f.StringVar(&scoreJSONPath, "json", "", "path to a JSON deal record")
	f.StringVar(&scoreCompany, "company", "", "company name")
	f.StringVar(&scoreStage, "stage", "", "funding stage (e.g. seed, series a)")
	f.Float64Var(&scoreAmount, "amount", -1, "amount raised in USD (-1 = unknown)")
	f.BoolVar(&scoreAI, "ai", false, "deal has an AI focus")
	f.StringVar(&scoreSectors, "sectors", "", "semicolon-separated climate sectors")
	f.StringVar(&scoreCountry, "country", "", "headquarters country")
	f.IntVar(&scoreMentions, "mentions", 0, "media mention count")
	f.Float64Var(&scoreConf, "confidence", 0.5, "extraction confidence [0,1]")
	f.StringVar(&scorePreset, "preset", "", "filter preset override")
	rootCmd.AddCommand(scoreCmd)
}

func scoreInput() (model.DealRecord, error) {
	if scoreJSONPath != "" {
		data, err := os.ReadFile(scoreJSONPath)
		if err != nil {
			return model.DealRecord{}, eris.Wrapf(err, "read deal json %s", scoreJSONPath)
		}
		var record model.DealRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return model.DealRecord{}, eris.Wrap(err, "parse deal json")
		}
		return record, nil
	}

	record := model.DealRecord{
		CompanyName:         scoreCompany,
		FundingStage:        model.NormalizeStage(scoreStage),
		HasAIFocus:          scoreAI,
		HeadquartersCountry: scoreCountry,
		MediaMentions:       scoreMentions,
		ConfidenceScore:     scoreConf,
	}
	if scoreAmount >= 0 {
		record.AmountRaisedUSD = &scoreAmount
	}
	for _, s := range strings.Split(scoreSectors, ";") {
		if s = strings.TrimSpace(s); s != "" {
			record.ClimateSectors = append(record.ClimateSectors, s)
		}
	}
	return record, nil
}

func printScore(cmd *cobra.Command, record model.DealRecord, result model.ScoreResult) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s  (fingerprint %s)\n", record.CompanyName, dedup.Fingerprint(record))
	if result.Rejected {
		fmt.Fprintf(out, "REJECTED — failed strict %s criterion\n", result.RejectionReason)
		return
	}
	for _, factor := range result.Factors {
		fmt.Fprintf(out, "  %-16s %+d\n", factor.Criterion, factor.Points)
	}
	fmt.Fprintf(out, "score: %d/100\n", result.Score)
}
