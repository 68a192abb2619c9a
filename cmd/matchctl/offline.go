package main

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"vessel-match-service/internal/adapters/proximity"
	"vessel-match-service/internal/domain"
	"vessel-match-service/internal/matching"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one offer against one cargo order",
	Long: `Score one offer against one cargo order and print the match result.

Examples:
  matchctl score --offer offer.json --order order.json
  matchctl score --offer offer.json --order order.json --weights size=2,rate=1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}
		weights, err := weightsFlag(cmd)
		if err != nil {
			return err
		}

		var offer domain.VesselOffer
		if err := readJSONFlag(cmd, "offer", &offer); err != nil {
			return err
		}
		var order domain.CargoOrder
		if err := readJSONFlag(cmd, "order", &order); err != nil {
			return err
		}
		return printJSON(cmd, engine.Score(offer, order, weights))
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a JSON array of offers, optionally against an order",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}
		weights, err := weightsFlag(cmd)
		if err != nil {
			return err
		}

		var offers []domain.VesselOffer
		if err := readJSONFlag(cmd, "offers", &offers); err != nil {
			return err
		}

		var ranked []domain.RankedOffer
		if path, _ := cmd.Flags().GetString("order"); path != "" {
			var order domain.CargoOrder
			if err := readJSONFlag(cmd, "order", &order); err != nil {
				return err
			}
			ranked = engine.RankForOrder(offers, order, weights, matching.Filters{})
		} else {
			ranked = engine.Rank(offers, weights, matching.Filters{})
		}

		if n, _ := cmd.Flags().GetInt("limit"); n > 0 && len(ranked) > n {
			ranked = ranked[:n]
		}
		return printJSON(cmd, ranked)
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Pick the best offers from a JSON array of offers",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}
		var offers []domain.VesselOffer
		if err := readJSONFlag(cmd, "offers", &offers); err != nil {
			return err
		}
		return printJSON(cmd, engine.Recommend(offers))
	},
}

var distanceCmd = &cobra.Command{
	Use:   "distance FROM TO",
	Short: "Estimate the sea distance between two ports",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine(cmd)
		if err != nil {
			return err
		}
		out := map[string]any{"from": args[0], "to": args[1], "known": false}
		if nm, ok := engine.EstimateDistance(args[0], args[1]); ok {
			out["known"] = true
			out["nautical_miles"] = nm
		}
		return printJSON(cmd, out)
	},
}

func init() {
	for _, c := range []*cobra.Command{scoreCmd, rankCmd, recommendCmd, distanceCmd} {
		c.Flags().String("anchors", "", "extra port anchor YAML file (defaults to store.anchors_path)")
	}
	for _, c := range []*cobra.Command{scoreCmd, rankCmd} {
		c.Flags().String("weights", "", "factor weights, e.g. size=0.3,laycan=0.2")
		c.Flags().String("order", "", "cargo order JSON file")
	}
	scoreCmd.Flags().String("offer", "", "vessel offer JSON file")
	rankCmd.Flags().String("offers", "", "JSON array of vessel offers")
	rankCmd.Flags().Int("limit", 0, "print at most this many results")
	recommendCmd.Flags().String("offers", "", "JSON array of vessel offers")

	_ = scoreCmd.MarkFlagRequired("offer")
	_ = scoreCmd.MarkFlagRequired("order")
	_ = rankCmd.MarkFlagRequired("offers")
	_ = recommendCmd.MarkFlagRequired("offers")

	rootCmd.AddCommand(scoreCmd, rankCmd, recommendCmd, distanceCmd)
}

func newEngine(cmd *cobra.Command) (*matching.Engine, error) {
	anchors, err := proximity.DefaultAnchors()
	if err != nil {
		return nil, err
	}
	est := proximity.NewTableEstimator(anchors)

	path, _ := cmd.Flags().GetString("anchors")
	if path == "" {
		path = cfg.Store.AnchorsPath
	}
	if path != "" {
		extra, err := proximity.LoadAnchorsFile(path)
		if err != nil {
			return nil, err
		}
		est.Add(extra)
	}
	return matching.NewEngine(cfg.Matching, est), nil
}

// weightsFlag parses --weights; when unset the configured default applies.
func weightsFlag(cmd *cobra.Command) (domain.Weights, error) {
	raw, _ := cmd.Flags().GetString("weights")
	if strings.TrimSpace(raw) == "" {
		return cfg.Matching.Weights, nil
	}
	m, err := parseWeights(raw)
	if err != nil {
		return domain.Weights{}, err
	}
	return domain.WeightsFromMap(m), nil
}

func parseWeights(raw string) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, eris.Errorf("weights: %q is not factor=value", part)
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if !isFactor(name) {
			return nil, eris.Errorf("weights: unknown factor %q", name)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "weights: %s", name)
		}
		out[name] = v
	}
	return out, nil
}

func isFactor(name string) bool {
	for _, f := range domain.Factors() {
		if string(f) == name {
			return true
		}
	}
	return false
}

func readJSONFlag(cmd *cobra.Command, flag string, v any) error {
	path, _ := cmd.Flags().GetString(flag)
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read --%s", flag)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "parse --%s %s", flag, path)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
