package riskwatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Sowmya0137/riskwatch/internal/analyzer"
	"github.com/Sowmya0137/riskwatch/internal/report"
	"github.com/Sowmya0137/riskwatch/internal/risk"
	"github.com/Sowmya0137/riskwatch/internal/types"
	"github.com/spf13/cobra"
)

var (
	flagFile        string
	flagContentType string
	flagShowMatches bool
	flagFailOn      string
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Score text from arguments, a file or stdin",
		Example: `  riskwatch analyze "call me on 9876543210"
  echo "verify your account at http://192.168.0.7/login" | riskwatch analyze --profile pii
  riskwatch analyze -f message.txt --json --fail-on HIGH`,
		RunE: runAnalyze,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagFile, "file", "f", "", "read text from this file ('-' for stdin)")
	cmd.Flags().StringVar(&flagContentType, "content-type", "cli", "content type recorded on the assessment")
	cmd.Flags().BoolVar(&flagShowMatches, "show-matches", false, "print matched text unmasked")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "exit 1 when the level is at or above this (LOW|MEDIUM|HIGH|CRITICAL)")
}

// analyzeOutput is the --json shape.
type analyzeOutput struct {
	Score             int                 `json:"score"`
	Level             types.Level         `json:"risk_level"`
	Profile           string              `json:"profile"`
	Reason            string              `json:"reason"`
	ContentType       string              `json:"content_type"`
	DetectedRisks     []types.Category    `json:"detected_risks"`
	Recommendations   []string            `json:"recommendations"`
	RecommendationIDs []string            `json:"recommendation_ids"`
	Matches           map[string][]string `json:"matches,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	s, err := loadSettings()
	if err != nil {
		return err
	}
	log, err := newLogger(cmd.ErrOrStderr(), s.LogLevel, s.LogFormat)
	if err != nil {
		return err
	}
	s.CacheSize = 0
	a, err := buildAnalyzer(s, nil, nil, log)
	if err != nil {
		return err
	}
	res, err := a.Analyze(context.Background(), analyzer.Request{Text: text, ContentType: flagContentType})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	as := res.Assessment
	if flagJSON {
		o := analyzeOutput{
			Score:             as.Score,
			Level:             as.Level,
			Profile:           as.Profile,
			Reason:            as.Reason,
			ContentType:       as.ContentType,
			DetectedRisks:     as.DetectedCategories,
			Recommendations:   risk.Texts(as.Recommendations),
			RecommendationIDs: as.Recommendations,
		}
		if o.DetectedRisks == nil {
			o.DetectedRisks = []types.Category{}
		}
		if flagShowMatches {
			o.Matches = map[string][]string{}
			for _, c := range as.DetectedCategories {
				o.Matches[string(c)] = res.Detections[c]
			}
		}
		if err := report.PrintJSON(out, o); err != nil {
			return err
		}
	} else {
		report.PrintAssessment(out, as, res.Detections, report.PrintOptions{
			NoColor:     !report.ColorEnabled(out, flagNoColor),
			ShowMatches: flagShowMatches,
		})
	}

	fail, err := shouldFail(as.Level, flagFailOn)
	if err != nil {
		return err
	}
	if fail {
		os.Exit(1)
	}
	return nil
}

func readInput(args []string, stdin io.Reader) (string, error) {
	switch {
	case flagFile != "" && flagFile != "-":
		b, err := os.ReadFile(flagFile)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case len(args) > 0 && flagFile == "":
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", errors.New("no text given: pass it as arguments, with --file, or on stdin")
	}
	return string(b), nil
}

var levelRank = map[types.Level]int{
	types.LevelSafe:     0,
	types.LevelLow:      1,
	types.LevelMedium:   2,
	types.LevelHigh:     3,
	types.LevelCritical: 4,
}

// shouldFail reports whether level reaches the --fail-on threshold. An
// empty threshold never fails.
func shouldFail(level types.Level, failOn string) (bool, error) {
	if failOn == "" {
		return false, nil
	}
	th, ok := levelRank[types.Level(strings.ToUpper(failOn))]
	if !ok {
		return false, fmt.Errorf("invalid --fail-on %q", failOn)
	}
	return levelRank[level] >= th, nil
}
