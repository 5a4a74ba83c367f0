package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"
)

var (
	useRadians bool
	useComma   bool
	precision  int
	maxHistory int
	verbose    bool
)

// rootCmd evaluates the equation given as arguments.
var rootCmd = &cobra.Command{
	Use:   "calc [flags] <equation...>",
	Short: "Evaluate arithmetic equations written as text",
	Long: `Calc evaluates equations such as "2(3 + 4)^2", "log2(8)" or "3√27".

Operators: + - * / %, powers (^ E), roots (R √), factorials (n!).
Constants: pi, π, e. Functions: log<base>(x), ln, sin, cos, tan,
cosin (arcsine), cocos (arccosine), cotan (arctangent).

Use "--" before an equation that starts with a minus sign.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			return nil
		}
		return observability.InitLogger("debug", true)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}

		session, err := newSession()
		if err != nil {
			return err
		}

		equation := strings.Join(args, " ")
		if _, err := session.Evaluate(equation); err != nil {
			observability.Logger.Debug("evaluation failed",
				zap.String("equation", equation),
				zap.String("kind", string(calculator.KindOf(err))),
				zap.Error(err),
			)
			return err
		}

		result, _ := session.LastResult()
		observability.Logger.Debug("evaluation completed",
			zap.String("equation", equation),
			zap.String("result", result),
		)
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return nil
	},
}

func newSession() (*calculator.Session, error) {
	return calculator.NewSession(calculator.Settings{
		UsesRadians:                 useRadians,
		UsesPointAsDecimalSeparator: !useComma,
		RoundingPrecision:           precision,
		MaxNumberOfResult:           maxHistory,
	})
}

func main() {
	defer observability.SyncLogger()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("%s", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&useRadians, "radians", false, "Use radians instead of degrees for trigonometric functions")
	rootCmd.PersistentFlags().BoolVar(&useComma, "comma", false, "Use ',' as the decimal separator")
	rootCmd.PersistentFlags().IntVar(&precision, "precision", calculator.MaxRoundingPrecision, "Number of decimal digits results are rounded to (0-15)")
	rootCmd.PersistentFlags().IntVar(&maxHistory, "history", calculator.DefaultMaxNumberOfResult, "Number of calculations kept in the history")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(replCmd)
}
