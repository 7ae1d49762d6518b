package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/ahi/config"
	"github.com/dhamidi/ahi/ebnf/grammar"
	"github.com/dhamidi/ahi/suggest"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("ahi")

// app carries the state shared by all commands: the global flags and the
// config they select.
type app struct {
	configPath string
	verbosity  int
	logFile    string

	grammarPath string
	start       string
	hidden      []string

	cfg     *config.Config
	cfgPath string
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "ahi",
		Short: "Grammar-driven code completion",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.config/ahi/config.toml)")
	flags.CountVarP(&a.verbosity, "verbose", "v", "increase log verbosity")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to a file instead of stderr")
	flags.StringVarP(&a.grammarPath, "grammar", "g", "", "EBNF grammar file (overrides grammar.path)")
	flags.StringVar(&a.start, "start", "", "start production (overrides grammar.start)")
	flags.StringSliceVar(&a.hidden, "hidden", nil, "hidden token productions (overrides grammar.hidden)")

	rootCmd.AddCommand(newEbnfCmd(a))
	rootCmd.AddCommand(newTokensCmd(a))
	rootCmd.AddCommand(newSuggestCmd(a))
	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newReplCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// skipConfig marks commands that run without reading the config file.
const skipConfig = "skip-config"

// setup configures logging and loads the config file.
func (a *app) setup(cmd *cobra.Command) error {
	if a.logFile != "" {
		commonlog.Configure(a.verbosity-1, &a.logFile)
	} else {
		commonlog.Configure(a.verbosity-1, nil)
	}

	if cmd.Annotations[skipConfig] != "" {
		a.cfg = config.Default()
		return nil
	}

	cfg, path, err := config.LoadWithPriority(a.configPath)
	if err != nil {
		return err
	}
	a.cfg, a.cfgPath = cfg, path
	return nil
}

// loadGrammar compiles the grammar selected by flags or config. A path given
// as argument wins over both.
func (a *app) loadGrammar(path string) (*grammar.Grammar, error) {
	var opts []grammar.Option

	start := a.cfg.Grammar.Start
	if a.start != "" {
		start = a.start
	}
	if start != "" {
		opts = append(opts, grammar.WithStart(start))
	}

	hidden := a.cfg.Grammar.Hidden
	if a.hidden != nil {
		hidden = a.hidden
	}
	if len(hidden) > 0 {
		opts = append(opts, grammar.WithHidden(hidden...))
	}

	if path == "" {
		path = a.grammarPath
	}
	if path == "" {
		path = a.cfg.GrammarPath()
	}
	if path == "" {
		return nil, errors.New("no grammar: pass --grammar or set grammar.path in the config")
	}

	g, err := grammar.Load(path, opts...)
	if err != nil {
		if n := errorCount(err); n > 1 {
			printErrors(os.Stderr, err)
			return nil, fmt.Errorf("load grammar %s: %d errors", path, n)
		}
		return nil, fmt.Errorf("load grammar %s: %w", path, err)
	}
	log.Debugf("compiled %s: %d token kinds, start %s", path, g.Kinds(), g.Start())
	return g, nil
}

// newSuggester builds a suggester for g. An empty casePref falls back to the
// config.
func (a *app) newSuggester(g *grammar.Grammar, casePref string) (*suggest.Suggester, error) {
	if casePref == "" {
		casePref = a.cfg.Suggest.Case
	}
	pref, err := suggest.ParseCasePreference(casePref)
	if err != nil {
		return nil, err
	}
	return suggest.New(g, suggest.WithCasePreference(pref))
}

// inputArg returns the single input argument, or all of stdin when there is
// none.
func inputArg(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
