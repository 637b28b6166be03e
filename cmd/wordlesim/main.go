package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/Clara-Ye/MIT9.66/assoc"
	"github.com/Clara-Ye/MIT9.66/corpus"
	"github.com/Clara-Ye/MIT9.66/game"
	"github.com/Clara-Ye/MIT9.66/retrieve"
	"github.com/Clara-Ye/MIT9.66/stem"
)

// gameConfig carries the flag destinations shared by the play and
// collect commands.
type gameConfig struct {
	attempts       int
	minLength      int
	maxLength      int
	minFrequency   int
	threshold      float64
	decay          float64
	sigma          float64
	grayPenalty    float64
	posPenalty     float64
	validThreshold float64
	policy         string
}

func defaultGameConfig() gameConfig {
	cfg := game.DefaultConfig()
	return gameConfig{
		attempts:       cfg.AttemptLimit,
		minLength:      cfg.MinWordLength,
		maxLength:      cfg.MaxWordLength,
		minFrequency:   cfg.MinFrequency,
		threshold:      cfg.Thresholds.Start,
		decay:          cfg.Thresholds.Decay,
		sigma:          cfg.Params.Sigma,
		grayPenalty:    cfg.Params.GrayPenalty,
		posPenalty:     cfg.Params.PosPenalty,
		validThreshold: cfg.Params.ValidThreshold,
		policy:         cfg.Params.Policy.String(),
	}
}

// flags returns a fresh flag set writing into this config, so every
// command can carry its own instances.
func (c *gameConfig) flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "attempts",
			Value:       c.attempts,
			Usage:       "attempt limit per game",
			Destination: &c.attempts,
		},
		&cli.IntFlag{
			Name:        "min-length",
			Value:       c.minLength,
			Usage:       "shortest answer drawn from the corpus",
			Destination: &c.minLength,
		},
		&cli.IntFlag{
			Name:        "max-length",
			Value:       c.maxLength,
			Usage:       "longest answer drawn from the corpus",
			Destination: &c.maxLength,
		},
		&cli.IntFlag{
			Name:        "min-frequency",
			Value:       c.minFrequency,
			Usage:       "lowest corpus frequency for an answer",
			Destination: &c.minFrequency,
		},
		&cli.FloatFlag{
			Name:        "threshold",
			Value:       c.threshold,
			Usage:       "starting probability threshold for model guesses",
			Destination: &c.threshold,
		},
		&cli.FloatFlag{
			Name:        "threshold-decay",
			Value:       c.decay,
			Usage:       "threshold multiplier applied per model guess",
			Destination: &c.decay,
		},
		&cli.FloatFlag{
			Name:        "sigma",
			Value:       c.sigma,
			Usage:       "score smoothing constant",
			Destination: &c.sigma,
		},
		&cli.FloatFlag{
			Name:        "gray-penalty",
			Value:       c.grayPenalty,
			Usage:       "score factor per known-absent letter occurrence",
			Destination: &c.grayPenalty,
		},
		&cli.FloatFlag{
			Name:        "pos-penalty",
			Value:       c.posPenalty,
			Usage:       "score factor for a fragment in the wrong half",
			Destination: &c.posPenalty,
		},
		&cli.FloatFlag{
			Name:        "valid-threshold",
			Value:       c.validThreshold,
			Usage:       "minimum validity for soft acceptance",
			Destination: &c.validThreshold,
		},
		&cli.StringFlag{
			Name:        "policy",
			Value:       c.policy,
			Usage:       "hint match policy: soft or strict",
			Destination: &c.policy,
		},
	}
}

// build resolves the flag values into a game config for one strategy.
func (c gameConfig) build(strategy string) (game.Config, error) {
	st, err := retrieve.ParseStrategy(strategy)
	if err != nil {
		return game.Config{}, err
	}
	pol, err := retrieve.ParsePolicy(c.policy)
	if err != nil {
		return game.Config{}, err
	}
	cfg := game.DefaultConfig()
	cfg.AttemptLimit = c.attempts
	cfg.MinWordLength = c.minLength
	cfg.MaxWordLength = c.maxLength
	cfg.MinFrequency = c.minFrequency
	cfg.Thresholds = retrieve.ThresholdPolicy{Start: c.threshold, Decay: c.decay}
	cfg.Params.Sigma = c.sigma
	cfg.Params.GrayPenalty = c.grayPenalty
	cfg.Params.PosPenalty = c.posPenalty
	cfg.Params.ValidThreshold = c.validThreshold
	cfg.Params.Policy = pol
	cfg.Params.Strategy = st
	return cfg, nil
}

func seededRand(seed int) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(int64(seed)))
}

func cleanCorpus(rawPath, outPath string) error {
	f, err := os.Open(rawPath)
	if err != nil {
		return err
	}
	rows, err := corpus.Clean(f)
	f.Close()
	if err != nil {
		return err
	}
	if err := corpus.Save(outPath, rows); err != nil {
		return err
	}
	fmt.Printf("%d words -> %s\n", len(rows), outPath)
	return nil
}

// etaPath inserts the decimal digits of eta before the file extension, so
// learning with eta 0.2 into tables.json writes tables_02.json.
func etaPath(path string, eta float64) string {
	tag := strconv.FormatFloat(eta, 'f', -1, 64)
	if !strings.Contains(tag, ".") {
		tag += ".0"
	}
	tag = strings.ReplaceAll(tag, ".", "")
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + tag + ext
}

func learnTables(corpusPath, outPath string, etas []float64, nu float64, seed int, progress bool) error {
	rows, err := corpus.Load(corpusPath)
	if err != nil {
		return err
	}
	for _, eta := range etas {
		table := assoc.Learn(rows, eta, nu, seededRand(seed), progress)
		path := outPath
		if len(etas) > 1 {
			path = etaPath(outPath, eta)
		}
		if err := table.Save(path); err != nil {
			return err
		}
		fmt.Printf("eta %g: %d stems, %d associations -> %s\n", eta, len(table), table.Size(), path)
	}
	return nil
}

// parseStemArgs turns command arguments into stem keys. An explicit
// FRAGMENT|TAG form is taken as is, boundary markers pin their own half,
// and a bare fragment fans out over both halves.
func parseStemArgs(args []string) ([]stem.Key, error) {
	keys := make([]stem.Key, 0, len(args))
	for _, arg := range args {
		arg = strings.ToUpper(arg)
		if strings.ContainsRune(arg, '|') {
			k, err := stem.ParseKey(arg)
			if err != nil {
				return nil, err
			}
			keys = append(keys, k)
			continue
		}
		switch {
		case strings.HasSuffix(arg, "*"):
			keys = append(keys, stem.Key{Fragment: arg, Half: stem.FirstHalf})
		case strings.HasPrefix(arg, "*"):
			keys = append(keys, stem.Key{Fragment: arg, Half: stem.SecondHalf})
		default:
			keys = append(keys,
				stem.Key{Fragment: arg, Half: stem.FirstHalf},
				stem.Key{Fragment: arg, Half: stem.SecondHalf})
		}
	}
	return keys, nil
}

func topCandidates(tablePath string, args []string, length, n int) error {
	table, err := assoc.LoadTable(tablePath)
	if err != nil {
		return err
	}
	keys, err := parseStemArgs(args)
	if err != nil {
		return err
	}
	for i, c := range retrieve.Top(keys, length, table, retrieve.DefaultParams(), n) {
		fmt.Printf("%2d  %-10s %.6f\n", i+1, c.Word, c.Score)
	}
	return nil
}

func playGame(gc gameConfig, strategy, tablePath, truth, corpusPath string, rng *rand.Rand) error {
	cfg, err := gc.build(strategy)
	if err != nil {
		return err
	}
	table, err := assoc.LoadTable(tablePath)
	if err != nil {
		return err
	}
	if truth == "" {
		rows, err := corpus.Load(corpusPath)
		if err != nil {
			return err
		}
		words := corpus.Filter(rows, cfg.MinWordLength, cfg.MaxWordLength, cfg.MinFrequency)
		truth, err = game.RandomAnswer(words, rng)
		if err != nil {
			return err
		}
	}
	game.NewSession(cfg, truth, table, rng).Play(os.Stdin, os.Stdout)
	return nil
}

func collectResults(gc gameConfig, tablePaths, strategies []string, outPath string, rng *rand.Rand, progress bool) error {
	if len(strategies) == 0 {
		strategies = []string{"vowels", "optimal", "popular", "random"}
	}
	results := make(map[string]map[string]game.Result)
	for _, tablePath := range tablePaths {
		table, err := assoc.LoadTable(tablePath)
		if err != nil {
			return err
		}
		base := strings.TrimSuffix(filepath.Base(tablePath), filepath.Ext(tablePath))
		for _, strategy := range strategies {
			cfg, err := gc.build(strategy)
			if err != nil {
				return err
			}
			label := base + "_" + strategy
			fmt.Println("collecting", label)
			results[label] = game.Collect(cfg, game.Benchmark, table, rng, progress)
		}
	}
	return game.SaveResults(outPath, results)
}

func summarizeResults(resultsPath, outPath string) error {
	results, err := game.LoadResults(resultsPath)
	if err != nil {
		return err
	}
	rows := game.Summarize(results)
	if outPath == "" {
		return game.WriteSummaryCSV(os.Stdout, rows)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := game.WriteSummaryCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	seed := 0
	progress := false
	gc := defaultGameConfig()
	// command specific flags
	corpusPath := ""
	outPath := ""
	nu := 0.9
	tablePath := ""
	length := 5
	topN := 10
	truth := ""
	strategy := retrieve.StartVowels.String()
	resultsPath := ""

	cmd := &cli.Command{
		Name:  "wordlesim",
		Usage: "wordle played by a stem-association retrieval model",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "seed",
				Value:       0,
				Aliases:     []string{"s"},
				Usage:       "random seed, 0 seeds from the clock",
				Destination: &seed,
			},
			&cli.BoolFlag{
				Name:        "progress",
				Value:       false,
				Aliases:     []string{"p"},
				Usage:       "show progress bars",
				Destination: &progress,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "clean",
				Usage: "clean RAWLIST OUT.csv: parse a raw frequency list into a corpus",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg() != 2 {
						return cli.Exit("clean needs a raw list and an output path", 1)
					}
					return cleanCorpus(cmd.Args().Get(0), cmd.Args().Get(1))
				},
			},
			{
				Name:  "learn",
				Usage: "learn stem associations from a corpus, one table per --eta",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "corpus",
						Usage:       "corpus csv to learn from",
						Destination: &corpusPath,
					},
					&cli.StringFlag{
						Name:        "output",
						Aliases:     []string{"o"},
						Usage:       "table json to write",
						Destination: &outPath,
					},
					&cli.FloatSliceFlag{
						Name:  "eta",
						Value: []float64{0},
						Usage: "length decay rate, repeat to learn several tables",
					},
					&cli.FloatFlag{
						Name:        "nu",
						Value:       nu,
						Usage:       "positional attention discount",
						Destination: &nu,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if corpusPath == "" || outPath == "" {
						return cli.Exit("learn needs --corpus and --output", 1)
					}
					return learnTables(corpusPath, outPath, cmd.FloatSlice("eta"), nu, seed, progress)
				},
			},
			{
				Name:  "top",
				Usage: "top STEM...: print the best candidates for the given stems",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "table",
						Aliases:     []string{"t"},
						Usage:       "association table json",
						Destination: &tablePath,
					},
					&cli.IntFlag{
						Name:        "length",
						Aliases:     []string{"l"},
						Value:       length,
						Usage:       "target word length",
						Destination: &length,
					},
					&cli.IntFlag{
						Name:        "n",
						Value:       topN,
						Usage:       "how many candidates to print",
						Destination: &topN,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if tablePath == "" {
						return cli.Exit("top needs --table", 1)
					}
					if cmd.NArg() < 1 {
						return cli.Exit("top needs at least one stem, e.g. CL or E* or D|SECOND_HALF", 1)
					}
					return topCandidates(tablePath, cmd.Args().Slice(), length, topN)
				},
			},
			{
				Name:  "play",
				Usage: "play one interactive game against the model",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:        "table",
						Aliases:     []string{"t"},
						Usage:       "association table json",
						Destination: &tablePath,
					},
					&cli.StringFlag{
						Name:        "truth",
						Usage:       "fixed answer, drawn from --corpus when empty",
						Destination: &truth,
					},
					&cli.StringFlag{
						Name:        "corpus",
						Usage:       "corpus csv to draw the answer from",
						Destination: &corpusPath,
					},
					&cli.StringFlag{
						Name:        "strategy",
						Value:       strategy,
						Usage:       "opening strategy: vowels, optimal, popular or random",
						Destination: &strategy,
					},
				}, gc.flags()...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if tablePath == "" {
						return cli.Exit("play needs --table", 1)
					}
					if truth == "" && corpusPath == "" {
						return cli.Exit("play needs --truth or --corpus", 1)
					}
					return playGame(gc, strategy, tablePath, truth, corpusPath, seededRand(seed))
				},
			},
			{
				Name:  "collect",
				Usage: "run the benchmark list against tables and strategies",
				Flags: append([]cli.Flag{
					&cli.StringSliceFlag{
						Name:    "table",
						Aliases: []string{"t"},
						Usage:   "association table json, repeatable",
					},
					&cli.StringSliceFlag{
						Name:  "strategy",
						Usage: "opening strategy, repeatable, default all four",
					},
					&cli.StringFlag{
						Name:        "output",
						Aliases:     []string{"o"},
						Usage:       "results json to write",
						Destination: &outPath,
					},
				}, gc.flags()...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					tables := cmd.StringSlice("table")
					if len(tables) == 0 || outPath == "" {
						return cli.Exit("collect needs --table and --output", 1)
					}
					return collectResults(gc, tables, cmd.StringSlice("strategy"), outPath, seededRand(seed), progress)
				},
			},
			{
				Name:  "summary",
				Usage: "reduce collected results to per-configuration rates",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "results",
						Usage:       "results json written by collect",
						Destination: &resultsPath,
					},
					&cli.StringFlag{
						Name:        "output",
						Aliases:     []string{"o"},
						Usage:       "summary csv, stdout when empty",
						Destination: &outPath,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if resultsPath == "" {
						return cli.Exit("summary needs --results", 1)
					}
					return summarizeResults(resultsPath, outPath)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
