package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"othello/config"
	"othello/experiments"
	"othello/learning"
	"othello/record"
)

const usage = `usage: othello [flags] <command>

commands:
  match            play --games games between --dark and --light
  train            fit a learned evaluator to the archived games
  replay <script>  replay and check a game script (text or file)`

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	level, _ := cfg.Level()
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("othello failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if len(cfg.Args) == 0 {
		return errors.New(usage)
	}
	switch cfg.Args[0] {
	case "match":
		return runMatch(ctx, cfg)
	case "train":
		return runTrain(ctx, cfg)
	case "replay":
		if len(cfg.Args) != 2 {
			return errors.New(usage)
		}
		return runReplay(cfg.Args[1])
	}
	return fmt.Errorf("unknown command %q\n%s", cfg.Args[0], usage)
}

func runMatch(ctx context.Context, cfg *config.Config) error {
	match := experiments.Match{
		PlayerA:     cfg.Dark,
		PlayerB:     cfg.Light,
		Size:        cfg.Size,
		Games:       cfg.Games,
		Concurrency: cfg.Concurrency,
		Budget:      cfg.Budget,
		Alternate:   cfg.Alternate,
		Seed:        cfg.Seed,
		Output:      cfg.Output,
	}
	if cfg.Archive != "" {
		archive, err := record.OpenArchive(ctx, cfg.Archive)
		if err != nil {
			return err
		}
		defer archive.Close()
		match.Archive = archive
	}

	summary, err := match.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d wins\n%s: %d wins\ndraws: %d\nmean margin: %.2f ± %.2f\n",
		summary.PlayerA, summary.WinsA, summary.PlayerB, summary.WinsB, summary.Draws,
		summary.MeanMargin, summary.MarginError)
	return nil
}

func runTrain(ctx context.Context, cfg *config.Config) error {
	if cfg.Archive == "" {
		return errors.New("train needs --archive")
	}
	archive, err := record.OpenArchive(ctx, cfg.Archive)
	if err != nil {
		return err
	}
	defer archive.Close()

	entries, err := archive.All(ctx, cfg.Size)
	if err != nil {
		return err
	}
	scripts := lo.Map(entries, func(e record.Entry, _ int) *record.Script { return e.Script })
	examples, err := learning.Dataset(cfg.Size, scripts)
	if err != nil {
		return err
	}
	log.Info().Msgf("training on %d positions from %d games", len(examples), len(scripts))

	modelConfig := learning.DefaultConfig()
	modelConfig.LearningRate = cfg.LearningRate
	model := learning.NewModel(cfg.Size, modelConfig)
	if _, err := model.Train(ctx, examples, cfg.Epochs); err != nil {
		return err
	}
	if err := model.Save(cfg.Model); err != nil {
		return err
	}
	log.Info().Msgf("saved model to %s", cfg.Model)
	return nil
}

func runReplay(arg string) error {
	text := arg
	if data, err := os.ReadFile(arg); err == nil {
		text = string(data)
	}
	script, err := record.Parse(strings.TrimSpace(text))
	if err != nil {
		return err
	}
	final, err := script.Validate()
	if final != nil {
		fmt.Println(final)
	}
	if err != nil {
		return err
	}
	fmt.Printf("dark %d, light %d, winner %v\n", script.DarkScore, script.LightScore, final.Winner())
	return nil
}
