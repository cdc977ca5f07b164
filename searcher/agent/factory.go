package agent

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"othello/game"
	"othello/learning"
	"othello/searcher"
)

var ErrInvalidDescriptor = errors.New("invalid player descriptor")

const (
	DefaultSearchDepth = 6
	DefaultCacheSize   = 1 << 20
)

// New builds an agent from a descriptor of the form AI(<decider>,<evaluator>),
// for example AI(MCTS-M2-S5000,Positional) or AI(IterativeMinimax-D8,Cached-Score).
//
// Deciders:
//
//	Random
//	FixedMinimax[-D<depth>]
//	IterativeMinimax[-D<max depth>]
//	MCTS[-R][-M<depth>][-S<max sims>][-T<playout ms>][-P<random chance>]
//
// Evaluators: Score, Positional, Mobility, Cached-<evaluator>, Learned-F<model path>.
// Only the rotation-invariant evaluators can be cached.
// options are passed to the decider.
func New(descriptor string, budget time.Duration, options ...searcher.Option) (Agent, error) {
	deciderPart, evalPart, err := split(descriptor)
	if err != nil {
		return nil, err
	}
	decider, err := NewDecider(deciderPart, options...)
	if err != nil {
		return nil, err
	}
	eval, err := NewEvaluator(evalPart)
	if err != nil {
		return nil, err
	}
	return NewAI(descriptor, decider, eval, budget), nil
}

func split(descriptor string) (string, string, error) {
	inner, ok := strings.CutPrefix(strings.TrimSpace(descriptor), "AI(")
	if !ok || !strings.HasSuffix(inner, ")") {
		return "", "", fmt.Errorf("%w: %q is not of the form AI(<decider>,<evaluator>)", ErrInvalidDescriptor, descriptor)
	}
	deciderPart, evalPart, ok := strings.Cut(strings.TrimSuffix(inner, ")"), ",")
	if !ok {
		return "", "", fmt.Errorf("%w: %q has no evaluator", ErrInvalidDescriptor, descriptor)
	}
	return strings.TrimSpace(deciderPart), strings.TrimSpace(evalPart), nil
}

func NewDecider(descriptor string, options ...searcher.Option) (searcher.Decider, error) {
	parts := strings.Split(descriptor, "-")
	name := parts[0]
	args := lo.Filter(parts[1:], func(arg string, _ int) bool { return arg != "" })
	invalid := func(arg string, err error) error {
		if err != nil {
			return fmt.Errorf("%w: argument %q of %s: %v", ErrInvalidDescriptor, arg, name, err)
		}
		return fmt.Errorf("%w: unknown argument %q for %s", ErrInvalidDescriptor, arg, name)
	}

	switch name {
	case "Random":
		if len(args) > 0 {
			return nil, invalid(args[0], nil)
		}
		return searcher.NewRandom(options...), nil

	case "FixedMinimax", "IterativeMinimax":
		depth := DefaultSearchDepth
		for _, arg := range args {
			if arg[0] != 'D' {
				return nil, invalid(arg, nil)
			}
			n, err := positive(arg[1:])
			if err != nil {
				return nil, invalid(arg, err)
			}
			depth = n
		}
		if name == "FixedMinimax" {
			return searcher.NewFixedMinimax(depth, options...), nil
		}
		return searcher.NewIterativeMinimax(depth, options...), nil

	case "MCTS":
		hybrid := false
		depth := searcher.DefaultPlayoutDepth
		chance := searcher.DefaultRandomChance
		slice := searcher.DefaultPlayoutSlice
		var mctsOptions []searcher.Option
		for _, arg := range args {
			var err error
			switch arg[0] {
			case 'R':
				hybrid = false
			case 'M':
				hybrid = true
				depth, err = positive(arg[1:])
			case 'S':
				var sims int
				sims, err = positive(arg[1:])
				mctsOptions = append(mctsOptions, searcher.WithMaxSimulations(sims))
			case 'T':
				var ms int
				ms, err = positive(arg[1:])
				slice = time.Duration(ms) * time.Millisecond
			case 'P':
				chance, err = strconv.ParseFloat(arg[1:], 64)
				if err == nil && (chance < 0 || chance > 1) {
					err = fmt.Errorf("%v is not a probability", chance)
				}
			default:
				return nil, invalid(arg, nil)
			}
			if err != nil {
				return nil, invalid(arg, err)
			}
		}
		if hybrid {
			mctsOptions = append(mctsOptions, searcher.WithMinimaxPlayouts(depth, chance, slice))
		}
		return searcher.NewMCTS(slices.Concat(options, mctsOptions)...), nil
	}

	return nil, fmt.Errorf("%w: unknown decider %q", ErrInvalidDescriptor, descriptor)
}

func positive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}

func NewEvaluator(descriptor string) (game.Evaluator, error) {
	switch descriptor {
	case "Score":
		return game.ScoreEvaluator, nil
	case "Positional":
		return game.PositionalEvaluator, nil
	case "Mobility":
		return game.MobilityEvaluator, nil
	}

	if inner, ok := strings.CutPrefix(descriptor, "Cached-"); ok {
		// The cache shares entries between rotations, which a learned model tells apart
		if strings.HasPrefix(inner, "Learned-") {
			return nil, fmt.Errorf("%w: evaluator %q depends on board orientation and cannot be cached", ErrInvalidDescriptor, inner)
		}
		eval, err := NewEvaluator(inner)
		if err != nil {
			return nil, err
		}
		return game.NewCachedEvaluator(eval, DefaultCacheSize), nil
	}
	if path, ok := strings.CutPrefix(descriptor, "Learned-F"); ok {
		model, err := learning.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load learned evaluator: %w", err)
		}
		return model, nil
	}

	return nil, fmt.Errorf("%w: unknown evaluator %q", ErrInvalidDescriptor, descriptor)
}
