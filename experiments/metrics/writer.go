package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type GameRecord struct {
	ID     int
	Script string // record.Script text
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

// Summary aggregates a match between two players over alternating colours.
// Margins are disc differentials from PlayerA's point of view.
type Summary struct {
	PlayerA      string        `yaml:"player_a"`
	PlayerB      string        `yaml:"player_b"`
	Size         int           `yaml:"size"`
	Games        int           `yaml:"games"`
	WinsA        int           `yaml:"wins_a"`
	WinsB        int           `yaml:"wins_b"`
	Draws        int           `yaml:"draws"`
	WinRateA     float64       `yaml:"win_rate_a"`
	MeanMargin   float64       `yaml:"mean_margin"`
	StdDevMargin float64       `yaml:"stddev_margin"`
	MarginError  float64       `yaml:"margin_error_95"` // half width of the 95% interval on MeanMargin
	MeanMoveA    time.Duration `yaml:"mean_move_time_a"`
	MeanMoveB    time.Duration `yaml:"mean_move_time_b"`
	ThroughputA  Throughput    `yaml:"throughput_a"`
	ThroughputB  Throughput    `yaml:"throughput_b"`
	StartTime    time.Time     `yaml:"start_time"`
	EndTime      time.Time     `yaml:"end_time"`
}

// Throughput is the search work a player does per second of thinking
type Throughput struct {
	Nodes       float64 `yaml:"nodes_per_second"`
	Simulations float64 `yaml:"simulations_per_second"`
}

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of root named by the current timestamp
func NewWriter(root string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(root, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	path := filepath.Join(w.baseDir, "game_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create game records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "dark", "light", "winner", "dark_score", "light_score", "moves", "start_time", "end_time", "duration", "script"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write game records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.ID),
			record.Dark,
			record.Light,
			record.Winner.String(),
			strconv.Itoa(record.DarkScore),
			strconv.Itoa(record.LightScore),
			strconv.Itoa(record.TotalMoves),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			record.Script,
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write game record row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	path := filepath.Join(w.baseDir, "move_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create move records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"game", "step", "player", "move", "decider", "duration", "nodes", "depth", "simulations", "iterations", "score"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write move records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player.String(),
			record.Move.String(),
			record.Decider,
			record.Duration.String(),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Depth),
			strconv.Itoa(record.Simulations),
			strconv.Itoa(record.Iterations),
			strconv.FormatFloat(record.Score, 'g', -1, 64),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write move record row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteSummary(summary Summary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	path := filepath.Join(w.baseDir, "summary.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
