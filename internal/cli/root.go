// Package ccdbench wires the cobra command tree of the ccdbench binary.
package ccdbench

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/appconfig"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/logging"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/record"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/suite"
)

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"debug":          "debug",
	"data-dir":       "dataDir",
	"suite":          "suite",
	"log-file":       "logFile",
	"threshold":      "threshold",
	"format":         "format",
	"out-dir":        "outDir",
	"spreadsheet-id": "spreadsheetId",
	"index-column":   "indexColumn",
}

// app holds the state shared by every command of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string

	collisionType string
	dataset       string

	cfg   appconfig.Config
	suite *suite.Suite
	ct    record.CollisionType
}

// NewRootCmd builds the ccdbench command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "ccdbench",
		Short:         "ccdbench aggregates CCD benchmark records into report tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (JSON or YAML)")
	pf.Bool("debug", false, "dump loaded records")
	pf.String("data-dir", "", "benchmark data root (default \"data\")")
	pf.String("suite", "", "scene/method manifest (default built-in)")
	pf.String("log-file", "", "log file (default \"ccdbench.log\")")
	pf.StringVarP(&a.collisionType, "collision-type", "t", string(record.VertexFace), "vertex-face or edge-edge")
	pf.StringVarP(&a.dataset, "dataset", "d", suite.AllDatasets, "dataset to report")

	root.AddCommand(
		newTableCmd(a),
		newSweepCmd(a),
		newTimingsCmd(a),
		newPublishCmd(a),
		newPlotCmd(a),
		newRoundingCmd(a),
		newQueriesCmd(a),
		newBrowseCmd(a),
		newShowCmd(a),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := NewRootCmd().Execute()
	_ = logging.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup merges flags > config file > defaults into a.cfg and initializes logging.
func (a *app) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	used, err := a.readConfig(cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	// Copy config values into unset flags so both report the final value.
	if !cmd.Flags().Changed("debug") {
		_ = cmd.Flags().Set("debug", strconv.FormatBool(a.v.GetBool("debug")))
	}

	var cfg appconfig.Config
	if err := a.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigPath = used
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	s, err := suite.LoadFromFile(cfg.Suite)
	if err != nil {
		return err
	}
	a.suite = s

	ct, err := record.ParseCollisionType(a.collisionType)
	if err != nil {
		return err
	}
	a.ct = ct

	return logging.Init(cfg.LogFilePath())
}

// readConfig reads the config file and returns its path. A missing file is
// fine unless it was named explicitly. JSON files go through appconfig.Load;
// other formats are left to viper.
func (a *app) readConfig(explicit bool) (string, error) {
	if a.cfgFile == "" {
		return "", nil
	}
	var err error
	if strings.EqualFold(filepath.Ext(a.cfgFile), ".json") {
		err = a.mergeJSONConfig(a.cfgFile)
	} else {
		a.v.SetConfigFile(a.cfgFile)
		err = a.v.ReadInConfig()
	}
	if err == nil {
		return a.cfgFile, nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !explicit && (errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)) {
		return "", nil
	}
	return "", fmt.Errorf("failed to load config: %w", err)
}

// mergeJSONConfig loads and validates a JSON config and merges the keys it
// sets beneath the flags.
func (a *app) mergeJSONConfig(path string) error {
	cfg, err := appconfig.Load(path)
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	return a.v.MergeConfigMap(settings)
}

func (a *app) scenes() ([]string, error) {
	return a.suite.Scenes(a.dataset)
}

// loadRecords reads the kind records of the selected dataset.
func (a *app) loadRecords(w io.Writer, kind record.Kind) ([]record.Record, error) {
	scenes, err := a.scenes()
	if err != nil {
		return nil, err
	}
	recs, err := record.Load(a.cfg.DataDirPath(), a.ct, scenes, kind)
	if err != nil {
		return nil, err
	}
	logging.LogEvent("loaded %d %s records (%s, %s)", len(recs), kind, a.ct, a.dataset)
	if a.cfg.Debug {
		pp.Fprintln(w, recs)
	}
	return recs, nil
}

// writeOutput writes to path, or to fallback when path is empty.
func writeOutput(path string, fallback io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(fallback)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logging.LogEvent("wrote %s", path)
	return nil
}
