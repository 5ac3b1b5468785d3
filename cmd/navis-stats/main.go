package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/chrissnell/marinewx/internal/constants"
	"github.com/chrissnell/marinewx/internal/log"
	stations "github.com/chrissnell/marinewx/internal/weatherstations/navis"
	"github.com/chrissnell/marinewx/pkg/config"
	"github.com/chrissnell/marinewx/pkg/navis"
	"github.com/chrissnell/marinewx/pkg/responseformat"
)

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to configuration source (YAML file or SQLite database)")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' or 'sqlite'")
	stationName := flag.String("station", "", "Station to query (may be omitted when only one is configured)")
	minutes := flag.Int("minutes", 0, "History window in minutes (default: the station's configured window, or 60)")
	format := flag.String("format", "text", "Output format: 'text', 'json' or 'msgpack'")
	dirRange := flag.String("direction-range", "", "Direction filter: 'compass' (0-360) or 'raw' (0-511); overrides the station config")
	decodeHex := flag.String("decode", "", "Decode a single hex record and exit")
	batchFile := flag.String("batch", "", "Summarise a saved history response from a file ('-' for stdin) and exit")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("navis-stats %s\n", constants.Version)
		os.Exit(0)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	formatter, err := responseformat.NewFormatter(*format)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	var rangeOverride *navis.DirectionRange
	if *dirRange != "" {
		r, err := navis.ParseDirectionRange(*dirRange)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		rangeOverride = &r
	}

	switch {
	case *decodeHex != "":
		err = runDecode(formatter, *decodeHex)
	case *batchFile != "":
		opts := navis.AggregateOptions{}
		if rangeOverride != nil {
			opts.DirectionRange = *rangeOverride
		}
		err = runBatch(formatter, *batchFile, opts)
	default:
		err = runStation(formatter, *cfgFile, *cfgBackend, *stationName, *minutes, rangeOverride)
	}

	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func runDecode(formatter *responseformat.Formatter, hex string) error {
	reading, err := navis.Decode(hex)
	if err != nil {
		return err
	}
	return formatter.Write(os.Stdout, reading)
}

func runBatch(formatter *responseformat.Formatter, path string, opts navis.AggregateOptions) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("error reading batch: %w", err)
	}

	stats, err := navis.Summarize(string(data), opts)
	if err != nil {
		return err
	}
	if stats.Rejected > 0 {
		log.Warnf("skipped %d undecodable records", stats.Rejected)
	}
	return formatter.Write(os.Stdout, stats)
}

func runStation(formatter *responseformat.Formatter, cfgFile, cfgBackend, name string, minutes int, rangeOverride *navis.DirectionRange) error {
	cfgData, err := loadConfig(cfgFile, cfgBackend)
	if err != nil {
		return err
	}

	stationCfg, err := cfgData.Station(name)
	if err != nil {
		return err
	}

	station, err := stations.NewStation(*stationCfg, log.Named("navis"))
	if err != nil {
		return err
	}
	if rangeOverride != nil {
		station.SetDirectionRange(*rangeOverride)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Infof("querying station [%s]", station.StationName())
	report, err := station.Report(ctx, time.Duration(minutes)*time.Minute)
	if err != nil {
		return err
	}

	return formatter.Write(os.Stdout, report)
}

func loadConfig(cfgFile, cfgBackend string) (*config.ConfigData, error) {
	filename, _ := filepath.Abs(cfgFile)

	var provider config.ConfigProvider
	var err error

	switch cfgBackend {
	case "yaml":
		provider = config.NewYAMLProvider(filename)
	case "sqlite":
		provider, err = config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", cfgBackend)
	}
	defer provider.Close()

	cfgData, err := provider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error reading config file. Did you pass the -config flag? Run with -h for help: %w", err)
	}

	return cfgData, nil
}
