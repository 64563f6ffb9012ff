package main

import (
	"fmt"
	"os"

	"github.com/hjson/hjson-go/v4"
	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"navmesh-planner/graph"
)

// Config is the service configuration, read from an Hjson file.
type Config struct {
	Addr         string       `json:"addr"`
	Heuristic    string       `json:"heuristic"`
	MeshPath     string       `json:"meshPath"`
	SnapshotPath string       `json:"snapshotPath"`
	Logger       LoggerConfig `json:"logger"`
}

type LoggerConfig struct {
	Level      string `json:"level"`
	JSON       bool   `json:"json"`
	File       string `json:"file"` // empty logs to stderr
	MaxSizeMB  int    `json:"maxSizeMB"`
	MaxBackups int    `json:"maxBackups"`
	MaxAgeDays int    `json:"maxAgeDays"`
}

func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		Heuristic:    "euclidean",
		MeshPath:     "navmesh.geojson",
		SnapshotPath: "navgraph.msgpack",
		Logger: LoggerConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// LoadConfig reads path on top of DefaultConfig. An empty path returns the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	// strip UTF-8 BOM
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}
	if err := hjson.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if _, err := graph.HeuristicByName(cfg.Heuristic); err != nil {
		return cfg, err
	}
	if _, err := zapcore.ParseLevel(cfg.Logger.Level); err != nil {
		return cfg, fmt.Errorf("logger level: %w", err)
	}

	return cfg, nil
}

// NewLogger builds the service logger. With a file configured, output goes
// through a rotating lumberjack writer.
func NewLogger(c LoggerConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("logger level: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if c.JSON {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var sink zapcore.WriteSyncer
	if c.File != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAgeDays,
		})
	} else {
		sink = zapcore.Lock(os.Stderr)
	}

	return zap.New(zapcore.NewCore(encoder, sink, level), zap.AddCaller()), nil
}
