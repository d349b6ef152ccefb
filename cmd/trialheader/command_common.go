package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"trialheader/internal/config"
	"trialheader/internal/logging"
)

const (
	formatText   = "text"
	formatStyled = "styled"
	formatJSON   = "json"
	formatTOML   = "toml"
)

func exitOnErr(label string, err error, stderr io.Writer) {
	if err == nil {
		return
	}
	fmt.Fprintf(stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}

func resolveFormat(raw string, allowed ...string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(raw))
	for _, candidate := range allowed {
		if format == candidate {
			return format, nil
		}
	}
	return "", fmt.Errorf("invalid format %q: must be one of %s", raw, strings.Join(allowed, ", "))
}

func writeStructured(out io.Writer, format string, payload any) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	case formatTOML:
		data, err := toml.Marshal(payload)
		if err != nil {
			return err
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		_, err = out.Write(data)
		return err
	default:
		return errors.New("unsupported format")
	}
}

// commandLogger logs config warnings to stderr and returns the logger.
func commandLogger(stderr io.Writer, cfg config.Config) logging.Logger {
	logger := logging.New(stderr, logging.ParseLevel(cfg.LogLevel()))
	for _, warning := range cfg.Validate() {
		logger.Warn("config warning", logging.F("detail", warning))
	}
	return logger
}

func openUILog(level string) (logging.Logger, io.Closer, error) {
	path, err := config.UILogPath()
	if err != nil {
		return nil, nil, err
	}
	return logging.OpenFile(path, logging.ParseLevel(level))
}
