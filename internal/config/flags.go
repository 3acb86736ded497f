// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// ParseFlags parses the client flags from os.Args.
//
// Flags:
//
//	-a API server address (URL or host:port)
//	-request-timeout outbound request timeout (e.g. "15s")
//	-d local database DSN
//	-poll-interval dashboard refresh period (e.g. "30s")
//	-history-symbol market index symbol (e.g. "^NSEI")
//	-redirect-delay delay before returning to login after a password reset
//	-c/-config json file path with configs
func ParseFlags() (*StructuredConfig, error) {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	return parseFlags(fs, os.Args[1:])
}

func parseFlags(fs *flag.FlagSet, args []string) (*StructuredConfig, error) {
	var (
		address        string
		requestTimeout time.Duration
		dsn            string
		pollInterval   time.Duration
		historySymbol  string
		redirectDelay  time.Duration
		jsonConfigPath string
	)

	fs.StringVar(&address, "a", "", "API server address")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s)")
	fs.StringVar(&dsn, "d", "", "Local database DSN")
	fs.DurationVar(&pollInterval, "poll-interval", 0, "Dashboard refresh period (e.g., 30s)")
	fs.StringVar(&historySymbol, "history-symbol", "", "Market index symbol")
	fs.DurationVar(&redirectDelay, "redirect-delay", 0, "Delay before returning to login after reset")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		Adapter: Adapter{
			HTTPAddress:    address,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{DSN: dsn},
		},
		Dashboard: Dashboard{
			PollInterval:  pollInterval,
			HistorySymbol: historySymbol,
		},
		Recovery: Recovery{
			RedirectDelay: redirectDelay,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}
