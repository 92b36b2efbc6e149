// Copyright 2025 Sander Nunes
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command cellito runs the Cellito knowledge assistant.
//
// Usage:
//
//	cellito serve --config cellito.yaml
//	cellito index --config cellito.yaml
//	cellito ask --config cellito.yaml "quais os planos de internet?"
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/SanderNunes/cellito-engine/pkg/logger"
)

// CLI defines the command-line interface.
type CLI struct {
	Version VersionCmd `cmd:"" help:"Show version information."`
	Index   IndexCmd   `cmd:"" help:"Build or refresh the document index."`
	Ask     AskCmd     `cmd:"" help:"Answer a single question from the command line."`
	Serve   ServeCmd   `cmd:"" help:"Start the HTTP server."`

	Config    string `short:"c" help:"Path to config file." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFile   string `help:"Log file path (empty = stderr)."`
	LogFormat string `help:"Log format (simple or verbose)." default:"simple"`
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("cellito"),
		kong.Description("Cellito - lexical retrieval knowledge assistant"),
		kong.UsageOnError(),
	)

	level, err := logger.ParseLevel(cli.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}

	output := os.Stderr
	if cli.LogFile != "" {
		file, cleanup, err := logger.OpenLogFile(cli.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()
		output = file
	}
	logger.Init(level, output, cli.LogFormat)

	err = ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
