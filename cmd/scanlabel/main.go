// scanlabel runs the extraction and validation pipeline over an OCR text file
// and prints the result as JSON. Useful for replaying captures offline.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/verdiscan/label-backend/internal/common"
	"github.com/verdiscan/label-backend/internal/label"
	"github.com/verdiscan/label-backend/internal/llm"
	"github.com/verdiscan/label-backend/internal/llm/openai"
	"github.com/verdiscan/label-backend/internal/parser"
	"github.com/verdiscan/label-backend/internal/rules"
)

func main() {
	useLLM := flag.Bool("llm", false, "extract with the model instead of the regex parser")
	skipValidate := flag.Bool("no-validate", false, "extract only, skip the compliance assessment")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: scanlabel [-llm] [-no-validate] <text-file>")
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	ctx := context.Background()

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		logger.Error("read.failed", "path", flag.Arg(0), "error", err)
		os.Exit(1)
	}

	cfg := common.LoadConfig()

	var chat llm.ChatCompleter
	needsModel := *useLLM || !*skipValidate
	if needsModel {
		if cfg.LLM.APIKey == "" {
			logger.Error("config.invalid", "error", "OPENAI_API_KEY is required for model-backed steps")
			os.Exit(1)
		}
		chat = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
	}

	var rec label.Record
	if *useLLM {
		rec, _, err = llm.NewExtractor(chat, logger).ExtractLabel(ctx, string(raw))
		if err != nil {
			logger.Error("extract.failed", "error", err)
			os.Exit(1)
		}
	} else {
		rec = parser.Extract(string(raw)).ToRecord()
	}

	out := map[string]any{"parsed": rec}
	if !*skipValidate {
		ruleCtx, err := rules.Load(cfg.Rules.WorkbookPath, cfg.Rules.Destination, logger)
		if err != nil {
			logger.Error("rules.load.failed", "path", cfg.Rules.WorkbookPath, "error", err)
			os.Exit(1)
		}
		validator := rules.NewValidator(ruleCtx,
			rules.NewModelClassifier(chat, logger),
			rules.NewModelOracle(chat, logger),
			logger)
		res := validator.Validate(ctx, rec)
		out["validation"] = res
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("encode.failed", "error", err)
		os.Exit(1)
	}
}
