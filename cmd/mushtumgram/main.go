package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mushtum/mushtumgram/internal/auth"
	"github.com/mushtum/mushtumgram/internal/backend"
	"github.com/mushtum/mushtumgram/internal/config"
	"github.com/mushtum/mushtumgram/internal/domain"
	"github.com/mushtum/mushtumgram/internal/engine"
	"github.com/mushtum/mushtumgram/internal/persona"
	"github.com/mushtum/mushtumgram/internal/state"
	"github.com/mushtum/mushtumgram/internal/ui"
)

func main() {
	// A local .env can carry GEMINI_API_KEY during development.
	_ = godotenv.Load()

	cfgDir := config.Dir()
	cfgPath := filepath.Join(cfgDir, "config.yaml")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config from %s: %v\n", cfgPath, err)
		fmt.Fprintf(os.Stderr, "\nCreate the config file with:\n")
		fmt.Fprintf(os.Stderr, "  mkdir -p %s\n", cfgDir)
		fmt.Fprintf(os.Stderr, "  cat > %s << 'EOF'\n", cfgPath)
		fmt.Fprintf(os.Stderr, "telegram:\n  api_id: YOUR_API_ID\n  api_hash: \"YOUR_API_HASH\"\ngemini:\n  api_key: \"YOUR_GEMINI_KEY\"\nEOF\n")
		fmt.Fprintf(os.Stderr, "\nGet API credentials from https://my.telegram.org\n")
		os.Exit(1)
	}

	// Log to file so the TUI owns the terminal.
	logPath := filepath.Join(cfgDir, "mushtumgram.log")
	logCfg := zap.NewDevelopmentConfig()
	logCfg.OutputPaths = []string{logPath}
	logCfg.ErrorOutputPaths = []string{logPath}
	logger, err := logCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store := state.New(nil)

	bc := backend.NewHTTPClient(cfg.Backend.URL, cfg.Telegram.APIID, cfg.Telegram.APIHash)
	gen := persona.NewGeminiGenerator(cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
	eng := engine.New(store, bc, gen, logger)
	flow := auth.New(domain.ModeDemo)

	app := ui.NewApp(store, eng, bc, flow)
	store.SetDrawFunc(app.DrawFunc())

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
