package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/caloq-app/caloq/internal/config"
)

func main() {
	fmt.Println("🔍 Validating configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  No .env file found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Println("📋 Resolved configuration:")
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Printf("  - Gemini API Key: %s\n", maskToken(cfg.GeminiAPIKey))
	fmt.Printf("  - Storage Driver: %s\n", cfg.Storage.Driver)
	fmt.Printf("  - Data Dir: %s\n", cfg.Storage.DataDir)
	fmt.Printf("  - DB Host: %s\n", cfg.Storage.DB.Host)
	fmt.Printf("  - DB Port: %s\n", cfg.Storage.DB.Port)
	fmt.Printf("  - DB Name: %s\n", cfg.Storage.DB.DBName)
	fmt.Printf("  - Redis: %s:%s\n", cfg.Storage.Redis.Host, cfg.Storage.Redis.Port)
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
