package main

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"tailor-console/internal/config"
	"tailor-console/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	program := tea.NewProgram(tui.New(cfg.ClientConfig()), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("console: %v", err)
	}
}
