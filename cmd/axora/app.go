package main

import (
	"fmt"
	"os"
	"path/filepath"

	"axora/internal/logger"
	"axora/internal/services"
	"axora/internal/store"
)

// App bundles the initialized service graph behind the CLI commands.
type App struct {
	Config   *services.ConfigurationService
	Store    *store.SessionStore
	Modes    *services.ModeCatalogService
	Projects *services.ProjectCatalogService
	Contexts *services.ContextService
	Router   *services.RouterService
	Chat     *services.ChatService
	Markdown *services.MarkdownService
	Debug    *services.DebugTransportService
	Complete *services.AutoCompleteService
}

// newApp wires and initializes every service the CLI needs. Catalog-only
// commands still build the full graph; it is cheap and keeps the wiring in
// one place.
func newApp() (*App, error) {
	config := services.NewConfigurationService()
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize configuration: %w", err)
	}

	backend, err := newBackend()
	if err != nil {
		return nil, err
	}
	sessions := store.NewSessionStore(backend, store.Options{})

	apiKey, err := config.GetAPIKey()
	if err != nil {
		// Chat degrades to an in-session notice instead of refusing to start,
		// so session management and export keep working without a key.
		logger.Warn("No Gemini API key configured", "error", err)
		apiKey = ""
	}

	debug := services.NewDebugTransportService()
	if err := debug.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize debug transport: %w", err)
	}

	client := services.NewGeminiClient(apiKey)
	client.SetDebugTransport(debug.CreateTransport())

	modes := services.NewModeCatalogService()
	if err := modes.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize mode catalog: %w", err)
	}

	projects := services.NewProjectCatalogService()
	if err := projects.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize project catalog: %w", err)
	}

	contexts := services.NewContextService()
	if err := contexts.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize context service: %w", err)
	}

	router := services.NewRouterService(client)
	if err := router.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize provider router: %w", err)
	}

	chat := services.NewChatService(sessions, router, modes, projects, contexts)
	if err := chat.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize chat service: %w", err)
	}

	markdown := services.NewMarkdownService()
	if err := markdown.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize markdown service: %w", err)
	}

	complete := services.NewAutoCompleteService(modes, projects, sessions)
	if err := complete.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize autocomplete: %w", err)
	}

	return &App{
		Config:   config,
		Store:    sessions,
		Modes:    modes,
		Projects: projects,
		Contexts: contexts,
		Router:   router,
		Chat:     chat,
		Markdown: markdown,
		Debug:    debug,
		Complete: complete,
	}, nil
}

// newBackend picks the session persistence backend. Test mode gets an
// in-memory store so runs never touch disk.
func newBackend() (store.Backend, error) {
	if testMode {
		return store.NewMemoryBackend(), nil
	}

	dbPath := filepath.Join(resolveDataDir(), "axora.db")
	backend, err := store.NewSQLiteBackend(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	return backend, nil
}

// resolveDataDir returns the directory holding the session database,
// preferring the --data-dir flag over the per-user default.
func resolveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "axora")
}

// Close releases the session store. Logged rather than returned because
// commands call it on the way out.
func (a *App) Close() {
	if err := a.Store.Close(); err != nil {
		logger.Warn("Failed to close session store", "error", err)
	}
}
