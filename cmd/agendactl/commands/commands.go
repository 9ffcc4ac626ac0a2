// Package commands implements the agendactl subcommands. Each command loads
// the configuration, opens the snapshot store directly, and runs the same
// services the server uses.
package commands

import (
	"fmt"

	"github.com/agendahq/agenda-api/internal/config"
	"github.com/agendahq/agenda-api/internal/store"
	"go.uber.org/zap"
)

// openStore loads config and initializes the snapshot store. The CLI always
// runs against the durable snapshot; pointing DATA_FILE at :memory: would
// inspect an empty store, which is permitted but rarely useful.
func openStore() (*store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	path, err := cfg.SnapshotPath()
	if err != nil {
		return nil, fmt.Errorf("resolve snapshot path: %w", err)
	}
	st := store.New(path, zap.NewNop())
	if err := st.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	return st, nil
}
