package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arvholm/espalier/pkg/adapters/memory"
	"github.com/arvholm/espalier/pkg/adapters/redis"
	"github.com/arvholm/espalier/pkg/adapters/sqlite"
	"github.com/arvholm/espalier/pkg/ports"
)

// openStore picks the machine store from flags: Redis when --redis is set,
// SQLite when --db is set, in-memory otherwise. The returned closer releases
// the store's resources.
func openStore(cmd *cobra.Command) (ports.MachineStore, func() error, error) {
	redisAddr, _ := cmd.Flags().GetString("redis")
	dbPath, _ := cmd.Flags().GetString("db")

	if redisAddr != "" && dbPath != "" {
		return nil, nil, fmt.Errorf("--redis and --db cannot be used together")
	}

	switch {
	case redisAddr != "":
		store := redis.New(redisAddr, "", 0)
		return store, store.Close, nil
	case dbPath != "":
		store, err := sqlite.New(dbPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return memory.NewStore(), func() error { return nil }, nil
	}
}
