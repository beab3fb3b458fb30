package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	dbm "github.com/tendermint/tm-db"

	"github.com/tendermint/relaylight/config"
	"github.com/tendermint/relaylight/kv"
	"github.com/tendermint/relaylight/kv/psql"
	"github.com/tendermint/relaylight/libs/log"
	"github.com/tendermint/relaylight/light"
)

func addDBFlags(cmd *cobra.Command, conf *config.Config) {
	cmd.Flags().String(
		"db-backend",
		conf.DBBackend,
		"database backend: goleveldb | memdb | postgres")
	cmd.Flags().String(
		"db-dir",
		conf.DBPath,
		"database directory")
	cmd.Flags().String(
		"postgres-dsn",
		conf.PostgresDSN,
		"PostgreSQL connection string, for the postgres backend")
}

// openStore opens the key/value backend selected by conf.
func openStore(conf *config.Config, logger log.Logger) (kv.Store, error) {
	switch conf.DBBackend {
	case config.DBBackendMemDB:
		logger.Info("using an in-memory database; nothing is kept after exit")
		return kv.NewMemStore(), nil

	case config.DBBackendGoLevelDB:
		db, err := dbm.NewDB("relaylight", dbm.GoLevelDBBackend, conf.DBDir())
		if err != nil {
			return nil, fmt.Errorf("opening database in %s: %w", conf.DBDir(), err)
		}
		return kv.NewDBStore(db), nil

	case config.DBBackendPostgres:
		s, err := psql.Open(conf.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown db-backend %q", conf.DBBackend)
	}
}

func newVerifier(conf *config.Config, logger log.Logger, metrics *light.Metrics) (*light.Verifier, error) {
	policy, err := conf.Verifier.Policy()
	if err != nil {
		return nil, err
	}
	return light.NewVerifier(
		light.WithQuorumPolicy(policy),
		light.WithMaxProofDepth(conf.Verifier.MaxProofDepth),
		light.WithLogger(logger.With("module", "verifier")),
		light.WithMetrics(metrics),
	), nil
}

func readJSONFile(path string, v interface{}) error {
	bz, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(bz, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(bz))
	return err
}
