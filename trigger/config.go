package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tendermint/relaylight/kv"
)

// ConfigStoreID is the kv store trigger configurations are kept in, keyed
// by trigger id.
const ConfigStoreID = "triggers"

// ModeType tells which side of the bridge a trigger runs on.
type ModeType string

const (
	// ModeHub is a trigger deployed on the hub chain. The hub runs one
	// trigger per connected chain.
	ModeHub ModeType = "Hub"
	// ModeDomestic is a trigger deployed on a domestic chain, following the
	// hub.
	ModeDomestic ModeType = "Domestic"
)

// Mode is the operation mode of a trigger. It alters how accepted
// transactions are applied.
type Mode struct {
	Type ModeType `json:"type"`
	// Chain is the id of the domestic chain. Only set in ModeDomestic.
	Chain string `json:"chain,omitempty"`
}

func (m Mode) String() string {
	if m.Type == ModeDomestic {
		return fmt.Sprintf("Domestic(%s)", m.Chain)
	}
	return string(m.Type)
}

// ValidateBasic performs basic validation.
func (m Mode) ValidateBasic() error {
	switch m.Type {
	case ModeHub:
		if m.Chain != "" {
			return errors.New("hub mode takes no chain")
		}
	case ModeDomestic:
		if m.Chain == "" {
			return errors.New("domestic mode requires a chain")
		}
	default:
		return fmt.Errorf("unknown mode %q", m.Type)
	}
	return nil
}

// ChainConfig is what a trigger knows about one chain of the network.
type ChainConfig struct {
	// OmnibusAccount of that chain, as seen on the chain the trigger runs on.
	OmnibusAccount string `json:"omnibus_account"`
}

// Config is the configuration of one trigger.
type Config struct {
	Mode Mode `json:"mode"`

	// AdminStore holds chain snapshots. Only administrators write to it.
	// The hub keeps the snapshots of every chain in one admin store.
	AdminStore string `json:"admin_store"`
	// AdminStoreChainKey is the key of this trigger's snapshot in AdminStore.
	AdminStoreChainKey string `json:"admin_store_chain_key"`

	// RelayStore is written to by the relay.
	RelayStore string `json:"relay_store"`
	// RelayStoreMessageKey is the key of the relay message this trigger
	// reads.
	RelayStoreMessageKey string `json:"relay_store_message_key"`

	// Chains of the network, by chain id.
	Chains map[string]ChainConfig `json:"chains"`
}

// ValidateBasic performs basic validation.
func (cfg *Config) ValidateBasic() error {
	if err := cfg.Mode.ValidateBasic(); err != nil {
		return fmt.Errorf("invalid mode: %w", err)
	}
	for name, v := range map[string]string{
		"admin_store":             cfg.AdminStore,
		"admin_store_chain_key":   cfg.AdminStoreChainKey,
		"relay_store":             cfg.RelayStore,
		"relay_store_message_key": cfg.RelayStoreMessageKey,
	} {
		if v == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	for id, chain := range cfg.Chains {
		if id == "" {
			return errors.New("empty chain id")
		}
		if chain.OmnibusAccount == "" {
			return fmt.Errorf("chain %q: omnibus_account is required", id)
		}
	}
	if cfg.Mode.Type == ModeDomestic {
		if _, ok := cfg.Chains[cfg.Mode.Chain]; !ok {
			return fmt.Errorf("domestic chain %q is not in chains", cfg.Mode.Chain)
		}
	}
	return nil
}

// ConfigProvider reads trigger configurations.
type ConfigProvider interface {
	// ReadConfig returns the configuration of triggerID, ErrConfigNotFound
	// if there is none, or ErrConfigDeserialize if it is unusable.
	ReadConfig(ctx context.Context, triggerID string) (*Config, error)
}

// KVConfigProvider keeps trigger configurations as JSON in the
// ConfigStoreID store.
type KVConfigProvider struct {
	store kv.Store
}

var _ ConfigProvider = (*KVConfigProvider)(nil)

// NewKVConfigProvider returns a provider over store.
func NewKVConfigProvider(store kv.Store) *KVConfigProvider {
	return &KVConfigProvider{store: store}
}

// ReadConfig implements ConfigProvider.
func (p *KVConfigProvider) ReadConfig(ctx context.Context, triggerID string) (*Config, error) {
	bz, err := p.store.Get(ctx, ConfigStoreID, triggerID)
	if err != nil {
		return nil, fmt.Errorf("reading config of trigger %q: %w", triggerID, err)
	}
	if bz == nil {
		return nil, fmt.Errorf("%w: %q", ErrConfigNotFound, triggerID)
	}

	cfg := new(Config)
	if err := json.Unmarshal(bz, cfg); err != nil {
		return nil, ErrConfigDeserialize{TriggerID: triggerID, Reason: err}
	}
	if err := cfg.ValidateBasic(); err != nil {
		return nil, ErrConfigDeserialize{TriggerID: triggerID, Reason: err}
	}
	return cfg, nil
}

// WriteConfig validates and stores the configuration of triggerID.
func (p *KVConfigProvider) WriteConfig(ctx context.Context, triggerID string, cfg *Config) error {
	if triggerID == "" {
		return errors.New("empty trigger id")
	}
	if err := cfg.ValidateBasic(); err != nil {
		return err
	}
	bz, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return p.store.Set(ctx, ConfigStoreID, triggerID, bz)
}

// TriggerIDs lists every configured trigger.
func (p *KVConfigProvider) TriggerIDs(ctx context.Context) ([]string, error) {
	return p.store.Keys(ctx, ConfigStoreID)
}
