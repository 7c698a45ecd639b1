package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/recibos/billing-system/internal/core/domain"
)

// Storage backend selectors.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// StoreBackend selects the Domain Store implementation: "mongo" or
	// "memory". The memory backend also takes over session storage so a dev
	// deployment needs no external services.
	StoreBackend string        `env:"STORE_BACKEND, default=mongo"`
	SessionTTL   time.Duration `env:"SESSION_TTL,   default=24h"`

	// Bootstrap credentials used to seed an administrator when none exists.
	AdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Access AccessPolicyConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=billing_system"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// AccessPolicyConfig is the tier matrix as deployment configuration. The
// defaults follow the in-memory reference deployment; other deployments of
// the predecessor system gated client/product reads at administrator and
// deposits at basic, so every cell is overridable.
type AccessPolicyConfig struct {
	UserRead      string `env:"ACCESS_USER_READ,      default=administrator"`
	UserWrite     string `env:"ACCESS_USER_WRITE,     default=administrator"`
	UserDelete    string `env:"ACCESS_USER_DELETE,    default=administrator"`
	ClientRead    string `env:"ACCESS_CLIENT_READ,    default=basic"`
	ClientWrite   string `env:"ACCESS_CLIENT_WRITE,   default=advanced"`
	ClientDelete  string `env:"ACCESS_CLIENT_DELETE,  default=administrator"`
	ProductRead   string `env:"ACCESS_PRODUCT_READ,   default=basic"`
	ProductWrite  string `env:"ACCESS_PRODUCT_WRITE,  default=administrator"`
	ProductDelete string `env:"ACCESS_PRODUCT_DELETE, default=administrator"`
	BillRead      string `env:"ACCESS_BILL_READ,      default=basic"`
	BillCreate    string `env:"ACCESS_BILL_CREATE,    default=basic"`
	BillUpdate    string `env:"ACCESS_BILL_UPDATE,    default=advanced"`
	BillDelete    string `env:"ACCESS_BILL_DELETE,    default=administrator"`
	DepositRead   string `env:"ACCESS_DEPOSIT_READ,   default=advanced"`
	DepositWrite  string `env:"ACCESS_DEPOSIT_WRITE,  default=advanced"`
	DepositDelete string `env:"ACCESS_DEPOSIT_DELETE, default=administrator"`
	Balance       string `env:"ACCESS_BALANCE,        default=advanced"`
}

// Policy converts the string matrix to domain tiers, rejecting unknown values.
func (c AccessPolicyConfig) Policy() (domain.AccessPolicy, error) {
	var policy domain.AccessPolicy
	for _, cell := range []struct {
		name  string
		value string
		dst   *domain.Tier
	}{
		{"ACCESS_USER_READ", c.UserRead, &policy.UserRead},
		{"ACCESS_USER_WRITE", c.UserWrite, &policy.UserWrite},
		{"ACCESS_USER_DELETE", c.UserDelete, &policy.UserDelete},
		{"ACCESS_CLIENT_READ", c.ClientRead, &policy.ClientRead},
		{"ACCESS_CLIENT_WRITE", c.ClientWrite, &policy.ClientWrite},
		{"ACCESS_CLIENT_DELETE", c.ClientDelete, &policy.ClientDelete},
		{"ACCESS_PRODUCT_READ", c.ProductRead, &policy.ProductRead},
		{"ACCESS_PRODUCT_WRITE", c.ProductWrite, &policy.ProductWrite},
		{"ACCESS_PRODUCT_DELETE", c.ProductDelete, &policy.ProductDelete},
		{"ACCESS_BILL_READ", c.BillRead, &policy.BillRead},
		{"ACCESS_BILL_CREATE", c.BillCreate, &policy.BillCreate},
		{"ACCESS_BILL_UPDATE", c.BillUpdate, &policy.BillUpdate},
		{"ACCESS_BILL_DELETE", c.BillDelete, &policy.BillDelete},
		{"ACCESS_DEPOSIT_READ", c.DepositRead, &policy.DepositRead},
		{"ACCESS_DEPOSIT_WRITE", c.DepositWrite, &policy.DepositWrite},
		{"ACCESS_DEPOSIT_DELETE", c.DepositDelete, &policy.DepositDelete},
		{"ACCESS_BALANCE", c.Balance, &policy.Balance},
	} {
		tier, ok := domain.ParseTier(cell.value)
		if !ok {
			return domain.AccessPolicy{}, fmt.Errorf("config: %s: unknown tier %q", cell.name, cell.value)
		}
		*cell.dst = tier
	}
	return policy, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.StoreBackend != BackendMongo && cfg.StoreBackend != BackendMemory {
		return nil, fmt.Errorf("config: STORE_BACKEND: unknown backend %q", cfg.StoreBackend)
	}
	return &cfg, nil
}
