package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/allisson/authtokens/internal/errors"
)

// DefaultStore is the name of the primary database. An empty store name resolves to it.
const DefaultStore = "default"

// ErrStoreNotFound indicates no database was registered under the requested name.
var ErrStoreNotFound = apperrors.Wrap(apperrors.ErrUnavailable, "store not found")

// Store is a named database together with the driver it was opened with.
type Store struct {
	Name   string
	Driver string
	DB     *sql.DB
}

// Registry holds the named stores a process can query.
type Registry struct {
	stores map[string]*Store
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{stores: map[string]*Store{}}
}

// Register adds or replaces a store.
func (r *Registry) Register(name, driver string, db *sql.DB) {
	if name == "" {
		name = DefaultStore
	}
	r.stores[name] = &Store{Name: name, Driver: driver, DB: db}
}

// Get returns the store registered under name.
func (r *Registry) Get(name string) (*Store, error) {
	if name == "" {
		name = DefaultStore
	}
	store, ok := r.stores[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, name)
	}
	return store, nil
}

// Names returns the registered store names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every store.
func (r *Registry) Close() error {
	var errs []error
	for _, name := range r.Names() {
		if err := r.stores[name].DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Ping checks every store, stopping at the first failure.
func (r *Registry) Ping(ctx context.Context) error {
	for _, name := range r.Names() {
		if err := r.stores[name].DB.PingContext(ctx); err != nil {
			return fmt.Errorf("store %s: %w", name, err)
		}
	}
	return nil
}

// StoreSpec describes an extra store parsed from configuration.
type StoreSpec struct {
	Name             string
	Driver           string
	ConnectionString string
}

// ParseStoreSpecs parses "name=driver:dsn" entries separated by ";". Blank entries are skipped.
func ParseStoreSpecs(value string) ([]StoreSpec, error) {
	var specs []StoreSpec
	for _, entry := range strings.Split(value, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, rest, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: store entry %q must be name=driver:dsn", apperrors.ErrInvalidInput, entry)
		}
		driver, dsn, ok := strings.Cut(rest, ":")
		if !ok || dsn == "" {
			return nil, fmt.Errorf("%w: store entry %q must be name=driver:dsn", apperrors.ErrInvalidInput, entry)
		}
		switch driver {
		case DriverSQLite, DriverPostgres, DriverMySQL:
		default:
			return nil, fmt.Errorf("%w: unsupported driver %q", apperrors.ErrInvalidInput, driver)
		}
		specs = append(specs, StoreSpec{Name: strings.TrimSpace(name), Driver: driver, ConnectionString: dsn})
	}
	return specs, nil
}
