// Model is the central entity of the domain.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/marl/pkg/config"
)

// TimestampSpec overrides the configured timestamp fields per model.
// Zero-valued fields fall back to the configuration.
type TimestampSpec struct {
	CreatedField  string
	ModifiedField string
	Format        string
}

// Model is a record with identity, validation and a save pipeline.
// Persistence is delegated to an attached Store; without one, inserts,
// updates and deletes succeed as no-ops so the pipeline can be exercised
// in isolation.
type Model struct {
	*Record

	kind    string
	cfg     *config.Config
	pkName  string
	stamps  *TimestampSpec
	stamped bool

	rules       Rules
	messages    map[string]string
	names       map[string]string
	onCheck     func(*Model)
	allowedKeys []string

	errs  *ErrorList
	now   func() time.Time
	store Store
}

// ModelOption configures a Model at construction.
type ModelOption func(*Model)

// WithConfig injects the model-layer configuration.
func WithConfig(cfg *config.Config) ModelOption {
	return func(m *Model) { m.cfg = cfg }
}

// WithDefaults merges default attributes for keys not present initially.
func WithDefaults(defaults Attributes) ModelOption {
	return func(m *Model) { m.Merge(defaults) }
}

// WithAllowedKeys restricts which attributes the model accepts; seed
// attributes outside the list are dropped. The resolved primary key name is
// always permitted, so the restriction is applied after all options.
func WithAllowedKeys(keys ...string) ModelOption {
	return func(m *Model) {
		m.allowedKeys = append(make([]string, 0, len(keys)), keys...)
	}
}

// WithPrimaryKey overrides the configured primary key attribute name.
func WithPrimaryKey(name string) ModelOption {
	return func(m *Model) { m.pkName = name }
}

// WithTimestamps enables automatic timestamping with the configured fields.
func WithTimestamps() ModelOption {
	return func(m *Model) { m.stamped = true }
}

// WithTimestampSpec enables automatic timestamping with per-model overrides.
func WithTimestampSpec(spec TimestampSpec) ModelOption {
	return func(m *Model) {
		m.stamped = true
		m.stamps = &spec
	}
}

// WithRules attaches a validation rule set run on every save.
// messages and names may be nil.
func WithRules(rules Rules, messages, names map[string]string) ModelOption {
	return func(m *Model) {
		m.rules = rules
		m.messages = messages
		m.names = names
	}
}

// WithValidateHook attaches a custom validation step run on every save,
// after the rule set. The hook raises errors on the model to veto the save.
func WithValidateHook(fn func(*Model)) ModelOption {
	return func(m *Model) { m.onCheck = fn }
}

// WithClock overrides the time source. Meant for tests.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) { m.now = now }
}

// WithStore attaches the persistence store used by Save and Delete.
func WithStore(store Store) ModelOption {
	return func(m *Model) { m.store = store }
}

// NewModel creates a model of the given kind from the initial attributes.
func NewModel(kind string, attrs Attributes, opts ...ModelOption) *Model {
	m := &Model{
		Record: NewRecord(attrs),
		kind:   kind,
		errs:   NewErrorList(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.allowedKeys != nil {
		m.Restrict(append(m.allowedKeys, m.PrimaryKeyName())...)
	} else if m.Restricted() {
		m.Allow(m.PrimaryKeyName())
	}
	return m
}

// Kind returns the concrete model type name.
func (m *Model) Kind() string {
	return m.kind
}

// Config returns the injected configuration, or the defaults.
func (m *Model) Config() *config.Config {
	if m.cfg == nil {
		m.cfg = config.Default()
	}
	return m.cfg
}

// AttachStore sets the persistence store used by Save and Delete.
func (m *Model) AttachStore(store Store) {
	m.store = store
}

// PrimaryKeyName resolves the primary key attribute name: the instance
// override when set, else the configured value, else "id".
func (m *Model) PrimaryKeyName() string {
	if m.pkName != "" {
		return m.pkName
	}
	return m.Config().Lookup("model.primary_key", "id")
}

// PrimaryKey returns the primary key value, or nil when unset.
func (m *Model) PrimaryKey() any {
	return m.Get(m.PrimaryKeyName())
}

// SetPrimaryKey stores the primary key value and returns the freshly read one.
func (m *Model) SetPrimaryKey(value any) any {
	key := m.PrimaryKeyName()
	m.Allow(key)
	m.Set(key, value)
	return m.Get(key)
}

// IsNew reports whether the model has no primary key value yet.
func (m *Model) IsNew() bool {
	switch v := m.PrimaryKey().(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}

// Is reports whether other is the same entity: non-nil, same kind and an
// equal primary key value. Values decoded from different formats compare by
// canonical string form, so int(7) and int64(7) are the same key.
func (m *Model) Is(other *Model) bool {
	if other == nil || m.kind != other.kind {
		return false
	}
	a, b := m.PrimaryKey(), other.PrimaryKey()
	if a == nil || b == nil {
		return false
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// Raise records a validation error for a field, overwriting any previous one.
func (m *Model) Raise(field, message string) {
	m.errs.Add(field, message)
}

// RaiseMany records every entry of the mapping.
func (m *Model) RaiseMany(errs map[string]string) {
	m.errs.AddMany(errs)
}

// RaiseResult copies the failures of a validation result, if any.
func (m *Model) RaiseResult(res *Result) {
	m.errs.AddResult(res)
}

// Errors returns the validation error collector.
func (m *Model) Errors() *ErrorList {
	return m.errs
}

// Invalid reports whether any validation error is recorded.
func (m *Model) Invalid() bool {
	return !m.errs.Empty()
}

// Valid reports whether no validation error is recorded.
func (m *Model) Valid() bool {
	return m.errs.Empty()
}

// TimestampsEnabled reports whether automatic timestamping is active.
func (m *Model) TimestampsEnabled() bool {
	return m.stamped
}

// ApplyTimestamps stamps the model when timestamping is enabled.
// The modified field is always set to the current instant; the created field
// is set only when the model is new and the field is not already present,
// so an existing creation timestamp is never overwritten.
func (m *Model) ApplyTimestamps() {
	if !m.stamped {
		return
	}

	cfg := m.Config()
	created := cfg.Lookup("model.timestamps.created", "created")
	modified := cfg.Lookup("model.timestamps.modified", "modified")
	format := cfg.Lookup("model.timestamps.format", "")

	if m.stamps != nil {
		if m.stamps.CreatedField != "" {
			created = m.stamps.CreatedField
		}
		if m.stamps.ModifiedField != "" {
			modified = m.stamps.ModifiedField
		}
		if m.stamps.Format != "" {
			format = m.stamps.Format
		}
	}

	m.Allow(created, modified)

	now := m.now()
	var stamp any = now
	if format != "" {
		stamp = now.Format(format)
	}

	m.Set(modified, stamp)
	if m.IsNew() && !m.Has(created) {
		m.Set(created, stamp)
	}
}

// Save runs the pipeline: reset errors, apply timestamps, validate, then
// dispatch to the store's Insert when the model is new, else Update.
// A validation failure returns ErrInvalid without touching the store; the
// field messages stay available through Errors().
func (m *Model) Save(ctx context.Context) error {
	m.errs.Reset()
	m.ApplyTimestamps()

	if m.rules != nil {
		m.RaiseResult(Validate(m.All(), m.rules, m.messages, m.names))
	}
	if m.onCheck != nil {
		m.onCheck(m)
	}
	if m.Invalid() {
		return fmt.Errorf("%w: %s", ErrInvalid, m.errs.First())
	}

	store := m.store
	if store == nil {
		store = NopStore{}
	}
	if m.IsNew() {
		return store.Insert(ctx, m)
	}
	return store.Update(ctx, m)
}

// Delete removes the model from the attached store.
// Without a store this is a no-op success.
func (m *Model) Delete(ctx context.Context) error {
	store := m.store
	if store == nil {
		store = NopStore{}
	}
	return store.Delete(ctx, m)
}
