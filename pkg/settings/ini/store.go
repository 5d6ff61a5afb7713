package ini

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/carpi/carpi-settings/pkg/settings"
	"go.uber.org/zap"
	"gopkg.in/ini.v1"
)

// KeySeparator splits a composite key into section and field
const KeySeparator = "."

// Config holds the IniStore construction parameters
type Config struct {
	// Path is the INI file to load and to overwrite on SaveConfig
	Path string

	// CreateSections lets WriteValue create a section that does not exist yet.
	// Default: false, writing into a missing section returns settings.ErrSectionNotFound.
	CreateSections bool
}

// Store is an INI file backed implementation of settings.ConfigStore.
//
// Keys take the form "<section>.<field>". The whole file is parsed at
// construction and kept in memory; writes only change that copy until
// SaveConfig rewrites the file.
type Store struct {
	mu   sync.RWMutex
	file *ini.File

	path           string
	createSections bool
	log            *zap.SugaredLogger
}

var _ settings.ConfigStore = (*Store)(nil)

// loadOptions follow Python's configparser: case-insensitive keys,
// "=" or ":" delimiters and indented continuation lines. Values are kept
// verbatim: "#" and ";" after a value are part of it, and surrounding quotes
// are not stripped.
var loadOptions = ini.LoadOptions{
	InsensitiveKeys:            true,
	AllowPythonMultilineValues: true,
	IgnoreInlineComment:        true,
	PreserveSurroundedQuote:    true,
}

// New loads path and returns a store bound to it
func New(path string, opts ...settings.Option) (*Store, error) {
	return Open(Config{Path: path}, opts...)
}

// Open loads cfg.Path and returns a store bound to it. A file that cannot be
// read or parsed is an error; no partially loaded store is returned.
func Open(cfg Config, opts ...settings.Option) (*Store, error) {
	o := settings.ApplyOptions(opts...)
	s := &Store{
		path:           cfg.Path,
		createSections: cfg.CreateSections,
		log:            o.NamedLogger(filepath.Base(cfg.Path)),
	}

	file, err := s.load()
	if err != nil {
		return nil, err
	}
	s.file = file
	return s, nil
}

func (s *Store) load() (*ini.File, error) {
	s.log.Infow("Reading configuration", "path", s.path)
	file, err := ini.LoadSources(loadOptions, s.path)
	if err != nil {
		return nil, fmt.Errorf("load ini file %s: %w", s.path, err)
	}
	s.log.Info("Read configuration successfully")
	return file, nil
}

// ParseKey splits key at the first separator into section and field.
// Anything after the first separator belongs to the field.
func ParseKey(key string) (section, field string, err error) {
	section, field, found := strings.Cut(key, KeySeparator)
	if !found {
		return "", "", fmt.Errorf("%w: %q has no %q separator", settings.ErrMalformedKey, key, KeySeparator)
	}
	return section, field, nil
}

// key resolves a composite key to the document key, or nil when the section
// or the field is missing. A field missing from an existing section is
// inherited from the DEFAULT section.
func (s *Store) key(section, field string) *ini.Key {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, err := s.file.GetSection(section)
	if err != nil {
		return nil
	}
	if k, err := sec.GetKey(field); err == nil {
		return k
	}
	if section == ini.DefaultSection {
		return nil
	}
	def, err := s.file.GetSection(ini.DefaultSection)
	if err != nil {
		return nil
	}
	k, err := def.GetKey(field)
	if err != nil {
		return nil
	}
	return k
}

func (s *Store) Lookup(ctx context.Context, key string) (string, bool, error) {
	section, field, err := ParseKey(key)
	if err != nil {
		return "", false, err
	}
	k := s.key(section, field)
	if k == nil {
		return "", false, nil
	}
	return k.String(), true, nil
}

func (s *Store) ReadValue(ctx context.Context, key string, def string) (string, error) {
	section, field, err := ParseKey(key)
	if err != nil {
		return "", err
	}
	s.log.Debugw("Reading value", "section", section, "field", field)

	k := s.key(section, field)
	if k == nil {
		return def, nil
	}
	return k.String(), nil
}

func (s *Store) ReadIntValue(ctx context.Context, key string, def int) (int, error) {
	section, field, err := ParseKey(key)
	if err != nil {
		return 0, err
	}
	s.log.Debugw("Reading value as int", "section", section, "field", field)

	k := s.key(section, field)
	if k == nil {
		return def, nil
	}
	n, err := k.Int()
	if err != nil {
		return 0, settings.InvalidValue(key, k.String(), "int", err)
	}
	return n, nil
}

func (s *Store) ReadFloatValue(ctx context.Context, key string, def float64) (float64, error) {
	section, field, err := ParseKey(key)
	if err != nil {
		return 0, err
	}
	s.log.Debugw("Reading value as float", "section", section, "field", field)

	k := s.key(section, field)
	if k == nil {
		return def, nil
	}
	f, err := k.Float64()
	if err != nil {
		return 0, settings.InvalidValue(key, k.String(), "float", err)
	}
	return f, nil
}

// ReadBoolValue accepts the INI boolean spellings: 1/t/true/y/yes/on and
// 0/f/false/n/no/off, in lower, upper or title case.
func (s *Store) ReadBoolValue(ctx context.Context, key string, def bool) (bool, error) {
	section, field, err := ParseKey(key)
	if err != nil {
		return false, err
	}
	s.log.Debugw("Reading value as bool", "section", section, "field", field)

	k := s.key(section, field)
	if k == nil {
		return def, nil
	}
	b, err := k.Bool()
	if err != nil {
		return false, settings.InvalidValue(key, k.String(), "bool", err)
	}
	return b, nil
}

// WriteValue sets the stringified value in the in-memory document. The file
// is not touched until SaveConfig.
func (s *Store) WriteValue(ctx context.Context, key string, value any) error {
	section, field, err := ParseKey(key)
	if err != nil {
		return err
	}
	s.log.Debugw("Writing value", "section", section, "field", field)
	v, err := settings.EncodeValue(key, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sec, err := s.file.GetSection(section)
	if err != nil {
		if !s.createSections {
			return fmt.Errorf("%w: [%s]", settings.ErrSectionNotFound, section)
		}
		if sec, err = s.file.NewSection(section); err != nil {
			return fmt.Errorf("create section [%s]: %w", section, err)
		}
	}

	if _, err := sec.NewKey(field, v); err != nil {
		return fmt.Errorf("set [%s] %s: %w", section, field, err)
	}
	return nil
}

// SaveConfig serializes the whole document over the original file.
//
// The write is not atomic: a crash while writing can leave a truncated file.
// Concurrent savers are not merged; the last save wins.
func (s *Store) SaveConfig(ctx context.Context) error {
	s.log.Infow("Writing configuration", "path", s.path)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.file.SaveTo(s.path); err != nil {
		return fmt.Errorf("save ini file %s: %w", s.path, err)
	}

	s.log.Info("Completed")
	return nil
}

// Reload re-reads the file, discarding unsaved writes. On error the current
// document is kept.
func (s *Store) Reload() error {
	file, err := s.load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.file = file
	s.mu.Unlock()
	return nil
}

// Path returns the file the store was loaded from
func (s *Store) Path() string {
	return s.path
}

// Sections returns the section names in document order, including the DEFAULT section
func (s *Store) Sections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.file.SectionStrings()
}

// AddSection creates section if it does not exist yet
func (s *Store) AddSection(section string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.NewSection(section); err != nil {
		return fmt.Errorf("create section [%s]: %w", section, err)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
