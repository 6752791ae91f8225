package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/hamed0406/reachmon/internal/domain"
)

// ErrConfigNotFound is returned when the target file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

type targetFile struct {
	Targets []targetEntry `yaml:"targets"`
}

type targetEntry struct {
	Name string `yaml:"name"`
	Host string `yaml:"host"`
	Type string `yaml:"type"`
	Port *int   `yaml:"port,omitempty"`
}

// LoadTargets reads the target list in file order. Any invalid entry fails
// the whole load.
func LoadTargets(path string) ([]domain.Endpoint, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseTargets(b)
}

func ParseTargets(b []byte) ([]domain.Endpoint, error) {
	var f targetFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(f.Targets) == 0 {
		return nil, errors.New("config: no targets provided")
	}

	eps := make([]domain.Endpoint, 0, len(f.Targets))
	for i, t := range f.Targets {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, fmt.Errorf("config: target[%d] missing name", i)
		}
		host := strings.TrimSpace(t.Host)
		if host == "" {
			return nil, fmt.Errorf("config: target %q missing host", name)
		}
		kind, err := domain.ParseKind(t.Type)
		if err != nil {
			return nil, fmt.Errorf("config: target %q: %w", name, err)
		}
		ep := domain.Endpoint{Name: name, Host: host, Kind: kind}
		if t.Port != nil {
			if *t.Port < 1 || *t.Port > domain.MaxPort {
				return nil, fmt.Errorf("config: target %q port %d out of range 1..%d", name, *t.Port, domain.MaxPort)
			}
			ep.Port = *t.Port
		}
		eps = append(eps, ep)
	}
	return eps, nil
}

// Lint returns non-fatal findings about a loaded target list.
func Lint(eps []domain.Endpoint) []string {
	var warns []string
	seen := make(map[string]int, len(eps))
	for i, ep := range eps {
		if j, ok := seen[ep.Name]; ok {
			warns = append(warns, fmt.Sprintf("target[%d] %q duplicates the name of target[%d]", i, ep.Name, j))
		} else {
			seen[ep.Name] = i
		}
		switch {
		case ep.Kind == domain.KindTCP && !ep.HasPort():
			warns = append(warns, fmt.Sprintf("target %q is tcp without a port; it will always be DOWN", ep.Name))
		case ep.Kind == domain.KindPing && ep.HasPort():
			warns = append(warns, fmt.Sprintf("target %q is ping; port %d is ignored", ep.Name, ep.Port))
		}
	}
	return warns
}
