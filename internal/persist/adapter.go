// Package persist implements the load/save contract used to snapshot a garden
// to and from durable formats.
package persist

import (
	"context"
	"fmt"
	"strings"

	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/model"
)

// Adapter loads and saves a whole plant collection.
//
// Load returns (nil, nil) when nothing has been saved yet. Failures are
// *errors.RecoverableError values: the caller keeps its in-memory garden
// and carries on.
type Adapter interface {
	Load(ctx context.Context) ([]model.Plant, error)
	Save(ctx context.Context, plants []model.Plant) error
}

// Kind names a file-backed adapter.
type Kind string

// Adapter kinds.
const (
	KindJSON   Kind = "json"
	KindSQLite Kind = "sqlite"
)

// Kinds lists the file-backed adapters.
var Kinds = []Kind{KindJSON, KindSQLite}

// ParseKind parses an adapter name.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindJSON:
		return KindJSON, nil
	case KindSQLite:
		return KindSQLite, nil
	default:
		return "", errors.NewUserErrorWithField("adapter", s,
			fmt.Sprintf("Unknown adapter '%s'", s),
			errors.GetSuggestion(errors.ErrInvalidAdapter),
		).WithCause(errors.ErrInvalidAdapter)
	}
}

// Open returns the file-backed adapter of the given kind at path.
func Open(kind Kind, path string) (Adapter, error) {
	switch kind {
	case KindJSON:
		return NewJSONFile(path), nil
	case KindSQLite:
		return NewSQLite(path), nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidAdapter, "adapter %q", kind)
	}
}

// failure wraps an adapter error so callers can tell it is survivable.
func failure(op, path string, err error) error {
	return errors.NewRecoverableError(fmt.Sprintf("%s %s", op, path), err, 0)
}
