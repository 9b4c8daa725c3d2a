package pipeline

import (
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/logger"
	"github.com/teranos/dsg/modules"
	"github.com/teranos/dsg/topic"
)

// Resource describes the service being generated
type Resource struct {
	// Name is the human name, e.g. "Order Service"
	Name string
	// ModulePath is the Go module path of the generated service
	ModulePath string
}

// Directories are slash-separated output locations relative to the output
// root. Hooks may redirect them; later stages see the change.
type Directories struct {
	Base          string
	Src           string
	MessageBroker string
}

// Context is the state shared by every stage and hook of one run.
// It is created once per run and never shared between runs.
type Context struct {
	RunID         string
	Resource      Resource
	Directories   Directories
	ServiceTopics []topic.Service
	Modules       *modules.Map
	Logger        *zap.SugaredLogger

	// BrokerModule is the message broker module file, set by the hook that
	// produces it and read when the app module is assembled.
	BrokerModule *modules.Module
}

// NewContext creates the context for one run. A nil log falls back to the
// global logger.
func NewContext(resource Resource, dirs Directories, services []topic.Service, log *zap.SugaredLogger) *Context {
	runID := uuid.NewString()
	if log == nil {
		log = logger.Logger
	}
	log = log.With(logger.FieldRunID, runID)

	return &Context{
		RunID:         runID,
		Resource:      resource,
		Directories:   dirs,
		ServiceTopics: services,
		Modules:       modules.New(log.Named("modules")),
		Logger:        log,
	}
}

// ImportPath returns the Go import path of a directory inside the generated
// service, e.g. "example.com/orders/internal/kafka" for "server/internal/kafka".
func (c *Context) ImportPath(dir string) (string, error) {
	if c.Resource.ModulePath == "" {
		return "", errors.Wrap(ErrUnresolvedPrerequisite, "resource module path is not set")
	}

	base := path.Clean(c.Directories.Base)
	d := path.Clean(dir)

	var rel string
	switch {
	case d == base:
		rel = ""
	case base == ".":
		rel = d
	case strings.HasPrefix(d, base+"/"):
		rel = d[len(base)+1:]
	default:
		return "", errors.NewInvalidInputError("directory %s is outside the service directory %s", dir, c.Directories.Base)
	}
	if rel == ".." || strings.HasPrefix(rel, "../") || path.IsAbs(rel) {
		return "", errors.NewInvalidInputError("directory %s is outside the service directory %s", dir, c.Directories.Base)
	}

	return path.Join(c.Resource.ModulePath, rel), nil
}
