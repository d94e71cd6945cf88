package platform

import (
	"context"
	"os"

	"github.com/aretw0/silt/pkg/adapters/fs"
	"github.com/aretw0/silt/pkg/core"
)

// New builds a ready-to-use document Service rooted at the given path.
//
//	svc, err := silt.New("./documents", silt.WithAutoInit(true))
func New(path string, opts ...Option) (*core.Service, error) {
	repo, err := Init(path, opts...)
	if err != nil {
		return nil, err
	}
	return core.NewService(repo), nil
}

// Init initializes a document store at the given path and returns the
// configured core.Repository.
func Init(path string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	// 1. Check for injected repository
	if o.repository != nil {
		return o.repository, nil
	}

	// 2. Build the filesystem adapter
	autoInit, _ := o.config["auto_init"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	eventBuffer, _ := o.config["event_buffer"].(int)
	fileMode, _ := o.config["file_mode"].(os.FileMode)

	repo := fs.NewRepository(fs.Config{
		Path:        path,
		AutoInit:    autoInit,
		MustExist:   mustExist || !autoInit,
		ReadOnly:    readOnly,
		SystemDir:   systemDir,
		FileMode:    fileMode,
		EventBuffer: eventBuffer,
		Logger:      o.logger,
	})

	// 3. Run Initialization
	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}

	return repo, nil
}
