package ghclient

import (
	"sync"
	"sync/atomic"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

// The process-wide default instance. Libraries that cannot thread a client
// through their call graph can install one once and retrieve it anywhere.

var (
	defaultInstance atomic.Pointer[instanceBox]
	defaultOnce     sync.Once
)

type instanceBox struct {
	client github.Client
}

// Initialise installs the given configuration as the process-wide default
// client, replacing any previous default. Existing references returned by
// Instance keep their old client; only subsequent Instance calls observe
// the new one.
func Initialise(config *github.Config) (github.Client, error) {
	built, err := New(config)
	if err != nil {
		return nil, err
	}

	defaultInstance.Store(&instanceBox{client: built})

	return built, nil
}

// Instance returns the process-wide default client. When Initialise was
// never called, an unauthenticated client for the public API is created
// lazily.
func Instance() github.Client {
	box := defaultInstance.Load()
	if box != nil {
		return box.client
	}

	defaultOnce.Do(func() {
		built, err := New(&github.Config{})
		if err != nil {
			// An empty config cannot fail validation; reaching here
			// means the defaults themselves are broken.
			panic("ghclient: building default instance: " + err.Error())
		}

		defaultInstance.CompareAndSwap(nil, &instanceBox{client: built})
	})

	return defaultInstance.Load().client
}
