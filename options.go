package impeller

import (
	"os"
	"strings"
)

// StrictEnv is the environment variable that enables strict mode when set
// to a truthy value (1, true, yes, on).
const StrictEnv = "IMPELLER_INTEROP_STRICT"

// EngineOption configures an Engine during creation.
//
// Example:
//
//	eng, err := impeller.Load(
//	    impeller.WithStrict(true),
//	    impeller.WithSearchPaths("/opt/impeller/lib"),
//	)
type EngineOption func(*engineOptions)

type engineOptions struct {
	strict      bool
	searchPaths []string
	names       []string
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		strict: envTruthy(os.Getenv(StrictEnv)),
	}
}

// WithStrict turns use of a released handle into a panic instead of an
// [ErrUseAfterFree] error. The default comes from IMPELLER_INTEROP_STRICT.
func WithStrict(strict bool) EngineOption {
	return func(o *engineOptions) {
		o.strict = strict
	}
}

// WithSearchPaths adds directories probed for the engine library before the
// system loader paths. Earlier directories win.
func WithSearchPaths(dirs ...string) EngineOption {
	return func(o *engineOptions) {
		o.searchPaths = append(o.searchPaths, dirs...)
	}
}

// WithLibraryNames replaces the platform default library file names.
func WithLibraryNames(names ...string) EngineOption {
	return func(o *engineOptions) {
		o.names = append([]string(nil), names...)
	}
}

func envTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
