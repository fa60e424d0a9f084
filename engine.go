package impeller

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/gogpu/impeller/internal/abi"
)

// Engine is a bound instance of the native Impeller library. All objects
// created from an Engine must be disposed before the Engine is closed.
type Engine struct {
	api     *abi.Table
	lib     uintptr
	strict  bool
	version uint32

	closeOnce sync.Once
	closeErr  error
}

// Load opens the Impeller shared library and binds its entry points. The
// library is looked up in the WithSearchPaths directories, then next to the
// executable (including runtimes/<rid>/native), then by bare name through
// the system loader.
func Load(opts ...EngineOption) (*Engine, error) {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}

	lib, path, err := openLibrary(libraryCandidates(o))
	if err != nil {
		return nil, err
	}
	api, err := abi.Bind(lib)
	if err != nil {
		_ = abi.Close(lib)
		return nil, fmt.Errorf("impeller: bind %s: %w", path, err)
	}

	e := newEngine(api, o)
	e.lib = lib
	Logger().Info("impeller: engine loaded", "path", path, "version", VersionString(e.version), "strict", e.strict)
	return e, nil
}

// NewEngine wraps an already bound entry point table.
func NewEngine(api *abi.Table, opts ...EngineOption) (*Engine, error) {
	if api == nil {
		return nil, fmt.Errorf("%w: api table", ErrNilArgument)
	}
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newEngine(api, o), nil
}

func newEngine(api *abi.Table, o engineOptions) *Engine {
	e := &Engine{api: api, strict: o.strict}
	if api.GetVersion != nil {
		e.version = api.GetVersion()
	}
	return e
}

// Version returns the packed engine API version.
func (e *Engine) Version() uint32 { return e.version }

// Strict reports whether use-after-free panics.
func (e *Engine) Strict() bool { return e.strict }

// Close unloads the library if Load opened it. Objects still alive keep
// dangling function pointers, so dispose them first.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		if e.lib != 0 {
			e.closeErr = abi.Close(e.lib)
			e.lib = 0
		}
	})
	return e.closeErr
}

// VersionString formats a packed version as variant.major.minor.patch.
func VersionString(v uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", v>>29, (v>>22)&0x7f, (v>>12)&0x3ff, v&0xfff)
}

func libraryNames(goos string) []string {
	switch goos {
	case "darwin", "ios":
		return []string{"libimpeller.dylib"}
	case "windows":
		return []string{"impeller.dll"}
	default:
		return []string{"libimpeller.so", "impeller.so"}
	}
}

// runtimeID returns the .NET-style runtime identifier used by packaged
// native assets, e.g. linux-x64 or osx-arm64.
func runtimeID(goos, goarch string) string {
	name := goos
	switch goos {
	case "darwin":
		name = "osx"
	case "windows":
		name = "win"
	}
	arch := goarch
	switch goarch {
	case "amd64":
		arch = "x64"
	case "386":
		arch = "x86"
	}
	return name + "-" + arch
}

func libraryCandidates(o engineOptions) []string {
	names := o.names
	if len(names) == 0 {
		names = libraryNames(runtime.GOOS)
	}

	dirs := append([]string(nil), o.searchPaths...)
	if exe, err := os.Executable(); err == nil {
		base := filepath.Dir(exe)
		dirs = append(dirs, base, filepath.Join(base, "runtimes", runtimeID(runtime.GOOS, runtime.GOARCH), "native"))
	}

	var out []string
	for _, d := range dirs {
		for _, n := range names {
			out = append(out, filepath.Join(d, n))
		}
	}
	return append(out, names...)
}

func openLibrary(candidates []string) (uintptr, string, error) {
	var errs []error
	for _, c := range candidates {
		lib, err := abi.Open(c)
		if err == nil {
			return lib, c, nil
		}
		Logger().Debug("impeller: library probe failed", "path", c, "err", err)
		errs = append(errs, err)
	}
	return 0, "", fmt.Errorf("%w: tried %d locations: %w", ErrLibraryNotFound, len(candidates), errors.Join(errs...))
}
