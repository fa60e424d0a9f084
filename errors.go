package impeller

import (
	"errors"

	"github.com/gogpu/impeller/internal/abi"
)

var (
	// ErrCreation is returned when a native factory yields a null object.
	ErrCreation = errors.New("impeller: native object creation failed")

	// ErrUseAfterFree is returned when a handle is used after its last
	// reference was released. In strict mode it is raised as a panic.
	ErrUseAfterFree = errors.New("impeller: use of released handle")

	// ErrAlreadyFinalized is returned when a recorder is used after Build.
	ErrAlreadyFinalized = errors.New("impeller: recorder already finalized")

	// ErrUnbalancedRestore is returned by Restore without a matching Save.
	ErrUnbalancedRestore = errors.New("impeller: restore without matching save")

	// ErrNilArgument is returned for a nil object or a zero native pointer.
	ErrNilArgument = errors.New("impeller: nil argument")

	// ErrSharedHandle is returned when ownership cannot be transferred
	// because other references are still outstanding.
	ErrSharedHandle = errors.New("impeller: handle is shared")

	// ErrBackendMismatch is returned when an operation needs a context of a
	// different backend.
	ErrBackendMismatch = errors.New("impeller: wrong context backend")

	// ErrUnsupported is returned when the loaded engine lacks an entry point.
	ErrUnsupported = errors.New("impeller: not supported by loaded engine")

	// ErrUnsupportedFormat is returned for pixel formats the engine cannot use.
	ErrUnsupportedFormat = errors.New("impeller: unsupported pixel format")

	// ErrInvalidFont is returned when font data cannot be parsed.
	ErrInvalidFont = errors.New("impeller: invalid font data")
)

// Dynamic loading errors, shared with the backend package.
var (
	ErrLibraryNotFound     = abi.ErrLibraryNotFound
	ErrSymbolNotFound      = abi.ErrSymbolNotFound
	ErrUnsupportedPlatform = abi.ErrUnsupportedPlatform
)
