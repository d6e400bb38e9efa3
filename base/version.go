package base

const (
	VersionMajor = 0
	VersionMinor = 2
	VersionPatch = 0

	// Version is the token callers pass to a decoder's CheckVersion. A decoder
	// compiled against a different token refuses to run.
	Version uint64 = VersionMajor<<48 | VersionMinor<<32 | VersionPatch<<16
)

// Magic tags stamped into a decoder's private state.
const (
	MagicInitialized uint32 = 0x3ccb6c71
	MagicDisabled    uint32 = 0x075ae3d2
)
