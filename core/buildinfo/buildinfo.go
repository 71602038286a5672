package buildinfo

// Set with -ldflags at build time, for example:
//
//	-X 'github.com/m3rciful/screambot/core/buildinfo.Version=v0.3.0'
//	-X 'github.com/m3rciful/screambot/core/buildinfo.Commit=1c9e2f4'
var (
	// Version is the release tag of the binary.
	Version = "dev"
	// Commit is the source revision the binary was built from.
	Commit = "local"
	// Date is the RFC3339 build time.
	Date = ""
)
