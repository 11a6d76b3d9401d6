// Package config holds the closed enumerations the handlers validate requests
// against: the package allow-list, the supported runtimes and architectures,
// and the architecture spelling aliases. Widening any of them is a config
// file change, not a code change.
package config

import (
	"slices"
	"strings"
)

// Model is the loaded configuration. All membership checks are exact string
// matches; the handlers never interpret the values.
type Model struct {
	// Packages is the allow-list of installable package names. Only
	// packages whose top-level import name follows the hyphen-to-underscore
	// convention belong here.
	Packages []string

	// Runtimes enumerates the supported Lambda runtime identifiers.
	Runtimes []string

	// Architectures enumerates the canonical processor architecture labels.
	Architectures []string

	// ArchAliases maps platform-reported architecture spellings to their
	// canonical label, e.g. "aarch64" -> "arm64".
	ArchAliases map[string]string
}

// Default returns the compiled-in model used when no config file is provided.
func Default() *Model {
	return &Model{
		Packages:      []string{"boto3", "requests", "urllib3", "aws-lambda-powertools", "aws-xray-sdk"},
		Runtimes:      []string{"python3.12", "python3.13"},
		Architectures: []string{"x86_64", "arm64"},
		ArchAliases: map[string]string{
			"aarch64": "arm64",
			"amd64":   "x86_64",
		},
	}
}

// SupportsPackage reports whether name is on the allow-list.
func (m *Model) SupportsPackage(name string) bool {
	return slices.Contains(m.Packages, name)
}

// SupportsRuntime reports whether the runtime identifier is supported.
func (m *Model) SupportsRuntime(runtime string) bool {
	return slices.Contains(m.Runtimes, runtime)
}

// SupportsArchitecture reports whether arch is a canonical architecture label.
func (m *Model) SupportsArchitecture(arch string) bool {
	return slices.Contains(m.Architectures, arch)
}

// SupportedPackages returns the allow-list sorted and comma-joined, for error
// messages.
func (m *Model) SupportedPackages() string {
	sorted := slices.Clone(m.Packages)
	slices.Sort(sorted)
	return strings.Join(sorted, ", ")
}

// CanonicalArch maps a platform-reported architecture spelling to its
// canonical label. Unknown spellings pass through unchanged so a mismatch is
// still reported verbatim.
func (m *Model) CanonicalArch(raw string) string {
	if canonical, ok := m.ArchAliases[raw]; ok {
		return canonical
	}
	return raw
}
