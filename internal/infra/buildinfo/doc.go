// Package buildinfo exposes the version stamped into the pocket binary.
//
// Values are injected with ldflags:
//
//	go build -ldflags "-X github.com/cloudpocket/pocket-cli/internal/infra/buildinfo.Version=v1.0.0"
//
// Without ldflags the module version recorded by the Go toolchain is used
// when available.
package buildinfo
