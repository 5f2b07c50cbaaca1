// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/snapshot_repository.go -destination=snapshot_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/snapshot_service.go -destination=snapshot_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_repository_mock.go -package=mocks
