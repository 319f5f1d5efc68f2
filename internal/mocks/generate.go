// Package mocks provides gomock implementations of the list-state and backend
// ports for unit tests.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockStateStore(ctrl)
//	store.EXPECT().DeleteSession(gomock.Any(), "sess-1").Return(nil)
package mocks

// StateStore, Sequencer and SessionInvalidator back the list controllers.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=listing_mocks.go github.com/target/backoffice-ui/internal/listing StateStore,Sequencer,SessionInvalidator

// DocumentLister feeds the dashboard widgets; SessionStore backs AuthService.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ports_mocks.go github.com/target/backoffice-ui/internal/ports DocumentLister,SessionStore
