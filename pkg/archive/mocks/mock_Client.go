// Package mocks provides test doubles for the archive client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	archive "github.com/bharatverse/content-pipeline/pkg/archive"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// SearchItems provides a mock function with given fields: ctx, query, rows
func (_m *MockClient) SearchItems(ctx context.Context, query string, rows int) ([]archive.Item, error) {
	ret := _m.Called(ctx, query, rows)

	if len(ret) == 0 {
		panic("no return value specified for SearchItems")
	}

	var r0 []archive.Item
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, int) ([]archive.Item, error)); ok {
		return rf(ctx, query, rows)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, int) []archive.Item); ok {
		r0 = rf(ctx, query, rows)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]archive.Item)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, int) error); ok {
		r1 = rf(ctx, query, rows)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
