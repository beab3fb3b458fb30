package mocks

import (
	context "context"
	testing "testing"

	mock "github.com/stretchr/testify/mock"
)

// Store is a mock type for the kv.Store type.
type Store struct {
	mock.Mock
}

// Get provides a mock function with given fields: ctx, storeID, key
func (_m *Store) Get(ctx context.Context, storeID string, key string) ([]byte, error) {
	ret := _m.Called(ctx, storeID, key)

	var r0 []byte
	if rf, ok := ret.Get(0).(func(context.Context, string, string) []byte); ok {
		r0 = rf(ctx, storeID, key)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, storeID, key)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Set provides a mock function with given fields: ctx, storeID, key, value
func (_m *Store) Set(ctx context.Context, storeID string, key string, value []byte) error {
	ret := _m.Called(ctx, storeID, key, value)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string, []byte) error); ok {
		r0 = rf(ctx, storeID, key, value)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// CompareAndSwap provides a mock function with given fields: ctx, storeID, key, old, value
func (_m *Store) CompareAndSwap(ctx context.Context, storeID string, key string, old []byte, value []byte) (bool, error) {
	ret := _m.Called(ctx, storeID, key, old, value)

	var r0 bool
	if rf, ok := ret.Get(0).(func(context.Context, string, string, []byte, []byte) bool); ok {
		r0 = rf(ctx, storeID, key, old, value)
	} else {
		r0 = ret.Bool(0)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string, []byte, []byte) error); ok {
		r1 = rf(ctx, storeID, key, old, value)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Keys provides a mock function with given fields: ctx, storeID
func (_m *Store) Keys(ctx context.Context, storeID string) ([]string, error) {
	ret := _m.Called(ctx, storeID)

	var r0 []string
	if rf, ok := ret.Get(0).(func(context.Context, string) []string); ok {
		r0 = rf(ctx, storeID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, storeID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Close provides a mock function with given fields:
func (_m *Store) Close() error {
	ret := _m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewStore creates a new instance of Store. It also registers the
// testing.TB interface on the mock and a cleanup function to assert the
// mocks expectations.
func NewStore(t testing.TB) *Store {
	m := &Store{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
