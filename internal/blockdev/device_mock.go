// Generated mock using mockgen:
//  mockgen -source=device.go -destination=device_mock.go -package blockdev
package blockdev

import (
	"reflect"

	"github.com/golang/mock/gomock"
)

// MockDevice is a mock of the Device interface, for tests that need to
// inject an I/O failure MemDevice can't produce on its own.
type MockDevice struct {
	ctrl     *gomock.Controller
	recorder *MockDeviceMockRecorder
}

// MockDeviceMockRecorder is the mock recorder for MockDevice.
type MockDeviceMockRecorder struct {
	mock *MockDevice
}

// NewMockDevice creates a new mock instance.
func NewMockDevice(ctrl *gomock.Controller) *MockDevice {
	mock := &MockDevice{ctrl: ctrl}
	mock.recorder = &MockDeviceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockDevice) EXPECT() *MockDeviceMockRecorder {
	return m.recorder
}

func (m *MockDevice) ReadSectors(lba, count uint32, dst []byte) error {
	ret := m.ctrl.Call(m, "ReadSectors", lba, count, dst)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockDeviceMockRecorder) ReadSectors(lba, count, dst interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReadSectors", reflect.TypeOf((*MockDevice)(nil).ReadSectors), lba, count, dst)
}

func (m *MockDevice) WriteSectors(lba, count uint32, src []byte) error {
	ret := m.ctrl.Call(m, "WriteSectors", lba, count, src)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockDeviceMockRecorder) WriteSectors(lba, count, src interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WriteSectors", reflect.TypeOf((*MockDevice)(nil).WriteSectors), lba, count, src)
}

func (m *MockDevice) TotalSectors() uint64 {
	ret := m.ctrl.Call(m, "TotalSectors")
	return ret[0].(uint64)
}

func (mr *MockDeviceMockRecorder) TotalSectors() *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TotalSectors", reflect.TypeOf((*MockDevice)(nil).TotalSectors))
}

func (m *MockDevice) Close() error {
	ret := m.ctrl.Call(m, "Close")
	err, _ := ret[0].(error)
	return err
}

func (mr *MockDeviceMockRecorder) Close() *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockDevice)(nil).Close))
}
