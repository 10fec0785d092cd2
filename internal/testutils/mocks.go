package testutils

import (
	"sync"

	"github.com/srg/avatarlink/internal/face"
	"github.com/stretchr/testify/mock"
)

// MockRangeSensor is a testify mock of ranging.RangeSensor.
type MockRangeSensor struct {
	mock.Mock
}

func (m *MockRangeSensor) Begin() error {
	return m.Called().Error(0)
}

func (m *MockRangeSensor) StartContinuous() error {
	return m.Called().Error(0)
}

func (m *MockRangeSensor) StopContinuous() error {
	return m.Called().Error(0)
}

func (m *MockRangeSensor) IsRangeComplete() bool {
	return m.Called().Bool(0)
}

func (m *MockRangeSensor) ReadRange() (uint16, error) {
	args := m.Called()
	return args.Get(0).(uint16), args.Error(1)
}

// MockRenderer is a testify mock of face.Renderer.
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Init() error {
	return m.Called().Error(0)
}

func (m *MockRenderer) SetExpression(e face.Expression) {
	m.Called(e)
}

// MockDisplay is a testify mock of face.Display.
type MockDisplay struct {
	mock.Mock
}

func (m *MockDisplay) SetTextSize(size int) {
	m.Called(size)
}

func (m *MockDisplay) Print(text string) {
	m.Called(text)
}

func (m *MockDisplay) Println(text string) {
	m.Called(text)
}

// RecordingSink collects distance samples in arrival order.
type RecordingSink struct {
	mu      sync.Mutex
	samples []uint16
}

func (r *RecordingSink) SendDistance(mm uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, mm)
}

// Samples returns a copy of the received samples.
func (r *RecordingSink) Samples() []uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint16(nil), r.samples...)
}
