package scan

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minikel/valido-pwa/internal/model"
)

// fakeLookup 目录查询替身
type fakeLookup struct {
	lines map[string][]model.CatalogLine
	err   error
}

func (f *fakeLookup) LinesByOrder(orderCode string) ([]model.CatalogLine, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.lines[orderCode], nil
}

// fakeRecorder 验证记录替身
type fakeRecorder struct {
	calls int
	err   error
}

func (f *fakeRecorder) Record(orderCode, operatorName string) (*model.ValidationRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &model.ValidationRecord{
		ID:           int64(f.calls),
		OrderCode:    orderCode,
		OperatorName: operatorName,
		ValidatedAt:  time.Now(),
	}, nil
}

func twoLineOrder() *fakeLookup {
	return &fakeLookup{lines: map[string][]model.CatalogLine{
		"O1": {
			{OrderCode: "O1", ProductCode: "P1", Quantity: 1},
			{OrderCode: "O1", ProductCode: "P2", Quantity: 3},
		},
	}}
}

func TestLoadOrder(t *testing.T) {
	s := NewSession(twoLineOrder(), &fakeRecorder{})

	require.NoError(t, s.LoadOrder(" O1 "))
	assert.Equal(t, StateLoaded, s.State())
	assert.Equal(t, "O1", s.OrderCode())
	assert.Len(t, s.Lines(), 2)
	assert.NotEmpty(t, s.ID())
}

func TestLoadOrderUnknownIsNotAnError(t *testing.T) {
	s := NewSession(twoLineOrder(), &fakeRecorder{})

	require.NoError(t, s.LoadOrder("NOPE"))
	assert.Equal(t, StateIdle, s.State())
	assert.NotEmpty(t, s.Message())
}

func TestLoadOrderEmptyCode(t *testing.T) {
	s := NewSession(twoLineOrder(), &fakeRecorder{})

	require.NoError(t, s.LoadOrder("   "))
	assert.Equal(t, StateIdle, s.State())
	assert.NotEmpty(t, s.Message())
}

func TestLoadOrderStorageErrorSurfaced(t *testing.T) {
	boom := errors.New("db down")
	s := NewSession(&fakeLookup{err: boom}, &fakeRecorder{})

	err := s.LoadOrder("O1")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateIdle, s.State())
}

func TestScanAllMatchedCompletes(t *testing.T) {
	s := NewSession(twoLineOrder(), &fakeRecorder{})
	require.NoError(t, s.LoadOrder("O1"))

	s.Scan("P1")
	assert.Equal(t, StateScanning, s.State())

	s.Scan("P2")
	assert.Equal(t, StateComplete, s.State())
}

func TestScanMismatchKeepsScanning(t *testing.T) {
	s := NewSession(twoLineOrder(), &fakeRecorder{})
	require.NoError(t, s.LoadOrder("O1"))

	s.Scan("P1")
	s.Scan("P3")

	assert.Equal(t, StateScanning, s.State())
	assert.NotEmpty(t, s.Message())

	scans := s.Scans()
	assert.True(t, scans["P1"].Matched)
	require.Contains(t, scans, "P3")
	assert.True(t, scans["P3"].Scanned)
	assert.False(t, scans["P3"].Matched)
}

func TestScanIdempotentPerCode(t *testing.T) {
	s := NewSession(twoLineOrder(), &fakeRecorder{})
	require.NoError(t, s.LoadOrder("O1"))

	// 同一产品重复扫描只覆盖状态，不会提前完成
	s.Scan("P1")
	s.Scan("P1")
	s.Scan("P1")
	assert.Equal(t, StateScanning, s.State())
	assert.Len(t, s.Scans(), 1)
}

func TestScanQuantityInsensitive(t *testing.T) {
	// 数量为 3 的行由一次匹配扫描即满足
	s := NewSession(twoLineOrder(), &fakeRecorder{})
	require.NoError(t, s.LoadOrder("O1"))

	s.Scan("P2")
	s.Scan("P1")
	assert.Equal(t, StateComplete, s.State())
}

func TestScanIgnoredWithoutOrder(t *testing.T) {
	s := NewSession(twoLineOrder(), &fakeRecorder{})

	s.Scan("P1")
	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, s.Scans())
}

func TestScanIgnoresEmptyCode(t *testing.T) {
	s := NewSession(twoLineOrder(), &fakeRecorder{})
	require.NoError(t, s.LoadOrder("O1"))

	s.Scan("   ")
	assert.Equal(t, StateLoaded, s.State())
	assert.Empty(t, s.Scans())
}

func TestSubmitRejectedBeforeComplete(t *testing.T) {
	rec := &fakeRecorder{}
	s := NewSession(twoLineOrder(), rec)
	require.NoError(t, s.LoadOrder("O1"))
	s.Scan("P1")

	_, err := s.Submit("Jane Doe")
	assert.ErrorIs(t, err, ErrNotComplete)
	// 未完成时不触碰记录器
	assert.Zero(t, rec.calls)
	assert.Equal(t, StateScanning, s.State())
}

func TestSubmitFromComplete(t *testing.T) {
	rec := &fakeRecorder{}
	s := NewSession(twoLineOrder(), rec)
	require.NoError(t, s.LoadOrder("O1"))
	s.Scan("P1")
	s.Scan("P2")
	require.Equal(t, StateComplete, s.State())

	r, err := s.Submit("Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "O1", r.OrderCode)
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, StateSubmitted, s.State())
}

func TestSubmitFailureAllowsRetry(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("db down")}
	s := NewSession(twoLineOrder(), rec)
	require.NoError(t, s.LoadOrder("O1"))
	s.Scan("P1")
	s.Scan("P2")

	_, err := s.Submit("Jane Doe")
	require.Error(t, err)

	// 会话保持 Complete，扫描状态保留，可直接重试
	assert.Equal(t, StateComplete, s.State())
	assert.Len(t, s.Scans(), 2)

	rec.err = nil
	_, err = s.Submit("Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, StateSubmitted, s.State())
}

func TestCancelFromAnyState(t *testing.T) {
	s := NewSession(twoLineOrder(), &fakeRecorder{})
	require.NoError(t, s.LoadOrder("O1"))
	s.Scan("P1")

	s.Cancel()
	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, s.Scans())
	assert.Empty(t, s.OrderCode())
	assert.Empty(t, s.Message())
}

func TestResetAfterSubmit(t *testing.T) {
	s := NewSession(twoLineOrder(), &fakeRecorder{})
	require.NoError(t, s.LoadOrder("O1"))
	s.Scan("P1")
	s.Scan("P2")
	_, err := s.Submit("Jane Doe")
	require.NoError(t, err)

	// 提交后的扫描被忽略
	s.Scan("P1")
	assert.Equal(t, StateSubmitted, s.State())

	s.Reset()
	assert.Equal(t, StateIdle, s.State())

	// 复位后可开始新一轮会话
	require.NoError(t, s.LoadOrder("O1"))
	assert.Equal(t, StateLoaded, s.State())
}
