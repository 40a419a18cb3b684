// Package scan 实现订单扫描匹配的会话状态机
// 会话由外部 UI/扫码器驱动，自身不关心条码如何解码，只消费解码后的字符串
package scan

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/minikel/valido-pwa/internal/model"
)

// State 会话状态
type State string

const (
	StateIdle      State = "idle"      // 未加载订单
	StateLoaded    State = "loaded"    // 订单已加载，尚无扫描
	StateScanning  State = "scanning"  // 已有扫描但未全部匹配
	StateComplete  State = "complete"  // 所有目录行均已匹配
	StateSubmitted State = "submitted" // 验证已记录
)

// ErrNotComplete 会话未完成时提交被拒绝
var ErrNotComplete = errors.New("session is not complete")

// Lookup 订单目录查询
type Lookup interface {
	LinesByOrder(orderCode string) ([]model.CatalogLine, error)
}

// Recorder 验证记录器
type Recorder interface {
	Record(orderCode, operatorName string) (*model.ValidationRecord, error)
}

// ScanStatus 单个产品号的扫描状态
type ScanStatus struct {
	Scanned bool `json:"scanned"`
	Matched bool `json:"matched"`
}

// Session 一次订单"加载-扫描-提交"周期的会话
// 匹配按产品号而非行计数：数量大于 1 的目录行由一次匹配扫描即满足，
// 数量仅作展示，不逐件递减
type Session struct {
	mu sync.Mutex

	id       string
	lookup   Lookup
	recorder Recorder

	state     State
	orderCode string
	lines     []model.CatalogLine
	scans     map[string]ScanStatus
	message   string
}

// NewSession 创建会话
func NewSession(lookup Lookup, recorder Recorder) *Session {
	return &Session{
		id:       uuid.New().String(),
		lookup:   lookup,
		recorder: recorder,
		state:    StateIdle,
		scans:    map[string]ScanStatus{},
	}
}

// ID 会话标识
func (s *Session) ID() string {
	return s.id
}

// State 当前状态
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Message 面向操作员的提示信息
func (s *Session) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// OrderCode 当前加载的订单号
func (s *Session) OrderCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderCode
}

// Lines 当前订单的目录行
func (s *Session) Lines() []model.CatalogLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CatalogLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Scans 扫描状态快照
func (s *Session) Scans() map[string]ScanStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]ScanStatus, len(s.scans))
	for k, v := range s.scans {
		out[k] = v
	}
	return out
}

// LoadOrder 加载订单并清空扫描状态
// 空结果不是错误：停留在 Idle 并提示无产品；存储失败原样返回
func (s *Session) LoadOrder(orderCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orderCode = strings.TrimSpace(orderCode)
	if orderCode == "" {
		s.message = "请输入订单号"
		return nil
	}

	lines, err := s.lookup.LinesByOrder(orderCode)
	if err != nil {
		s.resetLocked()
		s.message = "订单查询失败"
		return err
	}

	if len(lines) == 0 {
		s.resetLocked()
		s.message = fmt.Sprintf("订单 %s 没有关联产品", orderCode)
		return nil
	}

	s.state = StateLoaded
	s.orderCode = orderCode
	s.lines = lines
	s.scans = map[string]ScanStatus{}
	s.message = ""
	return nil
}

// Scan 记录一次产品扫码
// 未加载订单或空码时忽略；同一产品号重复扫描只覆盖其状态（幂等，不累计）；
// 不匹配的扫码给出提示但不阻止继续扫描
func (s *Session) Scan(productCode string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLoaded && s.state != StateScanning && s.state != StateComplete {
		return
	}

	productCode = strings.TrimSpace(productCode)
	if productCode == "" {
		return
	}

	matched := false
	for _, l := range s.lines {
		if l.ProductCode == productCode {
			matched = true
			break
		}
	}

	s.scans[productCode] = ScanStatus{Scanned: true, Matched: matched}

	if matched {
		s.message = ""
	} else {
		s.message = fmt.Sprintf("产品 %s 不属于此订单！", productCode)
	}

	if s.state == StateLoaded {
		s.state = StateScanning
	}

	// 每次扫描后做完成检查
	if s.allMatchedLocked() {
		if s.state != StateComplete {
			s.state = StateComplete
			s.message = "所有产品匹配完成"
		}
	} else if s.state == StateComplete {
		s.state = StateScanning
	}
}

// Submit 提交验证，仅在 Complete 状态有效
// 失败时回到 Complete 并保留扫描状态，操作员可直接重试
func (s *Session) Submit(operatorName string) (*model.ValidationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateComplete {
		return nil, ErrNotComplete
	}

	rec, err := s.recorder.Record(s.orderCode, operatorName)
	if err != nil {
		s.message = "验证提交失败"
		return nil, err
	}

	s.state = StateSubmitted
	s.message = "验证完成"
	return rec, nil
}

// Cancel 取消会话，任意状态可用
func (s *Session) Cancel() {
	s.Reset()
}

// Reset 清空会话回到 Idle
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.state = StateIdle
	s.orderCode = ""
	s.lines = nil
	s.scans = map[string]ScanStatus{}
	s.message = ""
}

// allMatchedLocked 完成判定：每个目录行的产品号都有 matched 扫描记录
func (s *Session) allMatchedLocked() bool {
	if len(s.lines) == 0 || len(s.scans) == 0 {
		return false
	}
	for _, l := range s.lines {
		st, ok := s.scans[l.ProductCode]
		if !ok || !st.Matched {
			return false
		}
	}
	return true
}

