// Package recorder 负责验证记录的持久化
// 关系库写入是事实来源；Excel 审计日志是尽力而为的副本
package recorder

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/minikel/valido-pwa/internal/auditlog"
	"github.com/minikel/valido-pwa/internal/metrics"
	"github.com/minikel/valido-pwa/internal/model"
	"github.com/minikel/valido-pwa/internal/store"
)

var (
	// ErrEmptyOrderCode 订单号为空
	ErrEmptyOrderCode = errors.New("order code is empty")
	// ErrEmptyOperatorName 操作员姓名为空
	ErrEmptyOperatorName = errors.New("operator name is empty")
)

// Recorder 验证记录器
type Recorder struct {
	store   *store.Store
	log     *auditlog.ExcelLog
	metrics *metrics.Registry
}

// New 创建验证记录器
func New(st *store.Store, al *auditlog.ExcelLog, m *metrics.Registry) *Recorder {
	return &Recorder{
		store:   st,
		log:     al,
		metrics: m,
	}
}

// Record 记录一次验证
// 先写关系库（失败则整体失败，不触碰审计日志）；
// 再追加审计日志（失败仅记录警告，关系库中的记录依然有效）
func (r *Recorder) Record(orderCode, operatorName string) (*model.ValidationRecord, error) {
	orderCode = strings.TrimSpace(orderCode)
	operatorName = strings.TrimSpace(operatorName)

	if orderCode == "" {
		return nil, ErrEmptyOrderCode
	}
	if operatorName == "" {
		return nil, ErrEmptyOperatorName
	}

	rec, err := r.store.InsertValidation(orderCode, operatorName, time.Now())
	if err != nil {
		return nil, err
	}

	r.metrics.Validations.Inc()

	if err := r.log.Append(*rec); err != nil {
		r.metrics.AuditLogFailures.Inc()
		log.Printf("审计日志追加失败 (订单 %s): %v", orderCode, err)
	}

	return rec, nil
}

// IsInputError 判断是否为输入校验错误
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyOrderCode) || errors.Is(err, ErrEmptyOperatorName)
}
