// Package auditlog 维护验证记录的 Excel 审计日志
// 日志文件是读-改-写整体回写，本身不具备原子追加能力，
// 所有写入必须经过同一把进程内锁串行化，避免并发覆盖丢行
package auditlog

import (
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/minikel/valido-pwa/internal/model"
)

// 与源表约定保持一致的工作表与表头
const (
	SheetName = "Validation"

	timeLayout = "02/01/2006 15:04:05"
)

var headerRow = []interface{}{"Commande", "Nom Complet", "Date et Heure"}

// ExcelLog 只追加的 Excel 审计日志
type ExcelLog struct {
	mu   sync.Mutex
	path string
}

// New 创建审计日志写入器
func New(path string) *ExcelLog {
	return &ExcelLog{path: path}
}

// Path 日志文件路径
func (l *ExcelLog) Path() string {
	return l.path
}

// Append 追加一条验证记录并整体保存工作簿
// 文件不存在或无法读取时重建工作簿；工作表缺失时新建工作表
func (l *ExcelLog) Append(rec model.ValidationRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	wb, err := l.openOrCreate()
	if err != nil {
		return err
	}
	defer wb.Close()

	rows, err := wb.GetRows(SheetName)
	if err != nil {
		// 工作表缺失，新建并补表头
		if _, err := wb.NewSheet(SheetName); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
		rows = nil
	}

	next := len(rows) + 1
	if len(rows) == 0 {
		cell, _ := excelize.CoordinatesToCellName(1, 1)
		if err := wb.SetSheetRow(SheetName, cell, &headerRow); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		next = 2
	}

	cell, _ := excelize.CoordinatesToCellName(1, next)
	row := []interface{}{rec.OrderCode, rec.OperatorName, rec.ValidatedAt.Format(timeLayout)}
	if err := wb.SetSheetRow(SheetName, cell, &row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	if err := wb.SaveAs(l.path); err != nil {
		return fmt.Errorf("failed to save audit log: %w", err)
	}

	return nil
}

// Count 统计日志中的记录行数（不含表头）
func (l *ExcelLog) Count() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	wb, err := excelize.OpenFile(l.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows(SheetName)
	if err != nil {
		return 0, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows) - 1, nil
}

// openOrCreate 打开现有日志，失败时重建空工作簿
func (l *ExcelLog) openOrCreate() (*excelize.File, error) {
	if _, err := os.Stat(l.path); err == nil {
		wb, err := excelize.OpenFile(l.path)
		if err == nil {
			return wb, nil
		}
		// 文件损坏：关系库中的记录才是事实来源，这里重建日志
	}

	wb := excelize.NewFile()
	wb.SetSheetName("Sheet1", SheetName)
	return wb, nil
}
