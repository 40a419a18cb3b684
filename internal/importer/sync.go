// Package importer 实现订单目录的周期同步：
// 读取源 Excel 工作表，去重后整体替换 SQLite 中的目录快照
package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/minikel/valido-pwa/internal/metrics"
	"github.com/minikel/valido-pwa/internal/model"
	"github.com/minikel/valido-pwa/internal/store"
)

// 源表约定的表头列名
const (
	ColOrderCode   = "# commande"
	ColProductCode = "Produit"
	ColDescription = "Description"
	ColQuantity    = "Quantite"
)

var (
	// ErrSyncInProgress 上一次同步尚未结束，本次触发被跳过
	ErrSyncInProgress = errors.New("sync already in progress")
	// ErrSheetNotFound 源文件中找不到约定的工作表
	ErrSheetNotFound = errors.New("worksheet not found")
	// ErrMissingColumns 表头缺少必需列
	ErrMissingColumns = errors.New("required columns missing")
)

// SyncJob 目录同步任务
// Run 互斥执行：定时器和手动触发共用同一把锁，重叠触发直接跳过而非排队
type SyncJob struct {
	store      *store.Store
	metrics    *metrics.Registry
	sourcePath string
	sheetName  string

	mu sync.Mutex
}

// NewSyncJob 创建同步任务
func NewSyncJob(st *store.Store, m *metrics.Registry, sourcePath, sheetName string) *SyncJob {
	return &SyncJob{
		store:      st,
		metrics:    m,
		sourcePath: sourcePath,
		sheetName:  sheetName,
	}
}

// Run 执行一次同步，返回导入行数
// 任何失败都不触及现有快照：事务回滚后下个周期从头重试
func (j *SyncJob) Run() (int, error) {
	if !j.mu.TryLock() {
		j.metrics.SyncSkipped.Inc()
		return 0, ErrSyncInProgress
	}
	defer j.mu.Unlock()

	j.metrics.SyncRuns.Inc()

	n, err := j.runLocked()
	if err != nil {
		j.metrics.SyncFailures.Inc()
		return 0, err
	}

	j.metrics.CatalogLines.Set(float64(n))
	return n, nil
}

func (j *SyncJob) runLocked() (int, error) {
	wb, err := excelize.OpenFile(j.sourcePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open source workbook: %w", err)
	}
	defer wb.Close()

	sheet, ok := findSheet(wb, j.sheetName)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrSheetNotFound, j.sheetName)
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	lines, err := parseCatalog(rows)
	if err != nil {
		return 0, err
	}

	if err := j.store.ReplaceCatalog(lines); err != nil {
		return 0, err
	}

	return len(lines), nil
}

// findSheet 不区分大小写地查找工作表
func findSheet(wb *excelize.File, name string) (string, bool) {
	for _, s := range wb.GetSheetList() {
		if strings.EqualFold(s, name) {
			return s, true
		}
	}
	return "", false
}

// parseCatalog 将工作表行转换为目录行候选：
// 去除订单/产品号两端空白，缺失描述置 null，缺失或非数字数量置 0，
// 按 (订单号, 产品号) 去重，首次出现优先
func parseCatalog(rows [][]string) ([]model.CatalogLine, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty sheet", ErrMissingColumns)
	}

	headers := rows[0]
	orderIdx := findColumn(headers, ColOrderCode)
	productIdx := findColumn(headers, ColProductCode)
	descIdx := findColumn(headers, ColDescription)
	qtyIdx := findColumn(headers, ColQuantity)

	if orderIdx < 0 || productIdx < 0 {
		return nil, fmt.Errorf("%w: %q / %q", ErrMissingColumns, ColOrderCode, ColProductCode)
	}

	lines := []model.CatalogLine{}
	seen := map[string]bool{}

	for _, row := range rows[1:] {
		orderCode := strings.TrimSpace(cellAt(row, orderIdx))
		productCode := strings.TrimSpace(cellAt(row, productIdx))
		if orderCode == "" || productCode == "" {
			continue
		}

		key := orderCode + "\x00" + productCode
		if seen[key] {
			// 重复键，保留首次出现的行
			continue
		}
		seen[key] = true

		line := model.CatalogLine{
			OrderCode:   orderCode,
			ProductCode: productCode,
			Quantity:    parseQuantity(cellAt(row, qtyIdx)),
		}
		if desc := cellAt(row, descIdx); desc != "" {
			line.Description = &desc
		}

		lines = append(lines, line)
	}

	return lines, nil
}

// findColumn 在表头中查找列下标，忽略两端空白
func findColumn(headers []string, name string) int {
	for i, h := range headers {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// cellAt 读取单元格，行比表头短或列缺失时返回空串
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseQuantity 解析数量，非数字回退为 0
func parseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}
