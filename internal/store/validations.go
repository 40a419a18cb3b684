package store

import (
	"fmt"
	"time"

	"github.com/minikel/valido-pwa/internal/model"
)

// sqliteTimeFormat 与 DATE()/CURRENT_TIMESTAMP 可比较的 UTC 时间格式
const sqliteTimeFormat = "2006-01-02 15:04:05"

// InsertValidation 追加一条验证记录
// 不做去重：同一订单重复提交产生多条记录
func (s *Store) InsertValidation(orderCode, operatorName string, validatedAt time.Time) (*model.ValidationRecord, error) {
	validatedAt = validatedAt.UTC()

	res, err := s.db.Exec(`
		INSERT INTO scan_validations (order_code, operator_name, validated_at)
		VALUES (?, ?, ?)
	`, orderCode, operatorName, validatedAt.Format(sqliteTimeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to insert validation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get validation id: %w", err)
	}

	return &model.ValidationRecord{
		ID:           id,
		OrderCode:    orderCode,
		OperatorName: operatorName,
		ValidatedAt:  validatedAt.Truncate(time.Second),
	}, nil
}

// ValidationQueryOptions 验证记录查询选项
type ValidationQueryOptions struct {
	DateRange    string // today / yesterday / last_week，空为不过滤
	OrderCode    string // 订单号子串匹配
	OperatorName string // 操作员姓名子串匹配
	Limit        int
}

// ListValidations 按过滤条件查询验证记录，按验证时间倒序
func (s *Store) ListValidations(opts ValidationQueryOptions) ([]model.ValidationRecord, error) {
	query := "SELECT id, order_code, operator_name, validated_at FROM scan_validations WHERE 1=1"
	args := []interface{}{}

	switch opts.DateRange {
	case "today":
		query += " AND DATE(validated_at) = DATE('now')"
	case "yesterday":
		query += " AND DATE(validated_at) = DATE('now', '-1 day')"
	case "last_week":
		query += " AND validated_at >= DATE('now', '-7 day') AND validated_at < DATE('now')"
	}

	if opts.OrderCode != "" {
		query += " AND order_code LIKE ?"
		args = append(args, "%"+opts.OrderCode+"%")
	}
	if opts.OperatorName != "" {
		query += " AND operator_name LIKE ?"
		args = append(args, "%"+opts.OperatorName+"%")
	}

	query += " ORDER BY validated_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query validations: %w", err)
	}
	defer rows.Close()

	records := []model.ValidationRecord{}
	for rows.Next() {
		var r model.ValidationRecord
		if err := rows.Scan(&r.ID, &r.OrderCode, &r.OperatorName, &r.ValidatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return records, nil
}

// CountValidations 统计验证记录总数
func (s *Store) CountValidations() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM scan_validations").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count validations: %w", err)
	}
	return count, nil
}
