package store

import (
	"database/sql"
	"fmt"

	"github.com/minikel/valido-pwa/internal/model"
)

// ReplaceCatalog 以单个事务整体替换订单目录快照
// 外部读取方只会看到替换前或替换后的完整快照；任一失败回滚，旧快照保持不变
func (s *Store) ReplaceCatalog(lines []model.CatalogLine) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM orders_data"); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO orders_data (order_code, product_code, description, quantity)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, l := range lines {
		var desc sql.NullString
		if l.Description != nil {
			desc = sql.NullString{String: *l.Description, Valid: true}
		}
		if _, err := stmt.Exec(l.OrderCode, l.ProductCode, desc, l.Quantity); err != nil {
			return fmt.Errorf("failed to insert catalog line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LinesByOrder 查询指定订单的目录行
// 未知订单返回空切片而非错误；存储访问失败才返回 error
func (s *Store) LinesByOrder(orderCode string) ([]model.CatalogLine, error) {
	rows, err := s.db.Query(`
		SELECT order_code, product_code, description, quantity
		FROM orders_data WHERE order_code = ?
	`, orderCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	lines := []model.CatalogLine{}
	for rows.Next() {
		var l model.CatalogLine
		var desc sql.NullString
		if err := rows.Scan(&l.OrderCode, &l.ProductCode, &desc, &l.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if desc.Valid {
			l.Description = &desc.String
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return lines, nil
}

// CountCatalog 统计目录行总数
func (s *Store) CountCatalog() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM orders_data").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count catalog: %w", err)
	}
	return count, nil
}

// CountCatalogOrders 统计目录中不同订单数
func (s *Store) CountCatalogOrders() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(DISTINCT order_code) FROM orders_data").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}
