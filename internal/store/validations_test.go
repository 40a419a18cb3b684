package store

import (
	"testing"
	"time"
)

// TestInsertValidationNoDedup 相同订单重复提交产生两条独立记录
func TestInsertValidationNoDedup(t *testing.T) {
	st := newTestStore(t)

	now := time.Now()
	first, err := st.InsertValidation("A100", "Jane Doe", now)
	if err != nil {
		t.Fatalf("insert validation: %v", err)
	}
	second, err := st.InsertValidation("A100", "Jane Doe", now)
	if err != nil {
		t.Fatalf("insert validation: %v", err)
	}

	if first.ID == second.ID {
		t.Errorf("both records share id %d", first.ID)
	}

	count, err := st.CountValidations()
	if err != nil {
		t.Fatalf("count validations: %v", err)
	}
	if count != 2 {
		t.Errorf("validation count = %d, want 2", count)
	}
}

// TestListValidationsFilters 子串过滤与倒序
func TestListValidationsFilters(t *testing.T) {
	st := newTestStore(t)

	base := time.Now().UTC()
	seed := []struct {
		order    string
		operator string
		at       time.Time
	}{
		{"A100", "Jane Doe", base.Add(-2 * time.Hour)},
		{"A200", "John Smith", base.Add(-1 * time.Hour)},
		{"B300", "Jane Doe", base},
	}
	for _, s := range seed {
		if _, err := st.InsertValidation(s.order, s.operator, s.at); err != nil {
			t.Fatalf("insert validation: %v", err)
		}
	}

	// 无过滤：全部记录，按时间倒序
	all, err := st.ListValidations(ValidationQueryOptions{})
	if err != nil {
		t.Fatalf("list validations: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}
	if all[0].OrderCode != "B300" || all[2].OrderCode != "A100" {
		t.Errorf("records not ordered by validated_at desc: %s .. %s", all[0].OrderCode, all[2].OrderCode)
	}

	// 订单号子串
	byOrder, err := st.ListValidations(ValidationQueryOptions{OrderCode: "A"})
	if err != nil {
		t.Fatalf("list validations: %v", err)
	}
	if len(byOrder) != 2 {
		t.Errorf("order filter got %d records, want 2", len(byOrder))
	}

	// 操作员子串
	byOperator, err := st.ListValidations(ValidationQueryOptions{OperatorName: "Jane"})
	if err != nil {
		t.Fatalf("list validations: %v", err)
	}
	if len(byOperator) != 2 {
		t.Errorf("operator filter got %d records, want 2", len(byOperator))
	}

	// 组合过滤
	both, err := st.ListValidations(ValidationQueryOptions{OrderCode: "A1", OperatorName: "Jane"})
	if err != nil {
		t.Fatalf("list validations: %v", err)
	}
	if len(both) != 1 || both[0].OrderCode != "A100" {
		t.Errorf("combined filter got %d records", len(both))
	}
}

// TestListValidationsDateRange 日期范围过滤（UTC）
func TestListValidationsDateRange(t *testing.T) {
	st := newTestStore(t)

	now := time.Now().UTC()
	if _, err := st.InsertValidation("TODAY", "Op", now); err != nil {
		t.Fatalf("insert validation: %v", err)
	}
	if _, err := st.InsertValidation("OLD", "Op", now.Add(-72*time.Hour)); err != nil {
		t.Fatalf("insert validation: %v", err)
	}

	today, err := st.ListValidations(ValidationQueryOptions{DateRange: "today"})
	if err != nil {
		t.Fatalf("list validations: %v", err)
	}
	if len(today) != 1 || today[0].OrderCode != "TODAY" {
		t.Fatalf("today filter got %d records", len(today))
	}

	// 未知的 dateRange 等同于不过滤
	all, err := st.ListValidations(ValidationQueryOptions{DateRange: "whatever"})
	if err != nil {
		t.Fatalf("list validations: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("unknown range got %d records, want 2", len(all))
	}
}

// TestListValidationsLimit 限制返回条数
func TestListValidationsLimit(t *testing.T) {
	st := newTestStore(t)

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		if _, err := st.InsertValidation("A100", "Op", base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("insert validation: %v", err)
		}
	}

	got, err := st.ListValidations(ValidationQueryOptions{Limit: 3})
	if err != nil {
		t.Fatalf("list validations: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d records, want 3", len(got))
	}
}
