package model

import "time"

// CatalogLine 订单目录行（一条订单下的一个产品行）
// (order_code, product_code) 在一次快照内唯一，由同步任务整体替换
type CatalogLine struct {
	OrderCode   string  `json:"orderCode"`
	ProductCode string  `json:"productCode"`
	Description *string `json:"description"` // 源表缺失时为 null
	Quantity    int     `json:"quantity"`    // 缺失或非数字时为 0
}

// ValidationRecord 验证记录（只追加，写入后不可变）
type ValidationRecord struct {
	ID           int64     `json:"id"`
	OrderCode    string    `json:"orderCode"`
	OperatorName string    `json:"operatorName"`
	ValidatedAt  time.Time `json:"validatedAt"`
}
