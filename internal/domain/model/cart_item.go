package model

import "time"

// カートの明細。数量は常に1（モジュールは1人1回しか買えない）。
// PriceSnapshotは表示用。合計はチェックアウト時に現在価格で再計算する。
type CartItem struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID        int64     `gorm:"not null;uniqueIndex:idx_cart_module" json:"cart_id"`
	ModuleID      int64     `gorm:"not null;uniqueIndex:idx_cart_module" json:"module_id"`
	PriceSnapshot int64     `gorm:"not null;column:price_snapshot" json:"price_snapshot"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
