package entity

import (
	"time"

	"gorm.io/datatypes"
)

// RawEvent Grab 原始报文存档（只增不改，审计与重放来源）
type RawEvent struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	GrabOrderID string         `gorm:"column:grab_order_id;type:varchar(64);not null;index:idx_grab_order_id"`
	Payload     datatypes.JSON `gorm:"column:payload;type:json;not null"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null"`
}

// TableName 指定表名
func (RawEvent) TableName() string {
	return "grab_raw"
}
