package entity

import "github.com/google/uuid"

type Screen struct {
	Base
	TenantID    uuid.UUID `db:"tenant_id"`
	Name        string    `db:"name"`
	RowCount    int       `db:"row_count"`
	ColumnCount int       `db:"column_count"`
}
