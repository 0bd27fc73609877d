package models

import "time"

// RoomSummary aggregates the records stored in a single room.
type RoomSummary struct {
	Room       string  `bson:"sala" json:"sala"`
	Items      int     `bson:"itens" json:"itens"`
	Quantity   int     `bson:"quantidade" json:"quantidade"`
	TotalValue float64 `bson:"valor_total" json:"valor_total"`
}

// InventorySummary represents the aggregated inventory stored as a snapshot in MongoDB.
type InventorySummary struct {
	Rooms      []RoomSummary `bson:"salas" json:"salas"`
	Items      int           `bson:"itens" json:"itens"`
	Quantity   int           `bson:"quantidade" json:"quantidade"`
	TotalValue float64       `bson:"valor_total" json:"valor_total"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
}
