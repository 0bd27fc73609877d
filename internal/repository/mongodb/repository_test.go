package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionName(t *testing.T) {
	tests := map[string]string{
		"Lab A":              "patrimonios_lab_a",
		"Laboratório 1":      "patrimonios_laboratorio_1",
		"Sala de Reuniões":   "patrimonios_sala_de_reunioes",
		"  Almoxarifado  ":   "patrimonios_almoxarifado",
		"Sala 10/B - Térreo": "patrimonios_sala_10_b_terreo",
	}

	for room, want := range tests {
		assert.Equal(t, want, CollectionName(room), room)
	}
}

func TestCheckRooms(t *testing.T) {
	require.NoError(t, CheckRooms([]string{"Laboratório 1", "Laboratório 2", "Sala de Reuniões"}))

	for _, rooms := range [][]string{
		{"Laboratório 1", "Laboratorio 1"},
		{"Laboratório 1", "Laboratório-1"},
		{"Lab A", "lab a"},
	} {
		err := CheckRooms(rooms)
		assert.ErrorIs(t, err, ErrRoomCollision, rooms)
	}
}

func TestNewRepositoryRejectsCollidingRooms(t *testing.T) {
	_, err := NewMongoDBRepository(context.Background(), "mongodb://127.0.0.1:1", "patrimonio", []string{"Laboratório 1", "Laboratorio 1"}, nil)
	assert.ErrorIs(t, err, ErrRoomCollision)
}
