package models

// RoomList is the payload of the room listing endpoint.
type RoomList struct {
	Rooms []string `json:"salas"`
}

// Contains reports whether room belongs to the list.
func (l RoomList) Contains(room string) bool {
	for _, r := range l.Rooms {
		if r == room {
			return true
		}
	}
	return false
}
