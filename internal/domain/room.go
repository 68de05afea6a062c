package domain

import (
	"strings"
	"time"
)

type RoomType string

const (
	RoomTypeJunior       RoomType = "junior"
	RoomTypeKing         RoomType = "king"
	RoomTypePresidential RoomType = "presidential"
)

var roomTypes = []RoomType{RoomTypeJunior, RoomTypeKing, RoomTypePresidential}

func RoomTypes() []RoomType {
	out := make([]RoomType, len(roomTypes))
	copy(out, roomTypes)
	return out
}

// ParseRoomType accepts the tier name in any case.
func ParseRoomType(s string) (RoomType, error) {
	t := RoomType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", NewError(KindInvalidInput, "unknown room type "+s)
	}
	return t, nil
}

func (t RoomType) Valid() bool {
	for _, rt := range roomTypes {
		if rt == t {
			return true
		}
	}
	return false
}

type Room struct {
	ID            string   `json:"id"`
	Type          RoomType `json:"type"`
	Capacity      int      `json:"capacity"`
	BaseRateCents int64    `json:"baseRateCents"`
	Active        bool     `json:"active"`
}

// RoomPage is one page of an availability search. NextCursor is empty on the last page.
type RoomPage struct {
	Rooms      []Room `json:"rooms"`
	NextCursor string `json:"nextCursor,omitempty"`
}

const DefaultSearchLimit = 20

// FindAvailableParams selects active rooms that fit Guests and are free for
// the whole stay. Cursor is the last room id of the previous page.
type FindAvailableParams struct {
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	Type     *RoomType
	Limit    int
	Cursor   string
}

func (p FindAvailableParams) EffectiveLimit() int {
	if p.Limit <= 0 {
		return DefaultSearchLimit
	}
	return p.Limit
}
