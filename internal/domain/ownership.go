package domain

import (
	"time"

	"github.com/google/uuid"
)

// OwnedCard is one entry in the collection ledger: a card owned at a
// specific rarity. The same identity can be owned at several rarities at
// once (a normal pull and a mastery-granted golden copy are distinct
// records). Ownership is monotonic; records are never revoked. Duplicate
// grants of the same (card, rarity) bump Copies instead of adding rows.
type OwnedCard struct {
	UserID     uuid.UUID    `json:"user_id"`
	Card       CardIdentity `json:"card"`
	Rarity     Rarity       `json:"rarity"`
	Copies     int          `json:"copies"`
	AcquiredAt time.Time    `json:"acquired_at"`
}
