package syncrelay

// Task kinds understood by the remote mirror.
const (
	KindSlotUpsert  = "slot_upsert"
	KindScoreEvents = "score_events"
	KindSwapResult  = "swap_result"
	KindRosterLock  = "roster_lock"
)

// Task is one unit of work for the relay.
type Task struct {
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
}

// Remote ids are not guaranteed to coincide with local ids, so every payload
// identifies records by natural keys: unit code, duty-type name, personnel
// service number, and date.

// SlotPush mirrors one duty slot.
type SlotPush struct {
	UnitCode                 string  `json:"unit_code"`
	DutyTypeName             string  `json:"duty_type_name"`
	DutyDate                 string  `json:"duty_date"` // YYYY-MM-DD
	ServiceNumber            string  `json:"service_number,omitempty"`
	Status                   string  `json:"status"`
	SwappedFromServiceNumber string  `json:"swapped_from_service_number,omitempty"`
	SwapPairID               *string `json:"swap_pair_id,omitempty"`
}

// ScoreEventPush mirrors one immutable score event.
type ScoreEventPush struct {
	UnitCode      string  `json:"unit_code"`
	DutyTypeName  string  `json:"duty_type_name"`
	ServiceNumber string  `json:"service_number"`
	DutyDate      string  `json:"duty_date"`
	Points        float64 `json:"points"`
	RosterYear    int     `json:"roster_year"`
	RosterMonth   int     `json:"roster_month"`
}

// SwapResultPush mirrors a finalized swap pair and its slot states.
type SwapResultPush struct {
	SwapPairID string     `json:"swap_pair_id"`
	Status     string     `json:"status"`
	Reason     string     `json:"reason,omitempty"`
	Slots      []SlotPush `json:"slots,omitempty"`
}

// RosterLockPush mirrors an approved roster lock.
type RosterLockPush struct {
	UnitCode string `json:"unit_code"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Locked   bool   `json:"locked"`
}
