package datatable

// Last-action labels derived from a row's audit timestamps.
const (
	ActionCreated = "Created"
	ActionUpdated = "Updated"
	ActionDeleted = "Deleted"
)

// Row is one decoded listing record. Entities differ in shape, so rows stay
// generic maps keyed by the JSON field names the server emits.
type Row map[string]any

// Normalize derives the display fields every table shares: datetime is the
// most recent audit timestamp (deleted beats updated beats created) and
// last_action labels which one won.
func Normalize(rows []Row) []Row {
	for _, r := range rows {
		switch {
		case r["deleted_at"] != nil:
			r["datetime"] = r["deleted_at"]
			r["last_action"] = ActionDeleted
		case r["updated_at"] != nil:
			r["datetime"] = r["updated_at"]
			r["last_action"] = ActionUpdated
		default:
			r["datetime"] = r["created_at"]
			r["last_action"] = ActionCreated
		}
	}
	return rows
}
