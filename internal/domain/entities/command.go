package entities

// CommandCode identifies the notification a sweep asks the dispatcher to deliver.
type CommandCode string

const (
	CommandEventFinalized      CommandCode = "event_finalized"
	CommandRequestFinalized    CommandCode = "request_finalized"
	CommandEventRateReminder   CommandCode = "event_rate_reminder"
	CommandRequestRateReminder CommandCode = "request_rate_reminder"
)

// FinalizedCommand picks the code sent after a record leaves Pending.
func FinalizedCommand(r *Record) CommandCode {
	if r.IsRequest {
		return CommandRequestFinalized
	}
	return CommandEventFinalized
}

// ReminderCommand picks the code sent while a record still waits for ratings.
func ReminderCommand(r *Record) CommandCode {
	if r.IsRequest {
		return CommandRequestRateReminder
	}
	return CommandEventRateReminder
}
