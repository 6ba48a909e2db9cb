package entities

// Group is the chat a record belongs to, with the settings announce depends on.
type Group struct {
	ID       string
	Settings GroupSettings
}

type GroupSettings struct {
	Name                   string
	Language               string
	Currency               string
	Timezone               string
	ChatMembersCount       int
	ParticipantsMinPercent int // 0..100
	PendingHours           int
	CreateDaysAgo          int
}

// DefaultGroupSettings mirrors the defaults a freshly registered group gets.
func DefaultGroupSettings(name string) GroupSettings {
	return GroupSettings{
		Name:     name,
		Language: "en",
		Currency: "$",
		Timezone: "Europe/Moscow",
	}
}
