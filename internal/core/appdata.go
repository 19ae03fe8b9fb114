package core

// DataVersion is the schema version carried in exported snapshots. It is
// recorded for future migration handling; nothing enforces it yet.
const DataVersion = "1"

// AppData is the aggregate export shape: every collection plus version
// metadata. Used by the backup worker and the export command.
type AppData struct {
	Settings       Settings      `json:"settings"`
	Accounts       []Account     `json:"accounts"`
	Categories     []Category    `json:"categories"`
	Transactions   []Transaction `json:"transactions"`
	Budgets        []Budget      `json:"budgets"`
	Goals          []Goal        `json:"goals"`
	Version        string        `json:"version"`
	LastBackupDate string        `json:"lastBackupDate,omitempty"`
}
