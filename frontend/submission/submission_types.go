package submission

// RunRow is a submission run as listed on the admin panel.
type RunRow struct {
	ID          string `bun:"id"`
	Username    string `bun:"username"`
	Survey      string `bun:"survey"`
	RowCount    int64  `bun:"row_count"`
	LedgerOK    bool   `bun:"ledger_ok"`
	RemoteOK    bool   `bun:"remote_ok"`
	RemoteError string `bun:"remote_error"`
	CreatedAt   string `bun:"created_at"`
}

// CanReplay reports whether the remote leg of a run is still pending.
func (r RunRow) CanReplay() bool {
	return r.LedgerOK && !r.RemoteOK
}
