package support

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// AuditEntry is one line of the append-only audit log.
type AuditEntry struct {
	TimestampUtc string `json:"timestampUtc"`
	Mode         string `json:"mode"`
	File         string `json:"file,omitempty"`
	Edits        int    `json:"edits,omitempty"`
	Result       string `json:"result,omitempty"`
	DryRun       bool   `json:"dryRun,omitempty"`
}

// AppendAudit appends entry to dir/audit.log as a single JSON line.
func AppendAudit(dir string, entry AuditEntry) error {
	entry.TimestampUtc = time.Now().UTC().Format(time.RFC3339)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, "audit.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}
